package services

import (
	"sync"
	"testing"
	"time"

	"finance-admin/internal/config"
	"finance-admin/internal/models"

	"github.com/stretchr/testify/suite"
)

type CircuitBreakerTestSuite struct {
	suite.Suite
	clock       time.Time
	transitions [][2]models.CircuitBreakerState
	breaker     *CircuitBreaker
}

func TestCircuitBreakerSuite(t *testing.T) {
	suite.Run(t, new(CircuitBreakerTestSuite))
}

func (s *CircuitBreakerTestSuite) SetupTest() {
	s.clock = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	s.transitions = nil

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:     3,
		ResetTimeout:    time.Minute,
		HalfOpenMaxSucc: 2,
		OnStateChange: func(from, to models.CircuitBreakerState) {
			s.transitions = append(s.transitions, [2]models.CircuitBreakerState{from, to})
		},
	}).(*CircuitBreaker)
	cb.now = func() time.Time { return s.clock }
	s.breaker = cb
}

func (s *CircuitBreakerTestSuite) TestOpensAfterMaxFailures() {
	s.breaker.RecordFailure()
	s.breaker.RecordFailure()
	s.False(s.breaker.IsOpen())
	s.Equal(2, s.breaker.GetFailureCount())

	s.breaker.RecordFailure()
	s.True(s.breaker.IsOpen())
	s.Equal(StateOpen, s.breaker.GetState())
	s.Equal([][2]models.CircuitBreakerState{{StateClosed, StateOpen}}, s.transitions)
}

func (s *CircuitBreakerTestSuite) TestSuccessResetsFailureCount() {
	s.breaker.RecordFailure()
	s.breaker.RecordFailure()
	s.breaker.RecordSuccess()

	s.Equal(0, s.breaker.GetFailureCount())
	s.breaker.RecordFailure()
	s.False(s.breaker.IsOpen())
}

func (s *CircuitBreakerTestSuite) TestHalfOpenAfterResetTimeout() {
	for i := 0; i < 3; i++ {
		s.breaker.RecordFailure()
	}
	s.True(s.breaker.IsOpen())

	s.clock = s.clock.Add(61 * time.Second)
	s.False(s.breaker.IsOpen())
	s.Equal(StateHalfOpen, s.breaker.GetState())

	s.breaker.RecordSuccess()
	s.Equal(StateHalfOpen, s.breaker.GetState())
	s.breaker.RecordSuccess()
	s.Equal(StateClosed, s.breaker.GetState())

	s.Equal([][2]models.CircuitBreakerState{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}, s.transitions)
}

func (s *CircuitBreakerTestSuite) TestHalfOpenFailureReopens() {
	for i := 0; i < 3; i++ {
		s.breaker.RecordFailure()
	}
	s.clock = s.clock.Add(2 * time.Minute)
	s.False(s.breaker.IsOpen())

	s.breaker.RecordFailure()
	s.True(s.breaker.IsOpen())
	s.Equal(StateOpen, s.breaker.GetState())
}

func (s *CircuitBreakerTestSuite) TestReset() {
	for i := 0; i < 3; i++ {
		s.breaker.RecordFailure()
	}
	s.breaker.Reset()

	s.Equal(StateClosed, s.breaker.GetState())
	s.Equal(0, s.breaker.GetFailureCount())
	s.False(s.breaker.IsOpen())
}

func (s *CircuitBreakerTestSuite) TestConcurrentUse() {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				cb.RecordFailure()
			} else {
				cb.RecordSuccess()
			}
			cb.IsOpen()
		}(i)
	}
	wg.Wait()

	s.Contains([]models.CircuitBreakerState{StateClosed, StateOpen, StateHalfOpen}, cb.GetState())
}

func (s *CircuitBreakerTestSuite) TestConfigFromAI() {
	cfg := CircuitBreakerConfigFromAI(config.AIConfig{
		BreakerFailureThreshold: 4,
		BreakerTimeout:          10 * time.Second,
	})

	s.Equal(4, cfg.MaxFailures)
	s.Equal(10*time.Second, cfg.ResetTimeout)
	s.Equal(DefaultCircuitBreakerConfig().HalfOpenMaxSucc, cfg.HalfOpenMaxSucc)
	s.Equal("open", StateOpen.String())
}
