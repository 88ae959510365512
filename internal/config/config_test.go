package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestLoad_Defaults() {
	s.T().Setenv("APP_ENV", "testing")
	s.T().Setenv("GEMINI_API_KEY", "test-key")
	s.T().Setenv("JWT_PUBLIC_KEY", "")
	s.T().Setenv("AI_TIMEOUT", "")

	cfg := Load()

	s.Equal(30*time.Second, cfg.AI.Timeout)
	s.Equal("gemini-2.0-flash", cfg.AI.Model)
	s.Equal("test-key", cfg.AI.APIKey)
	s.Nil(cfg.Auth.PublicKey)
	s.True(cfg.IsTesting())
	s.NoError(cfg.Validate())
}

func (s *ConfigTestSuite) TestLoad_PublicKeyFromEnv() {
	_, pub, err := GenerateRSAKeyPair()
	s.Require().NoError(err)
	pemBytes, err := EncodePublicKeyPEM(pub)
	s.Require().NoError(err)

	s.T().Setenv("APP_ENV", "testing")
	s.T().Setenv("JWT_PUBLIC_KEY", base64.StdEncoding.EncodeToString(pemBytes))

	cfg := Load()

	s.Require().NotNil(cfg.Auth.PublicKey)
	s.Equal(pub.N, cfg.Auth.PublicKey.N)
}

func (s *ConfigTestSuite) TestValidate() {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name: "missing api key in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.AI.APIKey = "  "
			},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "non positive timeout",
			mutate:  func(c *Config) { c.AI.Timeout = 0 },
			wantErr: "AI_TIMEOUT",
		},
		{
			name:    "auth enabled without key",
			mutate:  func(c *Config) { c.Auth.Enabled = true },
			wantErr: "JWT_PUBLIC_KEY",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := &Config{
				AI:       AIConfig{APIKey: "key", Timeout: time.Second},
				Security: SecurityConfig{RateLimitPerSecond: 5},
			}
			tc.mutate(cfg)

			err := cfg.Validate()
			s.Require().Error(err)
			s.Contains(err.Error(), tc.wantErr)
		})
	}
}

func (s *ConfigTestSuite) TestValidate_APIKeyOptionalInDevelopment() {
	cfg := &Config{
		Server:   ServerConfig{Environment: "development"},
		AI:       AIConfig{Timeout: time.Second},
		Security: SecurityConfig{RateLimitPerSecond: 5},
	}
	s.NoError(cfg.Validate())
}

func (s *ConfigTestSuite) TestLoadCORSAllowOrigins() {
	s.T().Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")
	cfg := &Config{}
	s.Equal([]string{"https://a.example", "https://b.example"}, cfg.loadCORSAllowOrigins())
}
