package services

import (
	"crypto/rsa"
	"testing"
	"time"

	"finance-admin/internal/config"
	"finance-admin/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type TokenServiceTestSuite struct {
	suite.Suite
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	service    TokenServiceInterface
	issuer     string
}

func (s *TokenServiceTestSuite) SetupTest() {
	var err error
	s.privateKey, s.publicKey, err = config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.issuer = "identity-service"
	s.service = NewTokenService(&config.AuthConfig{
		Enabled:   true,
		PublicKey: s.publicKey,
		Issuer:    s.issuer,
	})
}

func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

// signToken mints a token the way the identity service does
func (s *TokenServiceTestSuite) signToken(key *rsa.PrivateKey, issuer, tokenType string, expiresIn time.Duration) string {
	now := time.Now()
	claims := models.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "admin@example.com",
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
		UserID:    uuid.NewString(),
		Email:     "admin@example.com",
		Role:      "admin",
		TokenType: tokenType,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	s.Require().NoError(err)
	return token
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Success() {
	token := s.signToken(s.privateKey, s.issuer, TokenTypeAccess, time.Hour)

	claims, err := s.service.ValidateAccessToken(token)
	s.NoError(err)
	s.Require().NotNil(claims)
	s.Equal("admin@example.com", claims.Email)
	s.Equal(TokenTypeAccess, claims.TokenType)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_EmptyToken() {
	claims, err := s.service.ValidateAccessToken("")
	s.ErrorIs(err, ErrEmptyToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_MalformedToken() {
	claims, err := s.service.ValidateAccessToken("not.a.jwt")
	s.ErrorIs(err, ErrInvalidToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestExpiredToken() {
	token := s.signToken(s.privateKey, s.issuer, TokenTypeAccess, -time.Second)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrExpiredToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestWrongIssuer() {
	token := s.signToken(s.privateKey, "someone-else", TokenTypeAccess, time.Hour)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidIssuer)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestRefreshTokenRejected() {
	token := s.signToken(s.privateKey, s.issuer, "refresh", time.Hour)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidTokenType)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestDifferentKeys() {
	otherKey, _, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)
	token := s.signToken(otherKey, s.issuer, TokenTypeAccess, time.Hour)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestHMACTokenRejected() {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: s.issuer},
	}).SignedString([]byte("shared-secret"))
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestLeewayAcceptsRecentlyExpiredToken() {
	service := NewTokenService(&config.AuthConfig{
		PublicKey: s.publicKey,
		Issuer:    s.issuer,
		Leeway:    30 * time.Second,
	})
	token := s.signToken(s.privateKey, s.issuer, TokenTypeAccess, -5*time.Second)

	claims, err := service.ValidateAccessToken(token)
	s.NoError(err)
	s.NotNil(claims)
}

func (s *TokenServiceTestSuite) TestTokenWithoutExpiryRejected() {
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, models.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: s.issuer},
		UserID:           uuid.NewString(),
	}).SignedString(s.privateKey)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceTestSuite) TestActorIDFallsBackToSubject() {
	claims := models.AdminClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-id"}}
	s.Equal("sub-id", claims.ActorID())

	claims.UserID = "user-id"
	s.Equal("user-id", claims.ActorID())
}

func (s *TokenServiceTestSuite) TestMissingPublicKey() {
	service := NewTokenService(&config.AuthConfig{Issuer: s.issuer})

	_, err := service.ValidateAccessToken("a.b.c")
	s.ErrorIs(err, ErrMissingPublicKey)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader() {
	testCases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase bearer", "bearer abc.def.ghi", "abc.def.ghi", false},
		{"no prefix", "abc.def.ghi", "", true},
		{"empty", "", "", true},
		{"only bearer", "Bearer", "", true},
		{"bearer and space", "Bearer ", "", true},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			token, err := s.service.ExtractTokenFromHeader(tc.header)
			if tc.wantErr {
				s.ErrorIs(err, ErrInvalidAuthHeader)
				s.Empty(token)
				return
			}
			s.NoError(err)
			s.Equal(tc.want, token)
		})
	}
}
