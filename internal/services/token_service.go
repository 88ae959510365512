package services

import (
	"errors"
	"fmt"
	"strings"

	"finance-admin/internal/config"
	"finance-admin/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeAccess = "access"

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token is expired")
	ErrInvalidIssuer     = errors.New("invalid issuer")
	ErrInvalidTokenType  = errors.New("invalid token type")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")
	ErrMissingPublicKey  = errors.New("public key is not configured")
)

// TokenService checks RS256 access tokens against the identity service's
// public key. It never signs tokens.
type TokenService struct {
	cfg    config.AuthConfig
	parser *jwt.Parser
}

func NewTokenService(authConfig *config.AuthConfig) TokenServiceInterface {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(authConfig.Leeway),
	}
	if authConfig.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(authConfig.Issuer))
	}

	return &TokenService{
		cfg:    *authConfig,
		parser: jwt.NewParser(opts...),
	}
}

// ValidateAccessToken returns the claims of a verified access token
func (ts *TokenService) ValidateAccessToken(tokenString string) (*models.AdminClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}
	if ts.cfg.PublicKey == nil {
		return nil, ErrMissingPublicKey
	}

	claims := &models.AdminClaims{}
	token, err := ts.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return ts.cfg.PublicKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return nil, ErrInvalidIssuer
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case !token.Valid:
		return nil, ErrInvalidToken
	}

	// The identity service also issues refresh tokens with the same key.
	if claims.TokenType != "" && claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidTokenType
	}

	return claims, nil
}

// ExtractTokenFromHeader returns the credentials of a "Bearer <token>" header
func (ts *TokenService) ExtractTokenFromHeader(authHeader string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", ErrInvalidAuthHeader
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}
