package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atmohq/atmo-backend/internal/platform/apierr"
	"github.com/atmohq/atmo-backend/internal/platform/ctxutil"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

const unauthorizedMessage = "You must be logged in to use the chat."

// JWTClaims follows the hosted-auth access token layout: the subject is the
// user id and display data sits under user_metadata.
type JWTClaims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) FullName() string {
	for _, k := range []string{"full_name", "name"} {
		if v, ok := c.UserMetadata[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(userID uuid.UUID, email, fullName string, ttl time.Duration) (string, error)
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
	audience     string
}

func NewAuthService(log *logger.Logger, jwtSecretKey, audience string) AuthService {
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: []byte(jwtSecretKey),
		audience:     strings.TrimSpace(audience),
	}
}

func (as *authService) IssueToken(userID uuid.UUID, email, fullName string, ttl time.Duration) (string, error) {
	if len(as.jwtSecretKey) == 0 {
		return "", fmt.Errorf("jwt secret not configured")
	}
	now := time.Now()
	claims := JWTClaims{
		Email:        email,
		Role:         "authenticated",
		UserMetadata: map[string]any{"full_name": fullName},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if as.audience != "" {
		claims.Audience = jwt.ClaimStrings{as.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
}

// SetContextFromToken verifies an HS256 bearer token and attaches the caller to ctx.
// Every failure maps to the same 401 so callers learn nothing about why a token failed.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" || len(as.jwtSecretKey) == 0 {
		return ctx, apierr.Unauthorized(unauthorizedMessage)
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if as.audience != "" {
		opts = append(opts, jwt.WithAudience(as.audience))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(*jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, opts...)
	if err != nil {
		as.log.Debug("token rejected", "error", err)
		return ctx, &apierr.Error{Status: 401, Code: "unauthorized", Message: unauthorizedMessage, Err: err}
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized(unauthorizedMessage)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, apierr.Unauthorized(unauthorizedMessage)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Email:       claims.Email,
		FullName:    claims.FullName(),
	}), nil
}
