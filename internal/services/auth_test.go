package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/platform/apierr"
	"github.com/atmohq/atmo-backend/internal/platform/ctxutil"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

func TestAuthRoundTrip(t *testing.T) {
	auth := NewAuthService(logger.Nop(), "secret", "authenticated")
	id := uuid.New()
	token, err := auth.IssueToken(id, "ada@example.com", "Ada Lovelace", time.Hour)
	require.NoError(t, err)

	ctx, err := auth.SetContextFromToken(context.Background(), token)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	require.Equal(t, id, rd.UserID)
	require.Equal(t, "ada@example.com", rd.Email)
	require.Equal(t, "Ada Lovelace", rd.FullName)
}

func TestAuthRejects(t *testing.T) {
	auth := NewAuthService(logger.Nop(), "secret", "authenticated")
	id := uuid.New()

	expired, err := auth.IssueToken(id, "", "", -time.Minute)
	require.NoError(t, err)
	foreign, err := NewAuthService(logger.Nop(), "other", "authenticated").IssueToken(id, "", "", time.Hour)
	require.NoError(t, err)
	wrongAud, err := NewAuthService(logger.Nop(), "secret", "anon").IssueToken(id, "", "", time.Hour)
	require.NoError(t, err)
	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":       "",
		"garbage":     "not.a.jwt",
		"expired":     expired,
		"signature":   foreign,
		"audience":    wrongAud,
		"bad subject": badSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.SetContextFromToken(context.Background(), token)
			require.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err, 0))
			require.Equal(t, "You must be logged in to use the chat.", err.Error())
		})
	}
}
