package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// identify runs one request through IdentifyCaller and reports the status and
// the user id seen by the next handler.
func identify(authHeader string) (int, string, bool) {
	var userID string
	var found bool
	handler := IdentifyCaller(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, found = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products/1", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Code, userID, found
}

func TestIdentifyCaller_AnonymousRequestsPass(t *testing.T) {
	code, _, found := identify("")
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, found)
}

func TestIdentifyCaller_RejectsMalformedHeaders(t *testing.T) {
	for _, header := range []string{"Basic abc", "Bearer", "Bearer ", "token"} {
		code, _, _ := identify(header)
		assert.Equal(t, http.StatusUnauthorized, code, "header %q", header)
	}
}

func TestIdentifyCaller_RejectsWrongSecretAndMissingClaim(t *testing.T) {
	wrongSecret := signToken(t, jwt.MapClaims{"user_id": "u1", "exp": time.Now().Add(time.Hour).Unix()}, "other")
	code, _, _ := identify("Bearer " + wrongSecret)
	assert.Equal(t, http.StatusUnauthorized, code)

	noUser := signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, testSecret)
	code, _, _ = identify("Bearer " + noUser)
	assert.Equal(t, http.StatusUnauthorized, code)
}

// Feature: storefront-search, Property 12: expired tokens are rejected
func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expired tokens are rejected with 401", prop.ForAll(
		func(userID string) bool {
			token := signToken(t, jwt.MapClaims{
				"user_id": userID,
				"exp":     time.Now().Add(-1 * time.Hour).Unix(),
			}, testSecret)

			code, _, found := identify("Bearer " + token)
			return code == http.StatusUnauthorized && !found
		},
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront-search, Property 13: valid tokens identify the caller
func TestProperty_ValidTokensIdentifyCaller(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("the user id reaches the next handler", prop.ForAll(
		func(userID string) bool {
			token := signToken(t, jwt.MapClaims{
				"user_id": userID,
				"exp":     time.Now().Add(time.Hour).Unix(),
			}, testSecret)

			code, got, found := identify("Bearer " + token)
			return code == http.StatusOK && found && got == userID
		},
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
