package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedTestToken(t *testing.T, expiry time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "verda-client",
		"exp": expiry.Unix(),
	})

	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

func TestTokenExpiry_ParsesExpClaim(t *testing.T) {
	wantExpiry := time.Now().Add(time.Hour).Truncate(time.Second)

	expiry, ok := tokenExpiry(signedTestToken(t, wantExpiry))

	assert.True(t, ok)
	assert.Equal(t, wantExpiry.Unix(), expiry.Unix())
}

func TestTokenExpiry_RejectsOpaqueTokens(t *testing.T) {
	_, ok := tokenExpiry("not-a-jwt")

	assert.False(t, ok)
}

func TestCreateTokenSource_MissingCredentials(t *testing.T) {
	t.Setenv(clientIdVariable, "")
	t.Setenv(clientSecretVariable, "")

	_, err := createTokenSource(context.Background(), "http://localhost/oauth2/token")

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestTokenSource_ConcurrentReadsShareOneRefresh(t *testing.T) {
	var tokenRequests atomic.Int32

	accessToken := signedTestToken(t, time.Now().Add(time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": accessToken,
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	t.Setenv(clientIdVariable, "test-client")
	t.Setenv(clientSecretVariable, "test-secret")

	tokenSource, err := createTokenSource(context.Background(), server.URL+"/oauth2/token")
	require.NoError(t, err)

	var waitGroup sync.WaitGroup
	for i := 0; i < 8; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()

			token, err := tokenSource.Token()
			assert.NoError(t, err)
			assert.Equal(t, accessToken, token.AccessToken)
		}()
	}
	waitGroup.Wait()

	assert.Equal(t, int32(1), tokenRequests.Load())
}

func TestTokenSource_FillsExpiryFromExpClaim(t *testing.T) {
	wantExpiry := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	accessToken := signedTestToken(t, wantExpiry)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		// No expires_in in the response, only the token's own exp claim.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": accessToken,
			"token_type":   "bearer",
		})
	}))
	defer server.Close()

	t.Setenv(clientIdVariable, "test-client")
	t.Setenv(clientSecretVariable, "test-secret")

	tokenSource, err := createTokenSource(context.Background(), server.URL+"/oauth2/token")
	require.NoError(t, err)

	token, err := tokenSource.Token()
	require.NoError(t, err)

	assert.Equal(t, wantExpiry.Unix(), token.Expiry.Unix())
}

func TestTokenSource_RefreshFailureIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer server.Close()

	t.Setenv(clientIdVariable, "test-client")
	t.Setenv(clientSecretVariable, "wrong-secret")

	tokenSource, err := createTokenSource(context.Background(), server.URL+"/oauth2/token")
	require.NoError(t, err)

	_, err = tokenSource.Token()

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}
