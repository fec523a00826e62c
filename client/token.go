package client

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const clientIdVariable = "VERDA_CLIENT_ID"
const clientSecretVariable = "VERDA_CLIENT_SECRET"

// createTokenSource builds a cached client-credentials token source. The
// cache serves concurrent readers while at most one refresh is in flight.
func createTokenSource(ctx context.Context, tokenUrl string) (oauth2.TokenSource, error) {
	clientId := os.Getenv(clientIdVariable)
	clientSecret := os.Getenv(clientSecretVariable)

	if clientId == "" || clientSecret == "" {
		return nil, &AuthError{
			Err: errors.New("VERDA_CLIENT_ID and VERDA_CLIENT_SECRET must be set"),
		}
	}

	credentials := clientcredentials.Config{
		ClientID:     clientId,
		ClientSecret: clientSecret,
		TokenURL:     tokenUrl,
	}

	return oauth2.ReuseTokenSource(nil, &verdaTokenSource{
		source: credentials.TokenSource(ctx),
	}), nil
}

type verdaTokenSource struct {
	source oauth2.TokenSource
}

func (s *verdaTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, &AuthError{Err: err}
	}

	// The token endpoint does not always send expires_in. Fall back to the
	// token's own exp claim so the cache can still refresh in time.
	if token.Expiry.IsZero() {
		if expiry, ok := tokenExpiry(token.AccessToken); ok {
			withExpiry := *token
			withExpiry.Expiry = expiry

			return &withExpiry, nil
		}
	}

	return token, nil
}

func tokenExpiry(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}

	return expiry.Time, true
}
