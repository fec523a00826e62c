package client

import "fmt"

type (
	// AuthError covers missing credentials and failed token acquisition.
	AuthError struct {
		Err error
	}

	// HTTPError is any non-2xx response from the provider.
	HTTPError struct {
		Status int
		Body   string
	}

	// TransportError is a network-level failure before a response arrived.
	TransportError struct {
		Err error
	}
)

func (e *AuthError) Error() string {
	return fmt.Sprintf("verda: authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("verda: provider returned status %d: %s", e.Status, e.Body)
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("verda: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
