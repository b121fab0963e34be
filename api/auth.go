package api

import (
	"context"
	"strings"

	"github.com/dmitrymomot/sealedapi/core/transport"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the non-secret part of a login reply. The token itself is kept by
// the session store.
type LoginResult struct {
	UserID     string `json:"userId" yaml:"userId"`
	ExpiryDate string `json:"expiryDate,omitempty" yaml:"expiryDate,omitempty"`
}

// Auth calls the user endpoints.
type Auth struct {
	client     *transport.Client
	loginPath  string
	logoutPath string
}

// NewAuth creates an Auth. Empty paths select the transport defaults; they must match
// the paths the client's Transport watches.
func NewAuth(client *transport.Client, loginPath, logoutPath string) *Auth {
	if loginPath == "" {
		loginPath = transport.DefaultLoginPath
	}
	if logoutPath == "" {
		logoutPath = transport.DefaultLogoutPath
	}
	return &Auth{client: client, loginPath: loginPath, logoutPath: logoutPath}
}

// Login signs in. On success the transport has already stored the session.
func (a *Auth) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	var data struct {
		UserID     Text `json:"userId"`
		ExpiryDate Text `json:"expiryDate"`
	}
	if _, err := a.client.Post(ctx, a.loginPath, Credentials{Email: email, Password: password}, &data); err != nil {
		return nil, err
	}
	return &LoginResult{UserID: string(data.UserID), ExpiryDate: string(data.ExpiryDate)}, nil
}

// Logout signs out. The local session is cleared even when the call fails.
func (a *Auth) Logout(ctx context.Context) error {
	_, err := a.client.Post(ctx, a.logoutPath, nil, nil)
	return err
}
