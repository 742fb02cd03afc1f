package api

import (
	"context"
	"fmt"
	"strings"
)

// MinPasswordLength is the client-side password policy, matching the
// server's registration rules.
const MinPasswordLength = 6

// Credentials is the authentication payload returned by the login and
// register endpoints.
type Credentials struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// IsAdmin reports whether the credential carries the admin role.
func (c Credentials) IsAdmin() bool {
	return strings.EqualFold(c.Role, "admin")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Login exchanges a username and password for a bearer credential.
func (c *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	var creds Credentials
	req := loginRequest{Username: username, Password: password}
	if err := c.post(ctx, "/auth/login", req, &creds); err != nil {
		return Credentials{}, err
	}
	if creds.Token == "" {
		return Credentials{}, fmt.Errorf("login response contained no token")
	}
	return creds, nil
}

// Register creates a new account and returns its bearer credential.
// Password policy violations are rejected locally before any I/O.
func (c *Client) Register(ctx context.Context, username, email, password string) (Credentials, error) {
	if len(password) < MinPasswordLength {
		return Credentials{}, fmt.Errorf(
			"password must be at least %d characters", MinPasswordLength,
		)
	}

	var creds Credentials
	req := registerRequest{Username: username, Password: password, Email: email}
	if err := c.post(ctx, "/auth/register", req, &creds); err != nil {
		return Credentials{}, err
	}
	if creds.Token == "" {
		return Credentials{}, fmt.Errorf("register response contained no token")
	}
	return creds, nil
}
