package client

import "context"

// AuthAPI wraps the authentication endpoints.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login exchanges credentials for a bearer token. The input is validated
// locally before any request is sent, and the request itself travels
// without any currently held credential.
func (a *AuthAPI) Login(ctx context.Context, input LoginInput) (TokenResponse, error) {
	if err := checkStruct(input); err != nil {
		return TokenResponse{}, err
	}
	var out TokenResponse
	if err := a.c.PostNoAuth(ctx, "/auth/login", input, &out); err != nil {
		return TokenResponse{}, err
	}
	return out, nil
}

// CurrentUser fetches the profile asserted by the active credential.
func (a *AuthAPI) CurrentUser(ctx context.Context) (AuthUser, error) {
	var out AuthUser
	if err := a.c.Get(ctx, "/auth/me", &out); err != nil {
		return AuthUser{}, err
	}
	return out, nil
}
