package client

import (
	"context"

	"github.com/google/uuid"
)

// UsersAPI wraps the /users collection. The backend restricts it to
// admins; the client only checks the role for display purposes.
type UsersAPI struct {
	c *Client
}

func NewUsersAPI(c *Client) *UsersAPI {
	return &UsersAPI{c: c}
}

func (a *UsersAPI) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := a.c.Get(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *UsersAPI) Create(ctx context.Context, input CreateUserInput) (User, error) {
	if err := checkStruct(input); err != nil {
		return User{}, err
	}
	var out User
	if err := a.c.Post(ctx, "/users", input, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// Update sends a partial payload; omitted fields stay untouched server-side.
func (a *UsersAPI) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (User, error) {
	if err := checkStruct(input); err != nil {
		return User{}, err
	}
	var out User
	if err := a.c.Patch(ctx, "/users/"+id.String(), input, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

func (a *UsersAPI) Delete(ctx context.Context, id uuid.UUID) error {
	return a.c.Delete(ctx, "/users/"+id.String())
}
