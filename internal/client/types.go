package client

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles the backend asserts.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Roles lists every valid role, in display order.
var Roles = []Role{RoleAdmin, RoleUser}

// AuthUser is the signed-in identity returned by /auth/me.
type AuthUser struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Role      Role      `json:"role" validate:"required,oneof=admin user"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
}

// TokenResponse is the login result. The token is opaque to the client.
type TokenResponse struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type" validate:"omitempty,oneof=bearer"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Item is a server-owned record; id, owner and timestamp are never
// generated locally.
type Item struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	OwnerID   uuid.UUID `json:"owner_id" validate:"required"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
}

type CreateItemInput struct {
	Name string `json:"name" validate:"required,min=1"`
}

// UpdateItemInput is a partial payload: nil fields are neither validated
// nor sent.
type UpdateItemInput struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=1"`
}

// User is the managed-resource view of an account, shape-identical to
// AuthUser but mutable (role) through the users resource.
type User struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Role      Role      `json:"role" validate:"required,oneof=admin user"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=admin user"`
}

// UpdateUserInput is a partial payload; see UpdateItemInput.
type UpdateUserInput struct {
	Email    *string `json:"email,omitempty" validate:"omitnil,email"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6"`
	Role     *Role   `json:"role,omitempty" validate:"omitnil,oneof=admin user"`
}
