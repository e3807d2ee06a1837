package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/hisab/internal/actorctx"
)

type CreateUserRequest struct {
	Email    string
	FullName string
	Password string
	Role     actorctx.Role
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	User      *User
	Role      actorctx.Role
	RawToken  string
	SessionID snowflake.ID
	ExpiresAt time.Time
}

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	RoleOf(ctx context.Context, userID snowflake.ID) (actorctx.Role, error)
}
