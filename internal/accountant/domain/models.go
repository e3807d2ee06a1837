package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidActor   = errors.New("accountant: invalid actor")
	ErrInvalidID      = errors.New("accountant: invalid id")
	ErrNotFound       = errors.New("accountant: not found")
	ErrSelfDelete     = errors.New("accountant: cannot delete own account")
	ErrAdminProtected = errors.New("accountant: cannot delete an admin account")
)

// Accountant is a user row joined with invoice activity counters.
type Accountant struct {
	ID           snowflake.ID    `json:"id"`
	Email        string          `json:"email"`
	FullName     string          `json:"full_name"`
	Role         string          `json:"role"`
	InvoiceCount int64           `json:"invoice_count"`
	InvoiceTotal decimal.Decimal `json:"invoice_total"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateAccountantRequest struct {
	Email    string
	FullName string
	Password string
}

type Service interface {
	List(ctx context.Context) ([]Accountant, error)
	Create(ctx context.Context, req CreateAccountantRequest) (*Accountant, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
