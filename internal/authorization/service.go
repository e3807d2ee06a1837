package authorization

import (
	"context"
	"errors"
)

var (
	ErrInvalidActor  = errors.New("authorization: invalid actor")
	ErrInvalidObject = errors.New("authorization: invalid object")
	ErrInvalidAction = errors.New("authorization: invalid action")
	ErrForbidden     = errors.New("authorization: forbidden")
)

type Service interface {
	Authorize(ctx context.Context, actor string, role string, object string, action string) error
}
