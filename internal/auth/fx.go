package auth

import (
	"github.com/smallbiznis/hisab/internal/auth/repository"
	"github.com/smallbiznis/hisab/internal/auth/service"
	"github.com/smallbiznis/hisab/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideSessions),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
