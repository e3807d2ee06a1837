package accountant

import (
	"github.com/smallbiznis/hisab/internal/accountant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("accountant.service",
	fx.Provide(service.New),
)
