package migration

import (
	authdomain "github.com/smallbiznis/hisab/internal/auth/domain"
	"github.com/smallbiznis/hisab/internal/config"
	customerdomain "github.com/smallbiznis/hisab/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/hisab/internal/invoice/domain"
	"github.com/smallbiznis/hisab/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs take the gorm schema directly;
			// versioned migrations are maintained for postgres only.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.UserRole{},
				&authdomain.Session{},
				&customerdomain.Customer{},
				&invoicedomain.Invoice{},
				&invoicedomain.LineItem{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureAdmin(conn, cfg)
	}),
)
