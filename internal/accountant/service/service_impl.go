package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/hisab/internal/accountant/domain"
	"github.com/smallbiznis/hisab/internal/actorctx"
	authdomain "github.com/smallbiznis/hisab/internal/auth/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	AuthSvc authdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	authSvc authdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("accountant.service"),
		authSvc: p.AuthSvc,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Accountant, error) {
	if _, ok := actorctx.FromContext(ctx); !ok {
		return nil, domain.ErrInvalidActor
	}

	var users []authdomain.User
	if err := s.db.WithContext(ctx).Order("created_at asc, id asc").Find(&users).Error; err != nil {
		return nil, err
	}

	type statsRow struct {
		AccountantID snowflake.ID    `gorm:"column:accountant_id"`
		Role         string          `gorm:"column:role"`
		InvoiceCount int64           `gorm:"column:invoice_count"`
		InvoiceTotal decimal.Decimal `gorm:"column:invoice_total"`
	}

	var stats []statsRow
	if err := s.db.WithContext(ctx).Raw(
		`SELECT accountant_id, COUNT(id) AS invoice_count, COALESCE(SUM(total_amount), 0) AS invoice_total
		 FROM invoices
		 GROUP BY accountant_id`,
	).Scan(&stats).Error; err != nil {
		return nil, err
	}
	byOwner := make(map[snowflake.ID]statsRow, len(stats))
	for _, row := range stats {
		byOwner[row.AccountantID] = row
	}

	var roles []authdomain.UserRole
	if err := s.db.WithContext(ctx).Find(&roles).Error; err != nil {
		return nil, err
	}
	roleOf := make(map[snowflake.ID]actorctx.Role, len(roles))
	for _, r := range roles {
		roleOf[r.UserID] = r.Role
	}

	out := make([]domain.Accountant, 0, len(users))
	for _, u := range users {
		st := byOwner[u.ID]
		out = append(out, domain.Accountant{
			ID:           u.ID,
			Email:        u.Email,
			FullName:     u.FullName,
			Role:         string(roleOf[u.ID]),
			InvoiceCount: st.InvoiceCount,
			InvoiceTotal: st.InvoiceTotal,
			CreatedAt:    u.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateAccountantRequest) (*domain.Accountant, error) {
	if _, ok := actorctx.FromContext(ctx); !ok {
		return nil, domain.ErrInvalidActor
	}

	user, err := s.authSvc.CreateUser(ctx, authdomain.CreateUserRequest{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     actorctx.RoleAccountant,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("accountant created",
		zap.String("accountant_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return &domain.Accountant{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		Role:         string(actorctx.RoleAccountant),
		InvoiceTotal: decimal.Zero,
		CreatedAt:    user.CreatedAt,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.ErrInvalidActor
	}
	if id == 0 {
		return domain.ErrInvalidID
	}
	if actor.UserID == id {
		return domain.ErrSelfDelete
	}

	role, err := s.authSvc.RoleOf(ctx, id)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) || errors.Is(err, authdomain.ErrInvalidRole) {
			return domain.ErrNotFound
		}
		return err
	}
	if role == actorctx.RoleAdmin {
		return domain.ErrAdminProtected
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`DELETE FROM users WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Exec(`DELETE FROM user_roles WHERE user_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM sessions WHERE user_id = ?`, id).Error
	})
}
