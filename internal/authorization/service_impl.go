package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectInvoice    = "invoice"
	ObjectCustomer   = "customer"
	ObjectReport     = "report"
	ObjectAccountant = "accountant"
)

const (
	ActionInvoiceView         = "invoice.view"
	ActionInvoiceCreate       = "invoice.create"
	ActionInvoiceUpdateStatus = "invoice.update_status"
	ActionInvoiceExport       = "invoice.export"

	ActionCustomerView   = "customer.view"
	ActionCustomerCreate = "customer.create"
	ActionCustomerDelete = "customer.delete"

	ActionReportGenerate = "report.generate"
	ActionReportExport   = "report.export"

	ActionAccountantView   = "accountant.view"
	ActionAccountantCreate = "accountant.create"
	ActionAccountantDelete = "accountant.delete"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, role string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	roleName := fmt.Sprintf("role:%s", strings.ToLower(strings.TrimSpace(role)))
	subject := fmt.Sprintf("user:%s", actor)
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("access denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps exactly one role assignment per subject. Role changes
// in user_roles win over whatever the enforcer previously stored.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Accountant permissions
		{"role:accountant", ObjectInvoice, ActionInvoiceView},
		{"role:accountant", ObjectInvoice, ActionInvoiceCreate},
		{"role:accountant", ObjectInvoice, ActionInvoiceUpdateStatus},
		{"role:accountant", ObjectInvoice, ActionInvoiceExport},
		{"role:accountant", ObjectCustomer, ActionCustomerView},
		{"role:accountant", ObjectCustomer, ActionCustomerCreate},
		{"role:accountant", ObjectReport, ActionReportGenerate},
		{"role:accountant", ObjectReport, ActionReportExport},

		// Admin permissions
		{"role:admin", ObjectInvoice, ActionInvoiceView},
		{"role:admin", ObjectInvoice, ActionInvoiceCreate},
		{"role:admin", ObjectInvoice, ActionInvoiceUpdateStatus},
		{"role:admin", ObjectInvoice, ActionInvoiceExport},
		{"role:admin", ObjectCustomer, ActionCustomerView},
		{"role:admin", ObjectCustomer, ActionCustomerCreate},
		{"role:admin", ObjectCustomer, ActionCustomerDelete},
		{"role:admin", ObjectReport, ActionReportGenerate},
		{"role:admin", ObjectReport, ActionReportExport},
		{"role:admin", ObjectAccountant, ActionAccountantView},
		{"role:admin", ObjectAccountant, ActionAccountantCreate},
		{"role:admin", ObjectAccountant, ActionAccountantDelete},
	}

	for _, policy := range policies {
		if len(policy) < 3 {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
