package service

import (
	"context"

	"github.com/smallbiznis/hisab/internal/actorctx"
	"github.com/smallbiznis/hisab/internal/clock"
	invoicedomain "github.com/smallbiznis/hisab/internal/invoice/domain"
	"github.com/smallbiznis/hisab/internal/report/domain"
	"github.com/smallbiznis/hisab/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Metrics *telemetry.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	metrics *telemetry.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("report.service"),
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

// Generate produces a report summary for the caller's visible invoices.
// The owner scope is applied in the query itself, before aggregation, so
// a non-privileged caller never observes another accountant's rows.
func (s *Service) Generate(ctx context.Context, req domain.GenerateReportRequest) (domain.Summary, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.Summary{}, domain.ErrInvalidActor
	}

	filter := req.Type
	if filter == "" {
		filter = domain.FilterAll
	}
	if !domain.ValidTypeFilter(filter) {
		return domain.Summary{}, domain.ErrInvalidFilter
	}

	window, err := domain.ResolveWindow(req.Range, req.Start, req.End, s.clock.Now())
	if err != nil {
		return domain.Summary{}, err
	}

	started := s.clock.Now()

	query := s.db.WithContext(ctx).Model(&invoicedomain.Invoice{})
	if !actor.IsAdmin() {
		query = query.Where("accountant_id = ?", actor.UserID)
	}

	var invoices []invoicedomain.Invoice
	if !window.Empty() {
		if err := query.Find(&invoices).Error; err != nil {
			return domain.Summary{}, err
		}
	}

	summary := Aggregate(invoices, filter, window)

	if s.metrics != nil {
		s.metrics.ObserveReportDuration(s.clock.Now().Sub(started))
	}
	s.log.Debug("report generated",
		zap.String("range", req.Range),
		zap.Int("invoice_count", summary.InvoiceCount),
	)

	return summary, nil
}
