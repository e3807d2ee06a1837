package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/hisab/internal/accountant"
	accountantdomain "github.com/smallbiznis/hisab/internal/accountant/domain"
	"github.com/smallbiznis/hisab/internal/auth"
	authdomain "github.com/smallbiznis/hisab/internal/auth/domain"
	"github.com/smallbiznis/hisab/internal/auth/session"
	"github.com/smallbiznis/hisab/internal/authorization"
	"github.com/smallbiznis/hisab/internal/config"
	"github.com/smallbiznis/hisab/internal/customer"
	customerdomain "github.com/smallbiznis/hisab/internal/customer/domain"
	"github.com/smallbiznis/hisab/internal/invoice"
	invoicedomain "github.com/smallbiznis/hisab/internal/invoice/domain"
	"github.com/smallbiznis/hisab/internal/providers"
	"github.com/smallbiznis/hisab/internal/providers/pdf"
	"github.com/smallbiznis/hisab/internal/report"
	reportdomain "github.com/smallbiznis/hisab/internal/report/domain"
	"github.com/smallbiznis/hisab/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	providers.Module,
	customer.Module,
	invoice.Module,
	report.Module,
	accountant.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(telemetry.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	return NewEngine(log, metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	db            *gorm.DB
	genID         *snowflake.Node
	authsvc       authdomain.Service
	sessions      *session.Manager
	authzSvc      authorization.Service
	invoiceSvc    invoicedomain.Service
	customerSvc   customerdomain.Service
	reportSvc     reportdomain.Service
	accountantSvc accountantdomain.Service
	taxCfg        *config.TaxConfigHolder
	pdfProvider   pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	DB            *gorm.DB
	GenID         *snowflake.Node
	Authsvc       authdomain.Service
	Sessions      *session.Manager
	AuthzSvc      authorization.Service
	InvoiceSvc    invoicedomain.Service
	CustomerSvc   customerdomain.Service
	ReportSvc     reportdomain.Service
	AccountantSvc accountantdomain.Service
	TaxCfg        *config.TaxConfigHolder
	PDFProvider   pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		db:            p.DB,
		genID:         p.GenID,
		authsvc:       p.Authsvc,
		sessions:      p.Sessions,
		authzSvc:      p.AuthzSvc,
		invoiceSvc:    p.InvoiceSvc,
		customerSvc:   p.CustomerSvc,
		reportSvc:     p.ReportSvc,
		accountantSvc: p.AccountantSvc,
		taxCfg:        p.TaxCfg,
		pdfProvider:   p.PDFProvider,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// -------- Invoices --------
	api.GET("/invoices", s.authorizeAction(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.ListInvoices)
	api.POST("/invoices", s.authorizeAction(authorization.ObjectInvoice, authorization.ActionInvoiceCreate), s.CreateInvoice)
	api.GET("/invoices/:id", s.authorizeAction(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.GetInvoiceByID)
	api.PATCH("/invoices/:id/status", s.authorizeAction(authorization.ObjectInvoice, authorization.ActionInvoiceUpdateStatus), s.UpdateInvoiceStatus)
	api.GET("/invoices/:id/pdf", s.authorizeAction(authorization.ObjectInvoice, authorization.ActionInvoiceExport), s.ExportInvoicePDF)

	// -------- Customers --------
	api.GET("/customers", s.authorizeAction(authorization.ObjectCustomer, authorization.ActionCustomerView), s.ListCustomers)
	api.POST("/customers", s.authorizeAction(authorization.ObjectCustomer, authorization.ActionCustomerCreate), s.CreateCustomer)
	api.GET("/customers/:id", s.authorizeAction(authorization.ObjectCustomer, authorization.ActionCustomerView), s.GetCustomerByID)
	api.DELETE("/customers/:id", s.authorizeAction(authorization.ObjectCustomer, authorization.ActionCustomerDelete), s.DeleteCustomer)

	// -------- Reports --------
	api.GET("/reports/summary", s.authorizeAction(authorization.ObjectReport, authorization.ActionReportGenerate), s.GenerateReport)
	api.GET("/reports/summary/pdf", s.authorizeAction(authorization.ObjectReport, authorization.ActionReportExport), s.ExportReportPDF)

	// -------- Accountants --------
	api.GET("/accountants", s.authorizeAction(authorization.ObjectAccountant, authorization.ActionAccountantView), s.ListAccountants)
	api.POST("/accountants", s.authorizeAction(authorization.ObjectAccountant, authorization.ActionAccountantCreate), s.CreateAccountant)
	api.DELETE("/accountants/:id", s.authorizeAction(authorization.ObjectAccountant, authorization.ActionAccountantDelete), s.DeleteAccountant)

	// -------- Settings --------
	api.GET("/settings/tax", s.GetTaxSettings)
}
