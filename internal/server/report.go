package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/hisab/internal/providers/pdf"
	reportdomain "github.com/smallbiznis/hisab/internal/report/domain"
)

func (s *Server) reportRequestFromQuery(c *gin.Context) (reportdomain.GenerateReportRequest, bool) {
	var req reportdomain.GenerateReportRequest
	req.Range = strings.TrimSpace(c.Query("range"))
	req.Type = reportdomain.TypeFilter(strings.TrimSpace(c.Query("type")))

	var err error
	if req.Start, err = parseDateQuery(c, "start"); err != nil {
		AbortWithError(c, newValidationError("start", "invalid_date", "expected YYYY-MM-DD"))
		return req, false
	}
	if req.End, err = parseDateQuery(c, "end"); err != nil {
		AbortWithError(c, newValidationError("end", "invalid_date", "expected YYYY-MM-DD"))
		return req, false
	}
	return req, true
}

func (s *Server) GenerateReport(c *gin.Context) {
	req, ok := s.reportRequestFromQuery(c)
	if !ok {
		return
	}

	summary, err := s.reportSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) ExportReportPDF(c *gin.Context) {
	req, ok := s.reportRequestFromQuery(c)
	if !ok {
		return
	}

	summary, err := s.reportSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	title := "Summary report"
	if req.Range != "" {
		title = "Summary report (" + req.Range + ")"
	}

	doc := pdf.ReportDocument{
		AppName:        s.cfg.AppName,
		Title:          title,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		TotalSales:     summary.TotalSales.StringFixed(2),
		TotalPurchases: summary.TotalPurchases.StringFixed(2),
		NetProfit:      summary.NetProfit.StringFixed(2),
	}
	if req.Start != nil {
		doc.PeriodStart = req.Start.Format("2006-01-02")
	}
	if req.End != nil {
		doc.PeriodEnd = req.End.Format("2006-01-02")
	}

	for _, row := range summary.ByAccountant {
		label := row.AccountantID
		if name := s.accountantName(c, row.AccountantID); name != "" {
			label = name
		}
		doc.ByAccountant = append(doc.ByAccountant, pdf.ReportDocumentRow{
			Label:     label,
			Sales:     row.Sales.StringFixed(2),
			Purchases: row.Purchases.StringFixed(2),
		})
	}
	for _, row := range summary.ByMonth {
		doc.ByMonth = append(doc.ByMonth, pdf.ReportDocumentRow{
			Label:     row.Month,
			Sales:     row.Sales.StringFixed(2),
			Purchases: row.Purchases.StringFixed(2),
		})
	}

	reader, err := s.pdfProvider.GenerateReport(c.Request.Context(), doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="report.pdf"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (s *Server) accountantName(c *gin.Context, accountantID string) string {
	var row struct {
		FullName string `gorm:"column:full_name"`
	}
	err := s.db.WithContext(c.Request.Context()).Raw(
		`SELECT full_name FROM users WHERE id = ?`, accountantID,
	).Scan(&row).Error
	if err != nil {
		return ""
	}
	return strings.TrimSpace(row.FullName)
}
