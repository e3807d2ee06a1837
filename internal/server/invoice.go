package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	authdomain "github.com/smallbiznis/hisab/internal/auth/domain"
	customerdomain "github.com/smallbiznis/hisab/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/hisab/internal/invoice/domain"
	"github.com/smallbiznis/hisab/internal/providers/pdf"
	"gorm.io/gorm"
)

type CreateInvoiceBody struct {
	Type        string                        `json:"type"`
	CustomerID  *string                       `json:"customer_id,omitempty"`
	TaxRate     *decimal.Decimal              `json:"tax_rate,omitempty"`
	InvoiceDate *string                       `json:"invoice_date,omitempty"`
	Notes       string                        `json:"notes,omitempty"`
	LineItems   []invoicedomain.LineItemDraft `json:"line_items"`
}

type UpdateInvoiceStatusBody struct {
	Status string `json:"status"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var body CreateInvoiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	taxRate := s.taxCfg.DefaultRate()
	if body.TaxRate != nil {
		taxRate = *body.TaxRate
	}

	var invoiceDate *time.Time
	if body.InvoiceDate != nil && strings.TrimSpace(*body.InvoiceDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*body.InvoiceDate))
		if err != nil {
			AbortWithError(c, newValidationError("invoice_date", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		invoiceDate = &parsed
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		Type:        invoicedomain.InvoiceType(strings.TrimSpace(body.Type)),
		CustomerID:  body.CustomerID,
		TaxRate:     taxRate,
		InvoiceDate: invoiceDate,
		Notes:       body.Notes,
		LineItems:   body.LineItems,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

func (s *Server) ListInvoices(c *gin.Context) {
	var req invoicedomain.ListInvoiceRequest

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		t := invoicedomain.InvoiceType(raw)
		if !invoicedomain.ValidType(t) {
			AbortWithError(c, invoicedomain.ErrInvalidType)
			return
		}
		req.Type = &t
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := invoicedomain.InvoiceStatus(raw)
		if !invoicedomain.ValidStatus(st) {
			AbortWithError(c, invoicedomain.ErrInvalidStatus)
			return
		}
		req.Status = &st
	}

	var err error
	if req.DateFrom, err = parseDateQuery(c, "date_from"); err != nil {
		AbortWithError(c, newValidationError("date_from", "invalid_date", "expected YYYY-MM-DD"))
		return
	}
	if req.DateTo, err = parseDateQuery(c, "date_to"); err != nil {
		AbortWithError(c, newValidationError("date_to", "invalid_date", "expected YYYY-MM-DD"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	var body UpdateInvoiceStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), c.Param("id"), invoicedomain.InvoiceStatus(strings.TrimSpace(body.Status)))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (s *Server) ExportInvoicePDF(c *gin.Context) {
	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc := pdf.InvoiceDocument{
		AppName:       s.cfg.AppName,
		InvoiceNumber: inv.Number,
		InvoiceDate:   inv.InvoiceDate.Format("2006-01-02"),
		InvoiceType:   string(inv.Type),
		Status:        string(inv.Status),
		Notes:         inv.Notes,
		Subtotal:      inv.Subtotal.StringFixed(2),
		TaxRate:       inv.TaxRate.String(),
		TaxAmount:     inv.TaxAmount.StringFixed(2),
		Total:         inv.TotalAmount.StringFixed(2),
	}

	if inv.CustomerID != nil {
		var cust customerdomain.Customer
		err := s.db.WithContext(c.Request.Context()).First(&cust, "id = ?", *inv.CustomerID).Error
		if err == nil {
			doc.CustomerName = cust.Name
			doc.CustomerAddress = cust.Address
			doc.CustomerEmail = cust.Email
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			AbortWithError(c, err)
			return
		}
	}

	var owner authdomain.User
	if err := s.db.WithContext(c.Request.Context()).First(&owner, "id = ?", inv.AccountantID).Error; err == nil {
		doc.AccountantName = owner.FullName
	}

	for _, item := range inv.LineItems {
		doc.Items = append(doc.Items, pdf.InvoiceDocumentItem{
			Description:   item.Description,
			Quantity:      item.Quantity.String(),
			UnitPrice:     item.UnitPrice.StringFixed(2),
			ExtendedPrice: item.ExtendedPrice.StringFixed(2),
		})
	}

	reader, err := s.pdfProvider.GenerateInvoice(c.Request.Context(), doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+inv.Number+`.pdf"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
