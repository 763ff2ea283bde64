/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication. These decouple the persisted
  wire format (legacy Portuguese keys) from the API contract (English
  keys), so the stored documents can stay backup-compatible while the
  API reads naturally.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - retail/types.go: Persisted wire format
*/
package api

import (
	"time"

	"github.com/gaspoint/retail-engine/reports"
	"github.com/gaspoint/retail-engine/retail"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CUSTOMERS
// =============================================================================

type CustomerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

func toCustomerDTO(c retail.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:        string(c.ID),
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Email:     c.Email,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.UpdatedAt != nil {
		dto.UpdatedAt = c.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// PRODUCTS
// =============================================================================

type AdjustmentDTO struct {
	At          string `json:"at"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	StockBefore int    `json:"stock_before"`
	StockAfter  int    `json:"stock_after"`
}

type ProductDTO struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	Price        retail.Money    `json:"price"`
	Stock        int             `json:"stock"`
	Barcode      string          `json:"barcode,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at,omitempty"`
	StockHistory []AdjustmentDTO `json:"stock_history,omitempty"`
}

type ProductRequest struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Barcode     string  `json:"barcode"`
}

// AdjustmentRequest accepts both API and legacy type values
// ("addition"/"adicao", "subtraction"/"subtracao").
type AdjustmentRequest struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

func toProductDTO(p retail.Product) ProductDTO {
	dto := ProductDTO{
		ID:          string(p.ID),
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Barcode:     p.Barcode,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
	if p.UpdatedAt != nil {
		dto.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	for _, adj := range p.StockHistory {
		dto.StockHistory = append(dto.StockHistory, AdjustmentDTO{
			At:          adj.At.Format(time.RFC3339),
			Type:        string(adj.Type),
			Quantity:    adj.Quantity,
			Reason:      adj.Reason,
			StockBefore: adj.StockBefore,
			StockAfter:  adj.StockAfter,
		})
	}
	return dto
}

// =============================================================================
// SALES
// =============================================================================

type SaleDTO struct {
	ID                 string       `json:"id"`
	CustomerID         string       `json:"customer_id"`
	ProductID          string       `json:"product_id"`
	Quantity           int          `json:"quantity"`
	Total              retail.Money `json:"total"`
	PaymentMethod      string       `json:"payment_method"`
	PaymentLabel       string       `json:"payment_label"`
	Date               string       `json:"date"`
	CustomerName       string       `json:"customer_name"`
	ProductDescription string       `json:"product_description"`
	Status             string       `json:"status"`
}

type SaleRequest struct {
	CustomerID    string `json:"customer_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"payment_method"`
}

func toSaleDTO(s retail.Sale) SaleDTO {
	return SaleDTO{
		ID:                 string(s.ID),
		CustomerID:         string(s.CustomerID),
		ProductID:          string(s.ProductID),
		Quantity:           s.Quantity,
		Total:              s.Total,
		PaymentMethod:      string(s.Payment),
		PaymentLabel:       s.Payment.Label(),
		Date:               s.At.Format(time.RFC3339),
		CustomerName:       s.CustomerName,
		ProductDescription: s.ProductDescription,
		Status:             string(s.Status),
	}
}

// =============================================================================
// REPORTS
// =============================================================================

// ReportDTO wraps a typed report payload with its rendered text artifact
// and the suggested download name for that artifact.
type ReportDTO struct {
	Data     any    `json:"data"`
	Text     string `json:"text"`
	FileName string `json:"file_name"`
}

func toReportDTO(data any, text string) ReportDTO {
	return ReportDTO{Data: data, Text: text, FileName: reports.FileName(time.Now())}
}

type MonthBucketDTO struct {
	Month string       `json:"month"`
	Total retail.Money `json:"total"`
}

type StockSliceDTO struct {
	Description string `json:"description"`
	Stock       int    `json:"stock"`
}

type DashboardDTO struct {
	CustomerCount int                `json:"customer_count"`
	ProductCount  int                `json:"product_count"`
	SalesTotal    retail.Money       `json:"sales_total"`
	LowStock      []ProductDTO       `json:"low_stock"`
	Company       retail.CompanyInfo `json:"company"`
}

func toDashboardDTO(s reports.DashboardSummary, company retail.CompanyInfo) DashboardDTO {
	dto := DashboardDTO{
		CustomerCount: s.CustomerCount,
		ProductCount:  s.ProductCount,
		SalesTotal:    s.SalesTotal,
		LowStock:      []ProductDTO{},
		Company:       company,
	}
	for _, p := range s.LowStock {
		dto.LowStock = append(dto.LowStock, toProductDTO(p))
	}
	return dto
}
