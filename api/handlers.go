/*
handlers.go - HTTP API handlers for the retail engine

PURPOSE:
  Exposes the retail core via REST. Handles HTTP request/response and
  JSON serialization, then delegates to the repositories, the ledger and
  the aggregation engine.

ERROR HANDLING:
  Domain errors map to HTTP status by kind:
  - 400: ValidationError, malformed input
  - 404: NotFoundError
  - 409: DuplicateError, InsufficientStockError, InvalidAdjustmentError
  - 503: StorageError
  - 500: anything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gaspoint/retail-engine/reports"
	"github.com/gaspoint/retail-engine/retail"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Customers *retail.CustomerRepository
	Products  *retail.ProductRepository
	Ledger    *retail.Ledger
	Settings  *retail.SettingsRepository
	Backups   *retail.BackupService
	Reports   *reports.Engine
	Log       zerolog.Logger
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns all customers; ?q= filters by name or phone.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	var customers []retail.Customer
	if q := r.URL.Query().Get("q"); q != "" {
		customers = h.Customers.Search(q)
	} else {
		customers = h.Customers.List()
	}

	dtos := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		dtos = append(dtos, toCustomerDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.Customers.Get(retail.CustomerID(chi.URLParam(r, "id")))
	if err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(*c))
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := h.Customers.Add(r.Context(), retail.CustomerInput{
		Name: req.Name, Phone: req.Phone, Address: req.Address, Email: req.Email,
	})
	if err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerDTO(*c))
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := h.Customers.Update(r.Context(), retail.CustomerID(chi.URLParam(r, "id")), retail.CustomerInput{
		Name: req.Name, Phone: req.Phone, Address: req.Address, Email: req.Email,
	})
	if err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerDTO(*c))
}

// DeleteCustomer removes a customer. Deletion is not blocked by ledger
// history; the snapshot name keeps past sales readable.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := retail.CustomerID(chi.URLParam(r, "id"))
	if h.Ledger.HasSalesForCustomer(id) {
		h.Log.Info().Str("customer", string(id)).Msg("deleting customer with recorded sales")
	}
	if err := h.Customers.Delete(r.Context(), id); err != nil {
		h.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

func (h *Handler) ListProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.Products.List()
	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.Get(retail.ProductID(chi.URLParam(r, "id")))
	if err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*p))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Products.Add(r.Context(), retail.ProductInput{
		Description: req.Description,
		Price:       retail.NewMoney(req.Price),
		Stock:       req.Stock,
		Barcode:     req.Barcode,
	})
	if err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(*p))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Products.Update(r.Context(), retail.ProductID(chi.URLParam(r, "id")), retail.ProductUpdate{
		Description: req.Description,
		Price:       retail.NewMoney(req.Price),
		Barcode:     req.Barcode,
	})
	if err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*p))
}

// DeleteProduct goes through the ledger, which rejects deleting a product
// with recorded sales.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.DeleteProduct(r.Context(), retail.ProductID(chi.URLParam(r, "id"))); err != nil {
		h.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var typ retail.AdjustmentType
	switch req.Type {
	case "addition", string(retail.AdjustmentAddition):
		typ = retail.AdjustmentAddition
	case "subtraction", string(retail.AdjustmentSubtraction):
		typ = retail.AdjustmentSubtraction
	default:
		writeError(w, http.StatusBadRequest, "Unknown adjustment type", nil)
		return
	}

	p, err := h.Products.AdjustStock(r.Context(), retail.ProductID(chi.URLParam(r, "id")), typ, req.Quantity, req.Reason)
	if err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(*p))
}

// =============================================================================
// SALE HANDLERS
// =============================================================================

func (h *Handler) ListSales(w http.ResponseWriter, _ *http.Request) {
	sales := h.Ledger.Sales()
	dtos := make([]SaleDTO, 0, len(sales))
	for _, s := range sales {
		dtos = append(dtos, toSaleDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sale, err := h.Ledger.RecordSale(r.Context(), retail.SaleInput{
		CustomerID: retail.CustomerID(req.CustomerID),
		ProductID:  retail.ProductID(req.ProductID),
		Quantity:   req.Quantity,
		Payment:    retail.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleDTO(*sale))
}

// CancelSale is destructive: the sale is removed from the ledger and stock
// is restored. The UI confirms with the user before calling this.
func (h *Handler) CancelSale(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.CancelSale(r.Context(), retail.SaleID(chi.URLParam(r, "id"))); err != nil {
		h.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// DailyReport returns the sales report for ?date=YYYY-MM-DD (default today).
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		day = parsed
	}

	report := h.Reports.DailySales(day)
	writeJSON(w, http.StatusOK, toReportDTO(report, reports.RenderDaily(report)))
}

func (h *Handler) StockReport(w http.ResponseWriter, _ *http.Request) {
	report := h.Reports.Stock()
	writeJSON(w, http.StatusOK, toReportDTO(report, reports.RenderStock(report)))
}

func (h *Handler) CustomerReport(w http.ResponseWriter, _ *http.Request) {
	report := h.Reports.Customers()
	writeJSON(w, http.StatusOK, toReportDTO(report, reports.RenderCustomers(report)))
}

func (h *Handler) DetailedSalesReport(w http.ResponseWriter, r *http.Request) {
	period, refine, err := parseReportQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report query", err)
		return
	}

	report := h.Reports.DetailedSales(period, refine)
	writeJSON(w, http.StatusOK, toReportDTO(report, reports.RenderDetailedSales(report)))
}

func (h *Handler) DetailedCustomerReport(w http.ResponseWriter, r *http.Request) {
	period, refine, err := parseReportQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report query", err)
		return
	}

	report := h.Reports.DetailedCustomers(period, refine)
	writeJSON(w, http.StatusOK, toReportDTO(report, reports.RenderDetailedCustomers(report)))
}

func (h *Handler) MonthlySeries(w http.ResponseWriter, _ *http.Request) {
	series := h.Reports.MonthlySeries()
	dtos := make([]MonthBucketDTO, 0, len(series))
	for _, b := range series {
		dtos = append(dtos, MonthBucketDTO{Month: b.Month, Total: b.Total})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) StockDistribution(w http.ResponseWriter, _ *http.Request) {
	slices := h.Reports.StockDistribution()
	dtos := make([]StockSliceDTO, 0, len(slices))
	for _, s := range slices {
		dtos = append(dtos, StockSliceDTO{Description: s.Description, Stock: s.Stock})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toDashboardDTO(h.Reports.Dashboard(), h.Settings.Company()))
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetCompany(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Settings.Company())
}

func (h *Handler) SaveCompany(w http.ResponseWriter, r *http.Request) {
	var info retail.CompanyInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Settings.SaveCompany(r.Context(), info); err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) GetReceiptConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Settings.ReceiptConfig())
}

func (h *Handler) SaveReceiptConfig(w http.ResponseWriter, r *http.Request) {
	var cfg retail.ReceiptConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Settings.SaveReceiptConfig(r.Context(), cfg); err != nil {
		h.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// =============================================================================
// BACKUP HANDLERS
// =============================================================================

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.Backups.Export(r.Context())
	if err != nil {
		h.domainError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename="+backup.FileName(time.Now()))
	writeJSON(w, http.StatusOK, backup)
}

func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	var backup retail.Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid backup document", err)
		return
	}
	if err := h.Backups.Import(r.Context(), backup); err != nil {
		h.domainError(w, err)
		return
	}
	h.Log.Info().Msg("backup imported, collections reloaded")
	writeJSON(w, http.StatusOK, map[string]any{"imported": true})
}

// Reset wipes every collection. Destructive; the UI confirms first.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Backups.Reset(r.Context()); err != nil {
		h.domainError(w, err)
		return
	}
	h.Log.Info().Msg("all data cleared")
	writeJSON(w, http.StatusOK, map[string]any{"reset": true})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseReportQuery(r *http.Request) (*reports.Period, reports.Refinement, error) {
	q := r.URL.Query()

	var period *reports.Period
	start, end := q.Get("start"), q.Get("end")
	if (start == "") != (end == "") {
		return nil, reports.RefineNone, errors.New("start and end must be provided together")
	}
	if start != "" && end != "" {
		from, err := time.ParseInLocation("2006-01-02", start, time.Local)
		if err != nil {
			return nil, reports.RefineNone, err
		}
		to, err := time.ParseInLocation("2006-01-02", end, time.Local)
		if err != nil {
			return nil, reports.RefineNone, err
		}
		period = &reports.Period{Start: from, End: to}
	}

	return period, reports.Refinement(q.Get("refine")), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, retail.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, retail.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, retail.ErrDuplicate),
		errors.Is(err, retail.ErrInsufficientStock),
		errors.Is(err, retail.ErrInvalidAdjustment):
		return http.StatusConflict
	case errors.Is(err, retail.ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// domainError writes the error envelope. Client mistakes pass through
// quietly; anything else (storage faults, surprises) gets logged.
func (h *Handler) domainError(w http.ResponseWriter, err error) {
	if !retail.IsClientError(err) && !retail.IsNotFound(err) {
		h.Log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
