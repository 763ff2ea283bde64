/*
Package reports derives read-only reports from the retail collections.

PURPOSE:
  The aggregation engine reconstructs every report (daily totals, stock
  levels, rankings, time-bucketed series) by scanning the customer,
  product and sale collections. It never mutates them: each report runs
  over an immutable snapshot taken when the report is generated.

KEY CONCEPTS:
  - Snapshot: copies of the three collections taken per report call
  - Period: optional inclusive [start, end] day range filter
  - Refinement: optional drill-down (top buyers, top products,
    inactive customers)
  - Thresholds: stock at or below warning/critical limits gets flagged

RANKING SEMANTICS:
  Top-5 rankings sort descending with a stable sort over first-seen
  grouping order, so ties keep a deterministic relative order and a
  strictly smaller total can never outrank a larger one.

SEE ALSO:
  - render.go: Plain-text rendering of each report
*/
package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/gaspoint/retail-engine/retail"
)

// Default low-stock thresholds. At or below warning flags the product; at
// or below critical escalates it.
const (
	DefaultWarningThreshold  = 10
	DefaultCriticalThreshold = 5
)

// Collection owners the engine reads through. Satisfied by
// retail.CustomerRepository, retail.ProductRepository and retail.Ledger.
type (
	CustomerSource interface{ List() []retail.Customer }
	ProductSource  interface{ List() []retail.Product }
	SaleSource     interface{ Sales() []retail.Sale }
)

// Engine builds reports. It holds no state beyond its sources and
// thresholds and is safe to share.
type Engine struct {
	customers CustomerSource
	products  ProductSource
	sales     SaleSource
	warnAt    int
	critAt    int
}

func NewEngine(customers CustomerSource, products ProductSource, sales SaleSource) *Engine {
	return &Engine{
		customers: customers,
		products:  products,
		sales:     sales,
		warnAt:    DefaultWarningThreshold,
		critAt:    DefaultCriticalThreshold,
	}
}

// WithThresholds overrides the low-stock thresholds.
func (e *Engine) WithThresholds(warning, critical int) *Engine {
	e.warnAt = warning
	e.critAt = critical
	return e
}

// =============================================================================
// PERIOD AND REFINEMENT
// =============================================================================

// Period is an inclusive [Start, End] filter compared at day granularity
// in local time.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(t time.Time) bool {
	k := dayKey(t)
	return k >= dayKey(p.Start) && k <= dayKey(p.End)
}

type Refinement string

const (
	RefineNone              Refinement = ""
	RefineTopBuyers         Refinement = "top_buyers"
	RefineTopProducts       Refinement = "top_products"
	RefineInactiveCustomers Refinement = "inactive_customers"
)

// =============================================================================
// REPORT TYPES
// =============================================================================

type SaleLine struct {
	CustomerName       string
	ProductDescription string
	Quantity           int
	Total              retail.Money
}

type DailySalesReport struct {
	Date  time.Time
	Count int
	Total retail.Money
	Lines []SaleLine
}

type StockLevel string

const (
	StockOK       StockLevel = "ok"
	StockWarning  StockLevel = "warning"
	StockCritical StockLevel = "critical"
)

type StockItem struct {
	Product retail.Product
	Level   StockLevel
}

type StockReport struct {
	TotalProducts int
	Items         []StockItem
	Critical      []StockItem
}

type CustomerReport struct {
	Total     int
	Customers []retail.Customer
}

type BuyerTotal struct {
	CustomerName string
	Total        retail.Money
}

// ProductVolume is units sold per product description, resolved against the
// current stock for display. StockKnown is false when no live product
// carries the description anymore.
type ProductVolume struct {
	Description  string
	Quantity     int
	CurrentStock int
	StockKnown   bool
}

type DetailedSalesReport struct {
	Period      *Period
	Count       int
	Total       retail.Money
	TopBuyers   []BuyerTotal
	TopProducts []ProductVolume
}

type DetailedCustomerReport struct {
	Period   *Period
	Total    int
	Inactive []retail.Customer
}

type MonthBucket struct {
	Month string // "2006-01"
	Total retail.Money
}

type StockSlice struct {
	Description string
	Stock       int
}

type DashboardSummary struct {
	CustomerCount int
	ProductCount  int
	SalesTotal    retail.Money
	LowStock      []retail.Product
}

// =============================================================================
// REPORTS
// =============================================================================

// DailySales sums the sales whose local calendar day equals day.
func (e *Engine) DailySales(day time.Time) DailySalesReport {
	report := DailySalesReport{Date: day}
	target := dayKey(day)
	for _, s := range e.sales.Sales() {
		if dayKey(s.At) != target {
			continue
		}
		report.Count++
		report.Total = report.Total.Add(s.Total)
		report.Lines = append(report.Lines, SaleLine{
			CustomerName:       s.CustomerName,
			ProductDescription: s.ProductDescription,
			Quantity:           s.Quantity,
			Total:              s.Total,
		})
	}
	return report
}

// Stock lists every product with its low-stock level.
func (e *Engine) Stock() StockReport {
	products := e.products.List()
	report := StockReport{TotalProducts: len(products)}
	for _, p := range products {
		item := StockItem{Product: p, Level: e.level(p.Stock)}
		report.Items = append(report.Items, item)
		if item.Level == StockCritical {
			report.Critical = append(report.Critical, item)
		}
	}
	return report
}

// Customers lists every customer with contact info.
func (e *Engine) Customers() CustomerReport {
	customers := e.customers.List()
	return CustomerReport{Total: len(customers), Customers: customers}
}

// DetailedSales filters by the optional period and applies the optional
// refinement. Top buyers group by the denormalized customer name; top
// products group by the denormalized product description.
func (e *Engine) DetailedSales(period *Period, refine Refinement) DetailedSalesReport {
	report := DetailedSalesReport{Period: period}

	var filtered []retail.Sale
	for _, s := range e.sales.Sales() {
		if period != nil && !period.Contains(s.At) {
			continue
		}
		filtered = append(filtered, s)
		report.Count++
		report.Total = report.Total.Add(s.Total)
	}

	switch refine {
	case RefineTopBuyers:
		report.TopBuyers = topBuyers(filtered, 5)
	case RefineTopProducts:
		report.TopProducts = e.topProducts(filtered, 5)
	}
	return report
}

// DetailedCustomers applies the inactive-customers refinement: a customer
// is inactive with zero sales overall, or, when a period is given, zero
// sales inside that period.
func (e *Engine) DetailedCustomers(period *Period, refine Refinement) DetailedCustomerReport {
	customers := e.customers.List()
	report := DetailedCustomerReport{Period: period, Total: len(customers)}
	if refine != RefineInactiveCustomers {
		return report
	}

	sales := e.sales.Sales()
	for _, c := range customers {
		if isInactive(c, sales, period) {
			report.Inactive = append(report.Inactive, c)
		}
	}
	return report
}

// MonthlySeries buckets sale totals by year-month, ascending.
func (e *Engine) MonthlySeries() []MonthBucket {
	totals := make(map[string]retail.Money)
	for _, s := range e.sales.Sales() {
		month := s.At.Format("2006-01")
		totals[month] = totals[month].Add(s.Total)
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	series := make([]MonthBucket, 0, len(months))
	for _, month := range months {
		series = append(series, MonthBucket{Month: month, Total: totals[month]})
	}
	return series
}

// StockDistribution maps each product to its current stock, for charting.
func (e *Engine) StockDistribution() []StockSlice {
	products := e.products.List()
	slices := make([]StockSlice, 0, len(products))
	for _, p := range products {
		slices = append(slices, StockSlice{Description: p.Description, Stock: p.Stock})
	}
	return slices
}

// Dashboard summarizes counts, lifetime sales total and the products under
// the warning threshold, lowest stock first.
func (e *Engine) Dashboard() DashboardSummary {
	summary := DashboardSummary{
		CustomerCount: len(e.customers.List()),
	}

	for _, s := range e.sales.Sales() {
		summary.SalesTotal = summary.SalesTotal.Add(s.Total)
	}

	products := e.products.List()
	summary.ProductCount = len(products)
	for _, p := range products {
		if p.Stock < e.warnAt {
			summary.LowStock = append(summary.LowStock, p)
		}
	}
	sort.SliceStable(summary.LowStock, func(i, j int) bool {
		return summary.LowStock[i].Stock < summary.LowStock[j].Stock
	})
	return summary
}

// =============================================================================
// INTERNALS
// =============================================================================

func (e *Engine) level(stock int) StockLevel {
	switch {
	case stock <= e.critAt:
		return StockCritical
	case stock <= e.warnAt:
		return StockWarning
	default:
		return StockOK
	}
}

func topBuyers(sales []retail.Sale, limit int) []BuyerTotal {
	totals := make(map[string]int)
	var buyers []BuyerTotal
	for _, s := range sales {
		i, seen := totals[s.CustomerName]
		if !seen {
			totals[s.CustomerName] = len(buyers)
			buyers = append(buyers, BuyerTotal{CustomerName: s.CustomerName, Total: s.Total})
			continue
		}
		buyers[i].Total = buyers[i].Total.Add(s.Total)
	}

	sort.SliceStable(buyers, func(i, j int) bool {
		return buyers[i].Total.GreaterThan(buyers[j].Total)
	})
	if len(buyers) > limit {
		buyers = buyers[:limit]
	}
	return buyers
}

func (e *Engine) topProducts(sales []retail.Sale, limit int) []ProductVolume {
	index := make(map[string]int)
	var volumes []ProductVolume
	for _, s := range sales {
		i, seen := index[s.ProductDescription]
		if !seen {
			index[s.ProductDescription] = len(volumes)
			volumes = append(volumes, ProductVolume{Description: s.ProductDescription, Quantity: s.Quantity})
			continue
		}
		volumes[i].Quantity += s.Quantity
	}

	sort.SliceStable(volumes, func(i, j int) bool {
		return volumes[i].Quantity > volumes[j].Quantity
	})
	if len(volumes) > limit {
		volumes = volumes[:limit]
	}

	// Resolve current stock by description for display, case-insensitively
	// to match product uniqueness. A renamed or deleted product leaves
	// StockKnown false.
	products := e.products.List()
	for i := range volumes {
		for _, p := range products {
			if strings.EqualFold(p.Description, volumes[i].Description) {
				volumes[i].CurrentStock = p.Stock
				volumes[i].StockKnown = true
				break
			}
		}
	}
	return volumes
}

func isInactive(c retail.Customer, sales []retail.Sale, period *Period) bool {
	any := false
	inPeriod := false
	for _, s := range sales {
		if s.CustomerID != c.ID {
			continue
		}
		any = true
		if period != nil && period.Contains(s.At) {
			inPeriod = true
		}
	}
	if !any {
		return true
	}
	return period != nil && !inPeriod
}

// dayKey normalizes a timestamp to its local calendar day. The keys sort
// lexicographically, so range checks are plain string comparisons.
func dayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
