/*
ledger.go - Sales ledger and stock consistency

PURPOSE:
  The Ledger is the single owner of the "vendas" collection and the sole
  writer of product stock for sale-driven changes. Recording a sale
  appends a ledger entry and decrements stock; cancelling restores stock
  and removes the entry. Both halves of each operation are persisted as
  one logical unit.

CONSISTENCY CONTRACT:
  1. Validation and the stock check happen against the current snapshot.
  2. Both collections are staged as copies; nothing in memory changes yet.
  3. Products are written first, then sales. On a BatchStore both keys go
     down in one atomic call.
  4. Only after persistence succeeds are the staged copies swapped in.
  A persistence failure therefore leaves both the store (after
  compensation) and the process at the pre-call state.

CANCELLATION SEMANTICS:
  Cancellation is destructive: the sale is removed from the ledger
  entirely, not soft-marked. Stock restoration is unconditional, even if
  the product was edited after the sale. If the referenced product no
  longer exists the cancellation fails with NotFoundError and nothing is
  restored; callers must confirm the operation before invoking it.

RECEIPTS:
  After a sale commits, a text receipt is rendered and handed to the
  attached ReceiptPrinter. Printer failures are logged and never roll
  back the committed sale.

SEE ALSO:
  - store.go: persistWrites and the BatchStore contract
  - products.go: stageStockDelta / commit hooks
  - receipt.go: Receipt rendering
*/
package retail

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Ledger records and reverses sales while keeping product stock consistent.
type Ledger struct {
	store     Store
	customers *CustomerRepository
	products  *ProductRepository
	sales     []Sale

	printer  ReceiptPrinter
	settings *SettingsRepository
	log      zerolog.Logger
}

// NewLedger loads the sales collection and wires the ledger to the
// collection owners it coordinates with.
func NewLedger(ctx context.Context, store Store, customers *CustomerRepository, products *ProductRepository) (*Ledger, error) {
	l := &Ledger{
		store:     store,
		customers: customers,
		products:  products,
		log:       zerolog.Nop(),
	}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// WithReceipts attaches a receipt printer. Settings supply the company
// header and receipt layout; pass nil to print with defaults.
func (l *Ledger) WithReceipts(printer ReceiptPrinter, settings *SettingsRepository) *Ledger {
	l.printer = printer
	l.settings = settings
	return l
}

// WithLogger sets the logger used for non-fatal side-effect failures.
func (l *Ledger) WithLogger(log zerolog.Logger) *Ledger {
	l.log = log
	return l
}

// Reload discards the in-memory ledger and re-reads it from the store.
func (l *Ledger) Reload(ctx context.Context) error {
	sales, err := loadCollection[Sale](ctx, l.store, KeySales)
	if err != nil {
		return err
	}
	assigned := false
	for i := range sales {
		if sales[i].ID == "" {
			sales[i].ID = SaleID(NewID())
			assigned = true
		}
		if sales[i].Status == "" {
			sales[i].Status = SaleCompleted
		}
	}
	if assigned {
		if err := saveCollection(ctx, l.store, KeySales, sales); err != nil {
			return err
		}
	}
	l.sales = sales
	return nil
}

// Sales returns a copy of the ledger in insertion order.
func (l *Ledger) Sales() []Sale {
	out := make([]Sale, len(l.sales))
	copy(out, l.sales)
	return out
}

// Get resolves a sale by ID.
func (l *Ledger) Get(id SaleID) (*Sale, error) {
	for i := range l.sales {
		if l.sales[i].ID == id {
			s := l.sales[i]
			return &s, nil
		}
	}
	return nil, &NotFoundError{Kind: "sale", ID: string(id)}
}

// HasSalesForProduct reports whether any ledger entry references the product.
func (l *Ledger) HasSalesForProduct(id ProductID) bool {
	for _, s := range l.sales {
		if s.ProductID == id {
			return true
		}
	}
	return false
}

// HasSalesForCustomer reports whether any ledger entry references the customer.
func (l *Ledger) HasSalesForCustomer(id CustomerID) bool {
	for _, s := range l.sales {
		if s.CustomerID == id {
			return true
		}
	}
	return false
}

// RecordSale validates the input, appends a completed sale and decrements
// product stock as a single logical unit.
//
// Total = round(price * quantity, 2). Customer name and product description
// are snapshotted onto the sale at this instant.
func (l *Ledger) RecordSale(ctx context.Context, in SaleInput) (*Sale, error) {
	if in.CustomerID == "" {
		return nil, &ValidationError{Field: "customer", Message: "no customer selected"}
	}
	if in.ProductID == "" {
		return nil, &ValidationError{Field: "product", Message: "no product selected"}
	}
	if in.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must be greater than zero"}
	}
	if !in.Payment.Valid() {
		return nil, &ValidationError{Field: "payment", Message: "unrecognized payment method"}
	}

	customer, err := l.customers.Get(in.CustomerID)
	if err != nil {
		return nil, err
	}
	product, err := l.products.Get(in.ProductID)
	if err != nil {
		return nil, err
	}
	if in.Quantity > product.Stock {
		return nil, &InsufficientStockError{ProductID: product.ID, Requested: in.Quantity, Available: product.Stock}
	}

	now := time.Now()
	sale := Sale{
		ID:                 SaleID(NewID()),
		CustomerID:         customer.ID,
		ProductID:          product.ID,
		Quantity:           in.Quantity,
		Total:              product.Price.MulInt(in.Quantity).Round2(),
		Payment:            in.Payment,
		At:                 now,
		CustomerName:       customer.Name,
		ProductDescription: product.Description,
		Status:             SaleCompleted,
	}

	stagedProducts, err := l.products.stageStockDelta(product.ID, -in.Quantity, now)
	if err != nil {
		return nil, err
	}
	stagedSales := append(l.Sales(), sale)

	if err := l.persistBoth(ctx, stagedProducts, stagedSales); err != nil {
		return nil, err
	}
	l.products.commit(stagedProducts)
	l.sales = stagedSales

	l.printReceipt(ctx, sale, *customer)
	return &sale, nil
}

// CancelSale restores product stock and removes the sale from the ledger.
// This is destructive and not reversible; the caller confirms beforehand.
//
// Restoration is unconditional: independent edits to the product after the
// sale are not clamped away. If the product no longer exists, the call
// fails with NotFoundError and neither stock nor ledger change.
func (l *Ledger) CancelSale(ctx context.Context, id SaleID) error {
	idx := -1
	for i := range l.sales {
		if l.sales[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &NotFoundError{Kind: "sale", ID: string(id)}
	}
	sale := l.sales[idx]

	stagedProducts, err := l.products.stageStockDelta(sale.ProductID, sale.Quantity, time.Now())
	if err != nil {
		return err
	}

	stagedSales := l.Sales()
	stagedSales = append(stagedSales[:idx], stagedSales[idx+1:]...)

	if err := l.persistBoth(ctx, stagedProducts, stagedSales); err != nil {
		return err
	}
	l.products.commit(stagedProducts)
	l.sales = stagedSales
	return nil
}

// DeleteProduct removes a product unless the ledger references it. The
// cross-collection guard lives here because the ledger owns the sales side.
func (l *Ledger) DeleteProduct(ctx context.Context, id ProductID) error {
	if l.HasSalesForProduct(id) {
		return &ValidationError{Field: "product", Message: "has recorded sales and cannot be deleted"}
	}
	return l.products.Delete(ctx, id)
}

// persistBoth writes the staged product and sale collections as one unit,
// products first. Prior payloads are captured for compensation on plain
// stores.
func (l *Ledger) persistBoth(ctx context.Context, products []Product, sales []Sale) error {
	productsRaw, err := l.products.encode(products)
	if err != nil {
		return &StorageError{Op: "set", Key: KeyProducts, Err: err}
	}
	salesRaw, err := encodeCollection(sales)
	if err != nil {
		return &StorageError{Op: "set", Key: KeySales, Err: err}
	}
	priorProducts, err := l.products.current()
	if err != nil {
		return &StorageError{Op: "set", Key: KeyProducts, Err: err}
	}
	priorSales, err := encodeCollection(l.sales)
	if err != nil {
		return &StorageError{Op: "set", Key: KeySales, Err: err}
	}

	return persistWrites(ctx, l.store, []write{
		{key: KeyProducts, value: productsRaw, prior: priorProducts},
		{key: KeySales, value: salesRaw, prior: priorSales},
	})
}

// printReceipt renders and prints the receipt for a committed sale.
// Failures here never roll back the sale.
func (l *Ledger) printReceipt(ctx context.Context, sale Sale, customer Customer) {
	if l.printer == nil {
		return
	}
	company := CompanyInfo{}
	cfg := DefaultReceiptConfig()
	if l.settings != nil {
		company = l.settings.Company()
		cfg = l.settings.ReceiptConfig()
	}
	receipt := RenderReceipt(sale, customer, company, cfg)
	if err := l.printer.Print(ctx, receipt); err != nil {
		l.log.Warn().Err(err).Str("sale", string(sale.ID)).Msg("receipt printing failed")
	}
}
