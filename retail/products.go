/*
products.go - Product repository and manual stock adjustments

PURPOSE:
  Owns the "produtos" collection: product CRUD plus manual stock
  adjustments with an append-only audit history. Sale-driven stock changes
  are staged here but committed by the ledger, which is the sole writer of
  stock for sales and cancellations.

VALIDATION RULES:
  - Description: at least 3 characters, case-insensitive unique
  - Price: strictly positive
  - Stock: never negative
  - Adjustment: positive quantity, reason of at least 3 characters

AUDIT INVARIANT:
  Every manual stock mutation appends a StockAdjustment entry with the
  before/after quantities. Entries are never edited or removed.

SEE ALSO:
  - ledger.go: Stages stock deltas for sales via this repository
  - reports: Stock report and distribution read through List()
*/
package retail

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// ProductRepository is the single owner of the product collection.
type ProductRepository struct {
	store    Store
	products []Product
}

// NewProductRepository loads the collection from the store. Legacy records
// without a stable ID are assigned one and written back once.
func NewProductRepository(ctx context.Context, store Store) (*ProductRepository, error) {
	r := &ProductRepository{store: store}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload discards the in-memory collection and re-reads it from the store.
func (r *ProductRepository) Reload(ctx context.Context) error {
	products, err := loadCollection[Product](ctx, r.store, KeyProducts)
	if err != nil {
		return err
	}

	assigned := false
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = ProductID(NewID())
			assigned = true
		}
	}
	if assigned {
		if err := saveCollection(ctx, r.store, KeyProducts, products); err != nil {
			return err
		}
	}

	r.products = products
	return nil
}

// List returns a copy of the collection in insertion order.
func (r *ProductRepository) List() []Product {
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out
}

// Get resolves a product by ID.
func (r *ProductRepository) Get(id ProductID) (*Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, &NotFoundError{Kind: "product", ID: string(id)}
}

// Add validates and appends a new product.
func (r *ProductRepository) Add(ctx context.Context, in ProductInput) (*Product, error) {
	if err := validateProduct(in.Description, in.Price); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, &ValidationError{Field: "stock", Message: "must not be negative"}
	}
	if r.descriptionTaken(in.Description, "") {
		return nil, &DuplicateError{Field: "description", Value: strings.TrimSpace(in.Description)}
	}

	now := time.Now()
	product := Product{
		ID:          ProductID(NewID()),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round2(),
		Stock:       in.Stock,
		Barcode:     strings.TrimSpace(in.Barcode),
		CreatedAt:   now,
		UpdatedAt:   &now,
	}

	next := append(r.List(), product)
	if err := saveCollection(ctx, r.store, KeyProducts, next); err != nil {
		return nil, err
	}
	r.products = next
	return &product, nil
}

// Update edits description, price and barcode. Stock is untouched.
func (r *ProductRepository) Update(ctx context.Context, id ProductID, in ProductUpdate) (*Product, error) {
	if err := validateProduct(in.Description, in.Price); err != nil {
		return nil, err
	}
	if r.descriptionTaken(in.Description, id) {
		return nil, &DuplicateError{Field: "description", Value: strings.TrimSpace(in.Description)}
	}

	next := r.List()
	for i := range next {
		if next[i].ID != id {
			continue
		}
		now := time.Now()
		next[i].Description = strings.TrimSpace(in.Description)
		next[i].Price = in.Price.Round2()
		next[i].Barcode = strings.TrimSpace(in.Barcode)
		next[i].UpdatedAt = &now

		if err := saveCollection(ctx, r.store, KeyProducts, next); err != nil {
			return nil, err
		}
		r.products = next
		p := next[i]
		return &p, nil
	}
	return nil, &NotFoundError{Kind: "product", ID: string(id)}
}

// Delete removes a product. The sales guard lives on the ledger
// (Ledger.DeleteProduct), which owns the cross-collection check.
func (r *ProductRepository) Delete(ctx context.Context, id ProductID) error {
	next := r.List()
	for i := range next {
		if next[i].ID != id {
			continue
		}
		next = append(next[:i], next[i+1:]...)
		if err := saveCollection(ctx, r.store, KeyProducts, next); err != nil {
			return err
		}
		r.products = next
		return nil
	}
	return &NotFoundError{Kind: "product", ID: string(id)}
}

// AdjustStock applies a manual addition or subtraction with a reason, and
// appends the audit entry. A subtraction that would drive stock negative
// fails with InvalidAdjustmentError and appends nothing.
func (r *ProductRepository) AdjustStock(ctx context.Context, id ProductID, typ AdjustmentType, quantity int, reason string) (*Product, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < 3 {
		return nil, &ValidationError{Field: "reason", Message: "must have at least 3 characters"}
	}
	if typ != AdjustmentAddition && typ != AdjustmentSubtraction {
		return nil, &ValidationError{Field: "type", Message: "must be addition or subtraction"}
	}

	next := r.List()
	for i := range next {
		if next[i].ID != id {
			continue
		}

		delta := quantity
		if typ == AdjustmentSubtraction {
			delta = -quantity
		}
		after := next[i].Stock + delta
		if after < 0 {
			return nil, &InvalidAdjustmentError{ProductID: id, Current: next[i].Stock, Delta: delta}
		}

		now := time.Now()
		next[i].StockHistory = append(append([]StockAdjustment{}, next[i].StockHistory...), StockAdjustment{
			At:          now,
			Type:        typ,
			Quantity:    quantity,
			Reason:      strings.TrimSpace(reason),
			StockBefore: next[i].Stock,
			StockAfter:  after,
		})
		next[i].Stock = after
		next[i].UpdatedAt = &now

		if err := saveCollection(ctx, r.store, KeyProducts, next); err != nil {
			return nil, err
		}
		r.products = next
		p := next[i]
		return &p, nil
	}
	return nil, &NotFoundError{Kind: "product", ID: string(id)}
}

// =============================================================================
// LEDGER HOOKS - Staged stock changes committed by the ledger
// =============================================================================

// stageStockDelta returns a copy of the collection with the delta applied to
// one product. The repository itself is not mutated; the ledger commits the
// staged copy only after persistence succeeds.
func (r *ProductRepository) stageStockDelta(id ProductID, delta int, at time.Time) ([]Product, error) {
	next := r.List()
	for i := range next {
		if next[i].ID != id {
			continue
		}
		stamp := at
		next[i].Stock += delta
		next[i].UpdatedAt = &stamp
		return next, nil
	}
	return nil, &NotFoundError{Kind: "product", ID: string(id)}
}

// encode marshals a staged collection for persistence.
func (r *ProductRepository) encode(products []Product) ([]byte, error) {
	return encodeCollection(products)
}

// current returns the encoded present state, used as the rollback payload.
func (r *ProductRepository) current() ([]byte, error) {
	return encodeCollection(r.products)
}

// commit swaps in a staged collection after it has been persisted.
func (r *ProductRepository) commit(products []Product) {
	r.products = products
}

func (r *ProductRepository) descriptionTaken(description string, exclude ProductID) bool {
	description = strings.ToLower(strings.TrimSpace(description))
	for _, p := range r.products {
		if p.ID != exclude && strings.ToLower(p.Description) == description {
			return true
		}
	}
	return false
}

// Description length counts characters, not bytes.
func validateProduct(description string, price Money) error {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < 3 {
		return &ValidationError{Field: "description", Message: "must have at least 3 characters"}
	}
	if !price.IsPositive() {
		return &ValidationError{Field: "price", Message: "must be greater than zero"}
	}
	return nil
}
