/*
customers.go - Customer repository

PURPOSE:
  Owns the "clientes" collection. All reads and writes of customer data go
  through this repository; consumers never hold their own copy of the
  collection. Reload() is the explicit invalidation contract, used after a
  whole-store import.

VALIDATION RULES:
  - Name: at least 3 characters
  - Phone: 10-11 digits, unique across customers
  - Address: at least 5 characters
  - Email: optional, free-form

SEE ALSO:
  - ledger.go: Resolves customers when recording sales
  - backup.go: Calls Reload after import
*/
package retail

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10,11}$`)

// CustomerRepository is the single owner of the customer collection.
type CustomerRepository struct {
	store     Store
	customers []Customer
}

// NewCustomerRepository loads the collection from the store. Legacy records
// without a stable ID are assigned one and written back once.
func NewCustomerRepository(ctx context.Context, store Store) (*CustomerRepository, error) {
	r := &CustomerRepository{store: store}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload discards the in-memory collection and re-reads it from the store.
func (r *CustomerRepository) Reload(ctx context.Context) error {
	customers, err := loadCollection[Customer](ctx, r.store, KeyCustomers)
	if err != nil {
		return err
	}

	assigned := false
	for i := range customers {
		if customers[i].ID == "" {
			customers[i].ID = CustomerID(NewID())
			assigned = true
		}
	}
	if assigned {
		if err := saveCollection(ctx, r.store, KeyCustomers, customers); err != nil {
			return err
		}
	}

	r.customers = customers
	return nil
}

// List returns a copy of the collection in insertion order.
func (r *CustomerRepository) List() []Customer {
	out := make([]Customer, len(r.customers))
	copy(out, r.customers)
	return out
}

// Get resolves a customer by ID.
func (r *CustomerRepository) Get(id CustomerID) (*Customer, error) {
	for i := range r.customers {
		if r.customers[i].ID == id {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, &NotFoundError{Kind: "customer", ID: string(id)}
}

// Search matches the term case-insensitively against name, or as a
// substring of the phone number.
func (r *CustomerRepository) Search(term string) []Customer {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	lower := strings.ToLower(term)

	var matches []Customer
	for _, c := range r.customers {
		if strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(c.Phone, term) {
			matches = append(matches, c)
		}
	}
	return matches
}

// Add validates and appends a new customer.
func (r *CustomerRepository) Add(ctx context.Context, in CustomerInput) (*Customer, error) {
	if err := validateCustomer(in); err != nil {
		return nil, err
	}
	if r.phoneTaken(in.Phone, "") {
		return nil, &DuplicateError{Field: "phone", Value: in.Phone}
	}

	customer := Customer{
		ID:        CustomerID(NewID()),
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Email:     strings.TrimSpace(in.Email),
		CreatedAt: time.Now(),
	}

	next := append(r.List(), customer)
	if err := saveCollection(ctx, r.store, KeyCustomers, next); err != nil {
		return nil, err
	}
	r.customers = next
	return &customer, nil
}

// Update edits a customer in place. The creation timestamp is preserved.
func (r *CustomerRepository) Update(ctx context.Context, id CustomerID, in CustomerInput) (*Customer, error) {
	if err := validateCustomer(in); err != nil {
		return nil, err
	}
	if r.phoneTaken(in.Phone, id) {
		return nil, &DuplicateError{Field: "phone", Value: in.Phone}
	}

	next := r.List()
	for i := range next {
		if next[i].ID != id {
			continue
		}
		now := time.Now()
		next[i].Name = strings.TrimSpace(in.Name)
		next[i].Phone = strings.TrimSpace(in.Phone)
		next[i].Address = strings.TrimSpace(in.Address)
		next[i].Email = strings.TrimSpace(in.Email)
		next[i].UpdatedAt = &now

		if err := saveCollection(ctx, r.store, KeyCustomers, next); err != nil {
			return nil, err
		}
		r.customers = next
		c := next[i]
		return &c, nil
	}
	return nil, &NotFoundError{Kind: "customer", ID: string(id)}
}

// Delete removes a customer. Sales referencing the customer keep their
// snapshot name; deletion is not blocked by ledger history.
func (r *CustomerRepository) Delete(ctx context.Context, id CustomerID) error {
	next := r.List()
	for i := range next {
		if next[i].ID != id {
			continue
		}
		next = append(next[:i], next[i+1:]...)
		if err := saveCollection(ctx, r.store, KeyCustomers, next); err != nil {
			return err
		}
		r.customers = next
		return nil
	}
	return &NotFoundError{Kind: "customer", ID: string(id)}
}

func (r *CustomerRepository) phoneTaken(phone string, exclude CustomerID) bool {
	phone = strings.TrimSpace(phone)
	for _, c := range r.customers {
		if c.ID != exclude && c.Phone == phone {
			return true
		}
	}
	return false
}

// Lengths count characters, not bytes: "Zé" is two characters.
func validateCustomer(in CustomerInput) error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < 3 {
		return &ValidationError{Field: "name", Message: "must have at least 3 characters"}
	}
	if !phonePattern.MatchString(strings.TrimSpace(in.Phone)) {
		return &ValidationError{Field: "phone", Message: "must be 10-11 digits"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Address)) < 5 {
		return &ValidationError{Field: "address", Message: "must have at least 5 characters"}
	}
	return nil
}
