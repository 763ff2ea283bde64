/*
seed.go - First-run data

On a brand-new store, seeds one default customer and the two standard gas
products, then writes the first-run marker. Matches the legacy first-run
behavior; a reset clears the marker so the next start reseeds.
*/
package retail

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// EnsureSeedData seeds initial data when the first-run marker is absent.
// Returns true when seeding happened.
func EnsureSeedData(ctx context.Context, store Store, log zerolog.Logger) (bool, error) {
	marker, err := store.Get(ctx, KeySeedMarker)
	if err != nil {
		return false, &StorageError{Op: "get", Key: KeySeedMarker, Err: err}
	}
	if marker != nil {
		return false, nil
	}

	now := time.Now()
	customers := []Customer{
		{
			ID:        CustomerID(NewID()),
			Name:      "Cliente Padrão",
			Phone:     "1199999999",
			Address:   "Endereço Padrão",
			CreatedAt: now,
		},
	}
	products := []Product{
		{
			ID:          ProductID(NewID()),
			Description: "Gás P13",
			Price:       NewMoney(80.00),
			Stock:       50,
			CreatedAt:   now,
		},
		{
			ID:          ProductID(NewID()),
			Description: "Gás P45",
			Price:       NewMoney(250.00),
			Stock:       20,
			CreatedAt:   now,
		},
	}

	customersRaw, err := encodeCollection(customers)
	if err != nil {
		return false, &StorageError{Op: "set", Key: KeyCustomers, Err: err}
	}
	productsRaw, err := encodeCollection(products)
	if err != nil {
		return false, &StorageError{Op: "set", Key: KeyProducts, Err: err}
	}

	writes := []write{
		{key: KeyCustomers, value: customersRaw},
		{key: KeyProducts, value: productsRaw},
		{key: KeySeedMarker, value: []byte(`"false"`)},
	}
	if err := persistWrites(ctx, store, writes); err != nil {
		return false, err
	}

	log.Info().Int("customers", len(customers)).Int("products", len(products)).Msg("seeded first-run data")
	return true, nil
}
