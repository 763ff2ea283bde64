/*
store.go - Persistence interface for the document store

PURPOSE:
  The persistent store is a durable key -> JSON-document mapping with
  synchronous get/set/remove and no built-in transactions. Each collection
  is stored wholesale under a well-known key; repositories always
  read-modify-write the full document, never a partial update.

ATOMICITY:
  Multi-key consistency (stock decrement + ledger append) is guaranteed by
  sequencing. Stores that implement BatchStore write every key in one
  atomic call; plain stores get a fixed write order with best-effort
  compensation when a later write fails. In-memory state is only swapped
  in after persistence succeeds, so a failed write never leaves the
  process holding updated stock without the matching sale.

IMPLEMENTATIONS:
  - retail/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go: SQLite-backed documents table

SEE ALSO:
  - ledger.go: Uses writeSet for the two-key sale commit
  - backup.go: Replaces every key wholesale on import
*/
package retail

import (
	"context"
	"encoding/json"
)

// Store keys. These match the legacy data files so old backups import as-is.
const (
	KeyCustomers     = "clientes"
	KeyProducts      = "produtos"
	KeySales         = "vendas"
	KeyCompany       = "dadosEmpresa"
	KeyReceiptConfig = "configuracaoRecibo"
	KeySeedMarker    = "primeiroAcesso"
)

// Store is the minimal contract with the persistent store.
// Get returns (nil, nil) when the key is absent; callers treat a missing
// collection as empty.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// BatchStore writes multiple keys atomically: either every key is durable
// or none is. The ledger prefers this path for its two-key commits.
type BatchStore interface {
	Store

	SetBatch(ctx context.Context, values map[string][]byte) error
}

// =============================================================================
// WRITE SET - Multi-key persistence with rollback
// =============================================================================

// write is one staged key write. prior holds the payload to restore if a
// later write in the same set fails on a non-batch store.
type write struct {
	key   string
	value []byte
	prior []byte
}

// persistWrites commits a set of staged writes as one logical unit.
func persistWrites(ctx context.Context, s Store, writes []write) error {
	if bs, ok := s.(BatchStore); ok {
		values := make(map[string][]byte, len(writes))
		for _, w := range writes {
			values[w.key] = w.value
		}
		if err := bs.SetBatch(ctx, values); err != nil {
			return &StorageError{Op: "batch", Key: writes[0].key, Err: err}
		}
		return nil
	}

	for i, w := range writes {
		if err := s.Set(ctx, w.key, w.value); err != nil {
			// Compensate: restore keys already written, newest first.
			for j := i - 1; j >= 0; j-- {
				if writes[j].prior != nil {
					_ = s.Set(ctx, writes[j].key, writes[j].prior)
				} else {
					_ = s.Remove(ctx, writes[j].key)
				}
			}
			return &StorageError{Op: "set", Key: w.key, Err: err}
		}
	}
	return nil
}

// =============================================================================
// COLLECTION CODEC
// =============================================================================

// loadCollection reads and decodes a whole collection. A missing key yields
// an empty (non-nil) slice.
func loadCollection[T any](ctx context.Context, s Store, key string) ([]T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, &StorageError{Op: "get", Key: key, Err: err}
	}
	if raw == nil {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &StorageError{Op: "get", Key: key, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// encodeCollection marshals a collection, normalizing nil to [].
func encodeCollection[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

// saveCollection encodes and writes a whole collection under key.
func saveCollection[T any](ctx context.Context, s Store, key string, items []T) error {
	raw, err := encodeCollection(items)
	if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}
