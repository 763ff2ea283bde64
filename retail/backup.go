/*
backup.go - Whole-store export, import and reset

PURPOSE:
  Backup is one JSON document carrying every top-level key. Import
  replaces each collection wholesale, defaulting any missing key to its
  empty value, and then reloads every in-memory owner so no service keeps
  serving stale data. Reset wipes the store the same way.

SEE ALSO:
  - store.go: Key names and the BatchStore contract
  - seed.go: First-run data, re-created after a reset on next start
*/
package retail

import (
	"context"
	"encoding/json"
	"time"
)

// Backup is the whole-store export document. Field names match the legacy
// backup files, so old exports import unchanged.
type Backup struct {
	Customers []Customer    `json:"clientes"`
	Products  []Product     `json:"produtos"`
	Sales     []Sale        `json:"vendas"`
	Company   CompanyInfo   `json:"dadosEmpresa"`
	Receipt   ReceiptConfig `json:"configuracaoRecibo"`
}

// Reloader is anything holding an in-memory copy of a persisted collection.
// Import and Reset call Reload on every registered owner before new
// operations are accepted.
type Reloader interface {
	Reload(ctx context.Context) error
}

// BackupService exports and imports the whole store.
type BackupService struct {
	store     Store
	reloaders []Reloader
}

func NewBackupService(store Store, reloaders ...Reloader) *BackupService {
	return &BackupService{store: store, reloaders: reloaders}
}

// Export reads every key into one Backup document.
func (s *BackupService) Export(ctx context.Context) (Backup, error) {
	b := Backup{Receipt: DefaultReceiptConfig()}

	var err error
	if b.Customers, err = loadCollection[Customer](ctx, s.store, KeyCustomers); err != nil {
		return Backup{}, err
	}
	if b.Products, err = loadCollection[Product](ctx, s.store, KeyProducts); err != nil {
		return Backup{}, err
	}
	if b.Sales, err = loadCollection[Sale](ctx, s.store, KeySales); err != nil {
		return Backup{}, err
	}

	raw, err := s.store.Get(ctx, KeyCompany)
	if err != nil {
		return Backup{}, &StorageError{Op: "get", Key: KeyCompany, Err: err}
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &b.Company); err != nil {
			return Backup{}, &StorageError{Op: "get", Key: KeyCompany, Err: err}
		}
	}

	raw, err = s.store.Get(ctx, KeyReceiptConfig)
	if err != nil {
		return Backup{}, &StorageError{Op: "get", Key: KeyReceiptConfig, Err: err}
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &b.Receipt); err != nil {
			return Backup{}, &StorageError{Op: "get", Key: KeyReceiptConfig, Err: err}
		}
	}
	return b, nil
}

// Import replaces every collection wholesale and reloads all owners.
// Missing keys in the incoming document become empty collections; a zero
// receipt configuration falls back to the defaults.
func (s *BackupService) Import(ctx context.Context, b Backup) error {
	if b.Customers == nil {
		b.Customers = []Customer{}
	}
	if b.Products == nil {
		b.Products = []Product{}
	}
	if b.Sales == nil {
		b.Sales = []Sale{}
	}
	if (b.Receipt == ReceiptConfig{}) {
		b.Receipt = DefaultReceiptConfig()
	}

	writes, err := s.encodeWrites(ctx, b)
	if err != nil {
		return err
	}
	if err := persistWrites(ctx, s.store, writes); err != nil {
		return err
	}
	return s.reloadAll(ctx)
}

// Reset removes every key, including the first-run marker, and reloads all
// owners to empty state.
func (s *BackupService) Reset(ctx context.Context) error {
	for _, key := range []string{KeyCustomers, KeyProducts, KeySales, KeyCompany, KeyReceiptConfig, KeySeedMarker} {
		if err := s.store.Remove(ctx, key); err != nil {
			return &StorageError{Op: "remove", Key: key, Err: err}
		}
	}
	return s.reloadAll(ctx)
}

// FileName suggests a download name for an export.
func (Backup) FileName(at time.Time) string {
	return "backup_retail_" + at.Format("2006-01-02T15-04-05") + ".json"
}

func (s *BackupService) encodeWrites(ctx context.Context, b Backup) ([]write, error) {
	type doc struct {
		key   string
		value any
	}
	docs := []doc{
		{KeyCustomers, b.Customers},
		{KeyProducts, b.Products},
		{KeySales, b.Sales},
		{KeyCompany, b.Company},
		{KeyReceiptConfig, b.Receipt},
	}

	writes := make([]write, 0, len(docs))
	for _, d := range docs {
		value, err := json.Marshal(d.value)
		if err != nil {
			return nil, &StorageError{Op: "set", Key: d.key, Err: err}
		}
		prior, err := s.store.Get(ctx, d.key)
		if err != nil {
			return nil, &StorageError{Op: "get", Key: d.key, Err: err}
		}
		writes = append(writes, write{key: d.key, value: value, prior: prior})
	}
	return writes, nil
}

func (s *BackupService) reloadAll(ctx context.Context) error {
	for _, r := range s.reloaders {
		if err := r.Reload(ctx); err != nil {
			return err
		}
	}
	return nil
}
