/*
company.go - Company info and receipt configuration

Owns the "dadosEmpresa" and "configuracaoRecibo" documents. Both are
single-object settings persisted wholesale; a missing receipt
configuration falls back to the legacy defaults.
*/
package retail

import (
	"context"
	"encoding/json"
)

// SettingsRepository is the single owner of the settings documents.
type SettingsRepository struct {
	store   Store
	company CompanyInfo
	receipt ReceiptConfig
}

func NewSettingsRepository(ctx context.Context, store Store) (*SettingsRepository, error) {
	r := &SettingsRepository{store: store}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads both documents from the store.
func (r *SettingsRepository) Reload(ctx context.Context) error {
	company := CompanyInfo{}
	raw, err := r.store.Get(ctx, KeyCompany)
	if err != nil {
		return &StorageError{Op: "get", Key: KeyCompany, Err: err}
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &company); err != nil {
			return &StorageError{Op: "get", Key: KeyCompany, Err: err}
		}
	}

	receipt := DefaultReceiptConfig()
	raw, err = r.store.Get(ctx, KeyReceiptConfig)
	if err != nil {
		return &StorageError{Op: "get", Key: KeyReceiptConfig, Err: err}
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &receipt); err != nil {
			return &StorageError{Op: "get", Key: KeyReceiptConfig, Err: err}
		}
	}

	r.company = company
	r.receipt = receipt
	return nil
}

func (r *SettingsRepository) Company() CompanyInfo { return r.company }

func (r *SettingsRepository) SaveCompany(ctx context.Context, info CompanyInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return &StorageError{Op: "set", Key: KeyCompany, Err: err}
	}
	if err := r.store.Set(ctx, KeyCompany, raw); err != nil {
		return &StorageError{Op: "set", Key: KeyCompany, Err: err}
	}
	r.company = info
	return nil
}

func (r *SettingsRepository) ReceiptConfig() ReceiptConfig { return r.receipt }

func (r *SettingsRepository) SaveReceiptConfig(ctx context.Context, cfg ReceiptConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return &StorageError{Op: "set", Key: KeyReceiptConfig, Err: err}
	}
	if err := r.store.Set(ctx, KeyReceiptConfig, raw); err != nil {
		return &StorageError{Op: "set", Key: KeyReceiptConfig, Err: err}
	}
	r.receipt = cfg
	return nil
}
