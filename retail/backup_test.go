package retail_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaspoint/retail-engine/retail"
	"github.com/gaspoint/retail-engine/retail/store"
)

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	// GIVEN: A store with customers, products, sales and settings
	// WHEN: Exported, the store is reset, and the export imported again
	// THEN: Every collection is back and the owners serve the restored data

	f := newFixture(t)
	ctx := context.Background()

	ana := f.addCustomer(t, "Ana Souza", "11999990000")
	p13 := f.addProduct(t, "Gás P13", 80.00, 10)
	_, err := f.ledger.RecordSale(ctx, retail.SaleInput{
		CustomerID: ana.ID, ProductID: p13.ID, Quantity: 2, Payment: retail.PaymentPix,
	})
	require.NoError(t, err)

	settings, err := retail.NewSettingsRepository(ctx, f.store)
	require.NoError(t, err)
	require.NoError(t, settings.SaveCompany(ctx, retail.CompanyInfo{Name: "Gás do Ponto", CNPJ: "12.345.678/0001-90"}))

	backups := retail.NewBackupService(f.store, f.customers, f.products, f.ledger, settings)

	exported, err := backups.Export(ctx)
	require.NoError(t, err)
	require.NoError(t, backups.Reset(ctx))
	assert.Empty(t, f.customers.List())
	assert.Empty(t, f.ledger.Sales())

	require.NoError(t, backups.Import(ctx, exported))

	require.Len(t, f.customers.List(), 1)
	assert.Equal(t, "Ana Souza", f.customers.List()[0].Name)
	require.Len(t, f.products.List(), 1)
	assert.Equal(t, 8, f.products.List()[0].Stock)
	require.Len(t, f.ledger.Sales(), 1)
	assert.Equal(t, "160.00", f.ledger.Sales()[0].Total.String())
	assert.Equal(t, "Gás do Ponto", settings.Company().Name)
}

func TestBackup_Import_MissingKeysBecomeEmpty(t *testing.T) {
	// A backup document can omit keys; missing collections import as empty
	// and a zero receipt config falls back to the defaults.

	f := newFixture(t)
	ctx := context.Background()
	f.addCustomer(t, "Ana Souza", "11999990000")

	settings, err := retail.NewSettingsRepository(ctx, f.store)
	require.NoError(t, err)
	backups := retail.NewBackupService(f.store, f.customers, f.products, f.ledger, settings)

	var sparse retail.Backup
	require.NoError(t, json.Unmarshal([]byte(`{"produtos":[]}`), &sparse))
	require.NoError(t, backups.Import(ctx, sparse))

	assert.Empty(t, f.customers.List(), "previous customers replaced wholesale")
	assert.Empty(t, f.products.List())
	assert.Empty(t, f.ledger.Sales())
	assert.Equal(t, retail.DefaultReceiptConfig(), settings.ReceiptConfig())
}

func TestBackup_Import_LegacyDocumentGetsIDs(t *testing.T) {
	// Legacy backups carry no IDs; the owners assign them on reload.
	f := newFixture(t)
	ctx := context.Background()

	backups := retail.NewBackupService(f.store, f.customers, f.products, f.ledger)

	var legacy retail.Backup
	require.NoError(t, json.Unmarshal([]byte(`{
		"clientes":[{"nome":"Maria Silva","telefone":"11988887777","endereco":"Av. Paulista, 1000","dataCadastro":"2024-01-15T09:00:00Z"}],
		"produtos":[{"descricao":"Gás P13","preco":80.00,"estoque":12,"dataCadastro":"2024-01-15T09:00:00Z"}]
	}`), &legacy))
	require.NoError(t, backups.Import(ctx, legacy))

	require.Len(t, f.customers.List(), 1)
	assert.NotEmpty(t, f.customers.List()[0].ID)
	require.Len(t, f.products.List(), 1)
	assert.NotEmpty(t, f.products.List()[0].ID)
	assert.Equal(t, "80.00", f.products.List()[0].Price.String())
}

func TestBackup_Reset_ClearsSeedMarker(t *testing.T) {
	// Reset removes the first-run marker, so the next start reseeds.
	mem := store.NewMemory()
	ctx := context.Background()
	log := zerolog.Nop()

	seeded, err := retail.EnsureSeedData(ctx, mem, log)
	require.NoError(t, err)
	assert.True(t, seeded)

	f := newFixtureOn(t, mem)
	backups := retail.NewBackupService(mem, f.customers, f.products, f.ledger)
	require.NoError(t, backups.Reset(ctx))
	assert.Empty(t, f.customers.List())
	assert.Empty(t, mem.Keys(), "reset leaves no document behind")

	seeded, err = retail.EnsureSeedData(ctx, mem, log)
	require.NoError(t, err)
	assert.True(t, seeded, "marker was cleared, seeding runs again")
}

// =============================================================================
// FIRST-RUN SEED
// =============================================================================

func TestSeed_RunsOnce(t *testing.T) {
	// GIVEN: A brand-new store
	// WHEN: EnsureSeedData runs twice
	// THEN: The defaults exist once and the second call is a no-op

	mem := store.NewMemory()
	ctx := context.Background()
	log := zerolog.Nop()

	seeded, err := retail.EnsureSeedData(ctx, mem, log)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = retail.EnsureSeedData(ctx, mem, log)
	require.NoError(t, err)
	assert.False(t, seeded)

	f := newFixtureOn(t, mem)
	require.Len(t, f.customers.List(), 1)
	assert.Equal(t, "Cliente Padrão", f.customers.List()[0].Name)

	products := f.products.List()
	require.Len(t, products, 2)
	assert.Equal(t, "Gás P13", products[0].Description)
	assert.Equal(t, "80.00", products[0].Price.String())
	assert.Equal(t, 50, products[0].Stock)
	assert.Equal(t, "Gás P45", products[1].Description)
	assert.Equal(t, "250.00", products[1].Price.String())
	assert.Equal(t, 20, products[1].Stock)
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettings_DefaultsAndPersistence(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	settings, err := retail.NewSettingsRepository(ctx, mem)
	require.NoError(t, err)
	assert.Equal(t, retail.CompanyInfo{}, settings.Company())
	assert.Equal(t, "Recibo de Venda", settings.ReceiptConfig().Header)

	require.NoError(t, settings.SaveCompany(ctx, retail.CompanyInfo{Name: "Gás do Ponto", Phone: "1133334444"}))
	cfg := settings.ReceiptConfig()
	cfg.Footer = "Volte Sempre!"
	require.NoError(t, settings.SaveReceiptConfig(ctx, cfg))

	// A fresh owner sees the persisted values.
	again, err := retail.NewSettingsRepository(ctx, mem)
	require.NoError(t, err)
	assert.Equal(t, "Gás do Ponto", again.Company().Name)
	assert.Equal(t, "Volte Sempre!", again.ReceiptConfig().Footer)
	assert.True(t, again.ReceiptConfig().PrintCNPJ, "untouched fields keep their defaults")
}
