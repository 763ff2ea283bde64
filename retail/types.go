/*
Package retail provides the core engine for a small retail operation:
customers, product inventory, and a sales ledger with consistent stock.

PURPOSE:
  This package contains the domain types and services that keep the sales
  ledger and product stock consistent. Recording a sale decrements stock,
  cancelling a sale restores it, and both changes land in the persistent
  store as one unit.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A two-decimal monetary amount backed by decimal.Decimal
  - Customer/Product/Sale: The three persisted collections
  - StockAdjustment: Append-only audit entry for manual stock changes
  - PaymentMethod: Enumerated payment types (legacy wire values)

DESIGN PRINCIPLES:
  1. Stable identity: Every record gets a generated UUID at creation.
     Sales reference customers and products by ID, never by position.
  2. Snapshot fields: Sale carries the customer name and product
     description copied at write time. Renaming an entity later must not
     rewrite history.
  3. Precision: Money uses decimal.Decimal; totals are rounded to two
     places exactly once, at sale time.
  4. Wire compatibility: JSON field names and enum values match the
     legacy data files (Portuguese keys), so existing backups import
     cleanly.

SEE ALSO:
  - errors.go: Error taxonomy
  - ledger.go: Sale recording and cancellation
  - products.go: Inventory and manual adjustments
*/
package retail

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Two-decimal monetary amount
// =============================================================================

// Money wraps decimal.Decimal and marshals as a plain JSON number with two
// decimal places, matching the legacy data files.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

// MustParseMoney parses a decimal string, returning zero on failure.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{Value: decimal.Zero}
	}
	return Money{Value: d}
}

func (m Money) Add(b Money) Money          { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money          { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) MulInt(n int) Money         { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (m Money) Round2() Money              { return Money{Value: m.Value.Round(2)} }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) Equal(b Money) bool         { return m.Value.Equal(b.Value) }
func (m Money) GreaterThan(b Money) bool   { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool      { return m.Value.LessThan(b.Value) }

// String formats with exactly two decimal places ("80.00").
func (m Money) String() string { return m.Value.StringFixed(2) }

// MarshalJSON emits a bare number rounded to two places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Value.StringFixed(2)), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		m.Value = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", s, err)
	}
	m.Value = d
	return nil
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CustomerID string
type ProductID string
type SaleID string

// NewID generates a stable unique identifier for a new record.
func NewID() string { return uuid.NewString() }

// =============================================================================
// PAYMENT METHOD
// =============================================================================

// PaymentMethod uses the legacy wire values so existing sale records and
// backups keep their meaning.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "dinheiro"
	PaymentCreditCard PaymentMethod = "cartao_credito"
	PaymentDebitCard  PaymentMethod = "cartao_debito"
	PaymentPix        PaymentMethod = "pix"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix:
		return true
	}
	return false
}

// Label returns the display name used on receipts and report text.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCash:
		return "Dinheiro"
	case PaymentCreditCard:
		return "Cartão de Crédito"
	case PaymentDebitCard:
		return "Cartão de Débito"
	case PaymentPix:
		return "PIX"
	}
	return string(p)
}

// =============================================================================
// CUSTOMER
// =============================================================================

type Customer struct {
	ID        CustomerID `json:"id"`
	Name      string     `json:"nome"`
	Phone     string     `json:"telefone"`
	Address   string     `json:"endereco"`
	Email     string     `json:"email,omitempty"`
	CreatedAt time.Time  `json:"dataCadastro"`
	UpdatedAt *time.Time `json:"dataAtualizacao,omitempty"`
}

// CustomerInput is the validated input for creating or updating a customer.
type CustomerInput struct {
	Name    string
	Phone   string
	Address string
	Email   string
}

// =============================================================================
// PRODUCT
// =============================================================================

type AdjustmentType string

const (
	AdjustmentAddition    AdjustmentType = "adicao"
	AdjustmentSubtraction AdjustmentType = "subtracao"
)

// StockAdjustment is one append-only audit entry for a manual stock change.
// Sale-driven stock changes do NOT appear here; the ledger itself is their
// audit trail.
type StockAdjustment struct {
	At          time.Time      `json:"data"`
	Type        AdjustmentType `json:"tipoAjuste"`
	Quantity    int            `json:"quantidadeAjuste"`
	Reason      string         `json:"motivoAjuste"`
	StockBefore int            `json:"estoqueAnterior"`
	StockAfter  int            `json:"estoqueNovo"`
}

type Product struct {
	ID           ProductID         `json:"id"`
	Description  string            `json:"descricao"`
	Price        Money             `json:"preco"`
	Stock        int               `json:"estoque"`
	Barcode      string            `json:"codigoBarras,omitempty"`
	CreatedAt    time.Time         `json:"dataCadastro"`
	UpdatedAt    *time.Time        `json:"ultimaAtualizacao,omitempty"`
	StockHistory []StockAdjustment `json:"historicoEstoque,omitempty"`
}

// ProductInput is the validated input for creating a product.
type ProductInput struct {
	Description string
	Price       Money
	Stock       int
	Barcode     string
}

// ProductUpdate edits description, price and barcode. Stock is never edited
// directly; use AdjustStock or record a sale.
type ProductUpdate struct {
	Description string
	Price       Money
	Barcode     string
}

// =============================================================================
// SALE
// =============================================================================

type SaleStatus string

const SaleCompleted SaleStatus = "concluida"

// Sale is one ledger entry. CustomerName and ProductDescription are snapshot
// fields: copied at sale time, never re-joined against the live collections.
type Sale struct {
	ID                 SaleID        `json:"id"`
	CustomerID         CustomerID    `json:"clienteId"`
	ProductID          ProductID     `json:"produtoId"`
	Quantity           int           `json:"quantidade"`
	Total              Money         `json:"valorTotal"`
	Payment            PaymentMethod `json:"formaPagamento"`
	At                 time.Time     `json:"data"`
	CustomerName       string        `json:"nomeCliente"`
	ProductDescription string        `json:"descricaoProduto"`
	Status             SaleStatus    `json:"status"`
}

// SaleInput is the validated input for recording a sale.
type SaleInput struct {
	CustomerID CustomerID
	ProductID  ProductID
	Quantity   int
	Payment    PaymentMethod
}

// =============================================================================
// COMPANY SETTINGS
// =============================================================================

// CompanyInfo is the business identity printed on receipts.
type CompanyInfo struct {
	Name    string `json:"nome,omitempty"`
	CNPJ    string `json:"cnpj,omitempty"`
	Address string `json:"endereco,omitempty"`
	Phone   string `json:"telefone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// ReceiptConfig controls receipt rendering. Field names and defaults match
// the legacy configuration document.
type ReceiptConfig struct {
	Header              string `json:"cabecalho"`
	Footer              string `json:"rodape"`
	PrintCompanyAddress bool   `json:"imprimir_endereco_empresa"`
	PrintCNPJ           bool   `json:"imprimir_cnpj"`
	FontColor           string `json:"cor_fonte"`
	BackgroundColor     string `json:"cor_fundo"`
	Width               string `json:"largura_recibo"`
	FontSize            string `json:"tamanho_fonte"`
}

func DefaultReceiptConfig() ReceiptConfig {
	return ReceiptConfig{
		Header:              "Recibo de Venda",
		Footer:              "Obrigado pela Compra!",
		PrintCompanyAddress: true,
		PrintCNPJ:           true,
		FontColor:           "#000000",
		BackgroundColor:     "#FFFFFF",
		Width:               "80%",
		FontSize:            "12px",
	}
}
