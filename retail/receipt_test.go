package retail_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gaspoint/retail-engine/retail"
)

func TestRenderReceipt(t *testing.T) {
	sale := retail.Sale{
		ID:                 "s1",
		Quantity:           2,
		Total:              retail.NewMoney(160),
		Payment:            retail.PaymentPix,
		At:                 time.Date(2025, 6, 1, 14, 30, 0, 0, time.Local),
		CustomerName:       "Ana Souza",
		ProductDescription: "Gás P13",
		Status:             retail.SaleCompleted,
	}
	customer := retail.Customer{Name: "Ana Souza", Phone: "11999990000", Address: "Rua das Flores, 123"}
	company := retail.CompanyInfo{Name: "Gás do Ponto", CNPJ: "12.345.678/0001-90", Address: "Av. Central, 10"}

	text := retail.RenderReceipt(sale, customer, company, retail.DefaultReceiptConfig())

	assert.Contains(t, text, "Recibo de Venda")
	assert.Contains(t, text, "Gás do Ponto")
	assert.Contains(t, text, "CNPJ: 12.345.678/0001-90")
	assert.Contains(t, text, "Endereço: Av. Central, 10")
	assert.Contains(t, text, "Cliente: Ana Souza")
	assert.Contains(t, text, "Produto: Gás P13")
	assert.Contains(t, text, "Quantidade: 2")
	assert.Contains(t, text, "Valor Total: R$ 160.00")
	assert.Contains(t, text, "Forma de Pagamento: PIX")
	assert.Contains(t, text, "Obrigado pela Compra!")
	assert.Contains(t, text, "Data: 01/06/2025 14:30:00")
}

func TestRenderReceipt_FlagsSuppressCompanyLines(t *testing.T) {
	sale := retail.Sale{Total: retail.NewMoney(80), Payment: retail.PaymentCash, At: time.Now()}
	company := retail.CompanyInfo{Name: "Gás do Ponto", CNPJ: "12.345.678/0001-90", Address: "Av. Central, 10"}

	cfg := retail.DefaultReceiptConfig()
	cfg.PrintCNPJ = false
	cfg.PrintCompanyAddress = false

	text := retail.RenderReceipt(sale, retail.Customer{}, company, cfg)
	assert.NotContains(t, text, "CNPJ:")
	assert.NotContains(t, text, "Endereço: Av. Central, 10")
	assert.Contains(t, text, "Gás do Ponto")
}
