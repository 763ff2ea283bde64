/*
receipt.go - Receipt rendering and the printer boundary

PURPOSE:
  Renders a committed sale into the plain-text receipt handed to the
  output collaborator. Printing itself is outside the core; the
  ReceiptPrinter interface is the boundary, and a printer failure must
  never roll back the sale that already committed.

SEE ALSO:
  - ledger.go: Invokes the printer after a sale commits
  - company.go: Source of company info and receipt layout
*/
package retail

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ReceiptPrinter consumes a rendered receipt and produces a printable
// artifact. Implementations live outside the core.
type ReceiptPrinter interface {
	Print(ctx context.Context, receipt string) error
}

// LoggingPrinter writes receipts to the log. Used as the default printer
// when no real output device is wired.
type LoggingPrinter struct {
	Log zerolog.Logger
}

func (p LoggingPrinter) Print(_ context.Context, receipt string) error {
	p.Log.Info().Msg("receipt:\n" + receipt)
	return nil
}

// RenderReceipt builds the text receipt for a sale. Layout follows the
// configured header/footer and the company-info print flags.
func RenderReceipt(sale Sale, customer Customer, company CompanyInfo, cfg ReceiptConfig) string {
	var b strings.Builder

	writeCentered(&b, cfg.Header)
	b.WriteString("\n")

	if company.Name != "" {
		writeCentered(&b, company.Name)
		if cfg.PrintCompanyAddress && company.Address != "" {
			writeCentered(&b, "Endereço: "+company.Address)
		}
		if company.Phone != "" {
			writeCentered(&b, "Telefone: "+company.Phone)
		}
		if company.Email != "" {
			writeCentered(&b, "E-mail: "+company.Email)
		}
		if cfg.PrintCNPJ && company.CNPJ != "" {
			writeCentered(&b, "CNPJ: "+company.CNPJ)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
	fmt.Fprintf(&b, "Data: %s\n", sale.At.Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&b, "Cliente: %s\n", sale.CustomerName)
	fmt.Fprintf(&b, "Telefone: %s\n", customer.Phone)
	fmt.Fprintf(&b, "Endereço: %s\n", customer.Address)
	fmt.Fprintf(&b, "Produto: %s\n", sale.ProductDescription)
	fmt.Fprintf(&b, "Quantidade: %d\n", sale.Quantity)
	fmt.Fprintf(&b, "Valor Total: R$ %s\n", sale.Total)
	fmt.Fprintf(&b, "Forma de Pagamento: %s\n", sale.Payment.Label())
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n\n")

	writeCentered(&b, cfg.Footer)
	return b.String()
}

const receiptWidth = 42

func writeCentered(b *strings.Builder, s string) {
	pad := (receiptWidth - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + s + "\n")
}
