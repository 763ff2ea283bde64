/*
render.go - Plain-text rendering of reports

Renders each report into the text artifact handed to the output
collaborator (screen, download, printer). Layout follows the legacy
report text: an uppercase title, a ruled line, totals, then line items.
*/
package reports

import (
	"fmt"
	"strings"
	"time"
)

// RenderDaily renders a daily sales report.
func RenderDaily(r DailySalesReport) string {
	var b strings.Builder
	title(&b, fmt.Sprintf("RELATÓRIO DE VENDAS - %s", r.Date.Format("2006-01-02")))
	fmt.Fprintf(&b, "Total de Vendas: %d\n", r.Count)
	fmt.Fprintf(&b, "Valor Total: R$ %s\n", r.Total)

	if len(r.Lines) > 0 {
		b.WriteString("\nDetalhes das Vendas:\n")
		for _, line := range r.Lines {
			fmt.Fprintf(&b, "- %s: %s\n  Quantidade: %d\n  Valor: R$ %s\n",
				line.CustomerName, line.ProductDescription, line.Quantity, line.Total)
		}
	}
	return b.String()
}

// RenderStock renders the stock report with low-stock flags.
func RenderStock(r StockReport) string {
	var b strings.Builder
	title(&b, "RELATÓRIO DE ESTOQUE")
	fmt.Fprintf(&b, "Total de Produtos: %d\n\nProdutos em Estoque:\n", r.TotalProducts)

	for _, item := range r.Items {
		fmt.Fprintf(&b, "- %s: %d unidades\n  Preço: R$ %s\n",
			item.Product.Description, item.Product.Stock, item.Product.Price)
		if item.Level != StockOK {
			b.WriteString("  ESTOQUE BAIXO\n")
		}
	}

	b.WriteString("\nProdutos com Estoque Crítico:\n")
	if len(r.Critical) == 0 {
		b.WriteString("Nenhum produto com estoque crítico\n")
	}
	for _, item := range r.Critical {
		fmt.Fprintf(&b, "- %s: %d unidades\n", item.Product.Description, item.Product.Stock)
	}
	return b.String()
}

// RenderCustomers renders the customer contact report.
func RenderCustomers(r CustomerReport) string {
	var b strings.Builder
	title(&b, "RELATÓRIO DE CLIENTES")
	fmt.Fprintf(&b, "Total de Clientes: %d\n\nDetalhes dos Clientes:\n", r.Total)

	for _, c := range r.Customers {
		fmt.Fprintf(&b, "- %s\n  Telefone: %s\n  Endereço: %s\n", c.Name, c.Phone, c.Address)
	}
	return b.String()
}

// RenderDetailedSales renders the detailed sales report with its optional
// rankings.
func RenderDetailedSales(r DetailedSalesReport) string {
	var b strings.Builder
	title(&b, "RELATÓRIO DETALHADO DE VENDAS")
	fmt.Fprintf(&b, "Período: %s\n", periodLabel(r.Period))
	fmt.Fprintf(&b, "Total de Vendas: %d\n", r.Count)
	fmt.Fprintf(&b, "Valor Total: R$ %s\n", r.Total)

	if len(r.TopBuyers) > 0 {
		b.WriteString("\nMAIORES COMPRADORES:\n")
		for _, buyer := range r.TopBuyers {
			fmt.Fprintf(&b, "- %s: R$ %s\n", buyer.CustomerName, buyer.Total)
		}
	}
	if len(r.TopProducts) > 0 {
		b.WriteString("\nPRODUTOS MAIS VENDIDOS:\n")
		for _, v := range r.TopProducts {
			fmt.Fprintf(&b, "- %s: %d unidades\n", v.Description, v.Quantity)
			if v.StockKnown {
				fmt.Fprintf(&b, "  Estoque Atual: %d\n", v.CurrentStock)
			}
		}
	}
	return b.String()
}

// RenderDetailedCustomers renders the detailed customer report.
func RenderDetailedCustomers(r DetailedCustomerReport) string {
	var b strings.Builder
	title(&b, "RELATÓRIO DETALHADO DE CLIENTES")
	fmt.Fprintf(&b, "Total de Clientes: %d\n", r.Total)

	if r.Inactive != nil {
		b.WriteString("\nCLIENTES INATIVOS:\n")
		for _, c := range r.Inactive {
			fmt.Fprintf(&b, "- %s (%s)\n", c.Name, c.Phone)
		}
	}
	return b.String()
}

// FileName suggests a download name for a rendered report.
func FileName(at time.Time) string {
	return "relatorio_" + strings.ReplaceAll(at.Format(time.RFC3339), ":", "-") + ".txt"
}

func title(b *strings.Builder, s string) {
	b.WriteString(s + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(s))) + "\n")
}

func periodLabel(p *Period) string {
	if p == nil {
		return "Início a Hoje"
	}
	return p.Start.Format("2006-01-02") + " a " + p.End.Format("2006-01-02")
}
