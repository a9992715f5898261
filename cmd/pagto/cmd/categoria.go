package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pagto/pkg/filter"
)

// categoriaCmd represents the categoria command.
var categoriaCmd = &cobra.Command{
	Use:   "categoria [campo:valor ...]",
	Short: "Mostra o total agregado por categoria",
	Long: `Soma os valores por categoria, excluindo pagamentos deletados.
Aceita os mesmos filtros de "todos":

  pagto categoria
  pagto categoria conta:Nubank
  pagto categoria pendente:n`,
	Run: runCategoria,
}

func runCategoria(cmd *cobra.Command, args []string) {
	q := filter.Parse(args)
	preds, err := filter.Compile(q.Filters)
	exitOnError(err, "filtro inválido")

	a, err := openApp()
	exitOnError(err, "falha ao abrir o armazenamento")
	defer a.Close()

	totals, err := a.store.AggregateByCategory(preds)
	exitOnError(err, "falha ao agregar por categoria")

	if len(totals) == 0 {
		if preds.Len() > 0 {
			fmt.Println("\nNenhum pagamento encontrado com os filtros aplicados.")
		} else {
			fmt.Println("\nNenhum pagamento registrado ainda.")
		}
		return
	}

	if preds.Len() > 0 {
		fmt.Printf("\n=== FILTROS APLICADOS: %v ===\n", q.Filters)
	}
	fmt.Println("\n=== PAGAMENTOS POR CATEGORIA ===")
	fmt.Println()
	fmt.Printf("%-30s %20s\n", "Categoria", "Total")
	fmt.Println(strings.Repeat("-", 52))

	grandTotal := decimal.Zero
	for _, t := range totals {
		grandTotal = grandTotal.Add(t.Total)
		fmt.Printf("%-30s %20s\n", truncate(t.Category, 29), formatMoney(a.cfg.Currency, t.Total))
	}

	fmt.Println(strings.Repeat("-", 52))
	fmt.Printf("%-30s %20s\n", "TOTAL GERAL:", formatMoney(a.cfg.Currency, grandTotal))
}
