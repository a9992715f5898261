package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagto/pkg/filter"
)

// deletadosCmd represents the deletados command.
var deletadosCmd = &cobra.Command{
	Use:   "deletados [campo:valor ...]",
	Short: "Lista os pagamentos deletados",
	Long: `Lista apenas os pagamentos marcados como deletados. Os registros
nunca são removidos fisicamente, então o histórico completo permanece
consultável aqui. Aceita os mesmos filtros de "todos".`,
	Run: runDeletados,
}

func runDeletados(cmd *cobra.Command, args []string) {
	q := filter.Parse(args)
	preds, err := filter.Compile(q.Filters)
	exitOnError(err, "filtro inválido")

	a, err := openApp()
	exitOnError(err, "falha ao abrir o armazenamento")
	defer a.Close()

	payments, err := a.store.ListDeleted(preds, q.Sort)
	exitOnError(err, "falha ao listar pagamentos deletados")

	if len(payments) == 0 {
		if preds.Len() > 0 {
			fmt.Println("\nNenhum pagamento deletado encontrado com os filtros aplicados.")
		} else {
			fmt.Println("\nNenhum pagamento deletado encontrado.")
		}
		return
	}

	if preds.Len() > 0 {
		fmt.Printf("\n=== FILTROS APLICADOS: %v ===\n", q.Filters)
	}
	fmt.Println("\n=== PAGAMENTOS DELETADOS ===")
	fmt.Println()
	printPaymentTable(payments, a.cfg.Currency, false)
}
