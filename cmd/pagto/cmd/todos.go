package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagto/pkg/filter"
)

// todosCmd represents the todos command.
var todosCmd = &cobra.Command{
	Use:   "todos [campo:valor ...]",
	Short: "Lista todos os pagamentos",
	Long: `Lista os pagamentos em formato tabular, excluindo os deletados.

Aceita filtros campo:valor e uma diretiva de ordenação:

  pagto todos
  pagto todos categoria:Alimentação pendente:s
  pagto todos valor:>100 beneficiario:supermercado
  pagto todos sort:-valor`,
	Run: runTodos,
}

func runTodos(cmd *cobra.Command, args []string) {
	q := filter.Parse(args)
	preds, err := filter.Compile(q.Filters)
	exitOnError(err, "filtro inválido")

	a, err := openApp()
	exitOnError(err, "falha ao abrir o armazenamento")
	defer a.Close()

	payments, err := a.store.List(false, preds, q.Sort)
	exitOnError(err, "falha ao listar pagamentos")

	if len(payments) == 0 {
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
	fmt.Println("\n=== TODOS OS PAGAMENTOS ===")
	fmt.Println()
	printPaymentTable(payments, a.cfg.Currency, true)
}
