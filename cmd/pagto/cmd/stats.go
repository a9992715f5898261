package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Mostra estatísticas da coleção",
	Long: `Mostra um resumo da coleção de pagamentos:

- registros ativos, pendentes e deletados
- categorias distintas em uso
- total geral (excluindo deletados)
- último id emitido`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	a, err := openApp()
	exitOnError(err, "falha ao abrir o armazenamento")
	defer a.Close()

	stats, err := a.store.GetStats()
	exitOnError(err, "falha ao consultar estatísticas")

	fmt.Println("\n=== ESTATÍSTICAS ===")
	fmt.Printf("Pagamentos ativos:    %d\n", stats.Active)
	fmt.Printf("Pendentes:            %d\n", stats.Pending)
	fmt.Printf("Deletados:            %d\n", stats.Deleted)
	fmt.Printf("Categorias em uso:    %d\n", stats.Categories)
	fmt.Printf("Total (sem deletados): %s\n", formatMoney(a.cfg.Currency, stats.Total))
	if stats.LastID > 0 {
		fmt.Printf("Último ID emitido:    %d\n", stats.LastID)
	} else {
		fmt.Printf("Último ID emitido:    (nenhum)\n")
	}
	fmt.Println()
}
