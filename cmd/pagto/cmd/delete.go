package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pagto/pkg/service"
)

var deleteConfirmed bool

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Marca um pagamento como deletado",
	Long: `Marca um pagamento como deletado (soft-delete). O registro não é
removido: ele sai das listagens e agregações padrão mas continua
disponível em "deletados" e por id.

Exemplo:
  pagto delete 5
  pagto delete 5 --sim`,
	Args: cobra.ExactArgs(1),
	Run:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteConfirmed, "sim", false, "não pedir confirmação")
}

func runDelete(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	exitOnError(err, "id inválido")

	a, err := openApp()
	exitOnError(err, "falha ao abrir o armazenamento")
	defer a.Close()

	p, found, err := a.store.GetByID(id)
	exitOnError(err, "falha ao buscar pagamento")

	if !found {
		fmt.Printf("\n✗ Pagamento com ID %d não encontrado.\n", id)
		return
	}
	if p.Deleted {
		fmt.Printf("\n⚠ Pagamento ID %d já está deletado.\n", id)
		return
	}

	fmt.Println("\n=== DELETAR PAGAMENTO ===")
	fmt.Println()
	fmt.Printf("ID: %d\n", p.ID)
	fmt.Printf("Categoria: %s\n", p.Category)
	fmt.Printf("Beneficiário: %s\n", p.Payee)
	fmt.Printf("Valor: %s\n", formatMoney(a.cfg.Currency, p.Amount))
	fmt.Printf("Data: %s\n", p.Date)

	if !deleteConfirmed && !confirm("\nDeseja realmente deletar este pagamento? (s/n): ") {
		fmt.Println("\n✗ Operação cancelada.")
		return
	}

	outcome, err := a.payments.Delete(id)
	exitOnError(err, "falha ao deletar pagamento")

	switch outcome {
	case service.DeleteOK:
		fmt.Printf("\n✓ Pagamento ID %d deletado com sucesso!\n", id)
	case service.DeleteAlreadyDeleted:
		fmt.Printf("\n⚠ Pagamento ID %d já está deletado.\n", id)
	default:
		fmt.Printf("\n✗ Pagamento com ID %d não encontrado.\n", id)
	}
}

// confirm prompts on stdin and accepts s/sim/y/yes.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}
