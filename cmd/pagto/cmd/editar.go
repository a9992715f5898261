package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pagto/pkg/service"
)

var editarFlags struct {
	categoria    string
	beneficiario string
	conta        string
	valor        string
	data         string
	devendo      string
	pendente     bool
	comprovante  string
	observacao   string
}

// editarCmd represents the editar command.
var editarCmd = &cobra.Command{
	Use:   "editar [id]",
	Short: "Edita um pagamento existente",
	Long: `Edita um pagamento existente. Apenas os campos informados mudam;
os demais permanecem como estão. Para limpar um campo opcional
(devendo, observacao ou comprovante), passe o valor "-":

  pagto editar 3 --valor 99,90
  pagto editar 3 --devendo -
  pagto editar 3 --comprovante ~/Downloads/nota.pdf

Pagamentos deletados não podem ser editados.`,
	Args: cobra.ExactArgs(1),
	Run:  runEditar,
}

func init() {
	editarCmd.Flags().StringVar(&editarFlags.categoria, "categoria", "", "nova categoria")
	editarCmd.Flags().StringVar(&editarFlags.beneficiario, "beneficiario", "", "novo beneficiário")
	editarCmd.Flags().StringVar(&editarFlags.conta, "conta", "", "nova conta")
	editarCmd.Flags().StringVar(&editarFlags.valor, "valor", "", "novo valor")
	editarCmd.Flags().StringVar(&editarFlags.data, "data", "", "nova data (DD/MM/AAAA)")
	editarCmd.Flags().StringVar(&editarFlags.devendo, "devendo", "", `novo "devendo para" ("-" limpa)`)
	editarCmd.Flags().BoolVar(&editarFlags.pendente, "pendente", false, "pendente (true/false)")
	editarCmd.Flags().StringVar(&editarFlags.comprovante, "comprovante", "", `novo comprovante ("-" remove a associação)`)
	editarCmd.Flags().StringVar(&editarFlags.observacao, "observacao", "", `nova observação ("-" limpa)`)
}

func runEditar(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	exitOnError(err, "id inválido")

	in := service.EditInput{}
	changed := cmd.Flags().Changed
	if changed("categoria") {
		in.Category = &editarFlags.categoria
	}
	if changed("beneficiario") {
		in.Payee = &editarFlags.beneficiario
	}
	if changed("conta") {
		in.Account = &editarFlags.conta
	}
	if changed("valor") {
		amount, err := parseAmount(editarFlags.valor)
		exitOnError(err, "valor inválido")
		in.Amount = &amount
	}
	if changed("data") {
		in.Date = &editarFlags.data
	}
	if changed("devendo") {
		in.OwedTo = &editarFlags.devendo
	}
	if changed("pendente") {
		in.Pending = &editarFlags.pendente
	}
	if changed("comprovante") {
		in.ReceiptPath = &editarFlags.comprovante
	}
	if changed("observacao") {
		in.Note = &editarFlags.observacao
	}

	a, err := openApp()
	exitOnError(err, "falha ao abrir o armazenamento")
	defer a.Close()

	result, err := a.payments.Edit(id, in)
	if errors.Is(err, service.ErrDeleted) {
		fmt.Println("\n✗ Não é possível editar um pagamento deletado.")
		return
	}
	exitOnError(err, "falha ao editar pagamento")

	if result.ReceiptWarning != nil {
		fmt.Printf("\n⚠ Comprovante não anexado: %v\n", result.ReceiptWarning)
	}
	if !result.Updated {
		if _, found, err := a.store.GetByID(id); err == nil && !found {
			fmt.Printf("\n✗ Pagamento com ID %d não encontrado.\n", id)
		} else {
			fmt.Println("\nNada a alterar: nenhum campo informado.")
		}
		return
	}

	fmt.Printf("\n✓ Pagamento ID %d atualizado com sucesso!\n", id)
	if result.ReceiptRef != "" {
		fmt.Printf("✓ Comprovante atualizado: %s\n", result.ReceiptRef)
	}
}
