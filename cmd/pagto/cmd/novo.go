package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pagto/pkg/service"
)

var novoFlags struct {
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

// novoCmd represents the novo command.
var novoCmd = &cobra.Command{
	Use:   "novo",
	Short: "Registra um novo pagamento",
	Long: `Registra um novo pagamento.

A data padrão é a de hoje; o comprovante, quando informado, é copiado
para a pasta de comprovantes com um nome estável derivado do registro.

Exemplo:
  pagto novo --categoria Alimentação --beneficiario "Supermercado X" \
    --conta Nubank --valor 150,90 --comprovante ~/Downloads/nota.pdf`,
	Run: runNovo,
}

func init() {
	novoCmd.Flags().StringVar(&novoFlags.categoria, "categoria", "", "categoria do pagamento (obrigatório)")
	novoCmd.Flags().StringVar(&novoFlags.beneficiario, "beneficiario", "", "beneficiário (obrigatório)")
	novoCmd.Flags().StringVar(&novoFlags.conta, "conta", "", "conta de origem (obrigatório)")
	novoCmd.Flags().StringVar(&novoFlags.valor, "valor", "", "valor, ex: 150.50 ou 150,50 (obrigatório)")
	novoCmd.Flags().StringVar(&novoFlags.data, "data", "", "data do pagamento (DD/MM/AAAA, padrão: hoje)")
	novoCmd.Flags().StringVar(&novoFlags.devendo, "devendo", "", "devendo para (opcional)")
	novoCmd.Flags().BoolVar(&novoFlags.pendente, "pendente", false, "marca o pagamento como pendente")
	novoCmd.Flags().StringVar(&novoFlags.comprovante, "comprovante", "", "caminho do comprovante a anexar (opcional)")
	novoCmd.Flags().StringVar(&novoFlags.observacao, "observacao", "", "observação livre (opcional)")

	novoCmd.MarkFlagRequired("categoria")
	novoCmd.MarkFlagRequired("beneficiario")
	novoCmd.MarkFlagRequired("conta")
	novoCmd.MarkFlagRequired("valor")
}

func runNovo(cmd *cobra.Command, args []string) {
	amount, err := parseAmount(novoFlags.valor)
	exitOnError(err, "valor inválido")

	a, err := openApp()
	exitOnError(err, "falha ao abrir o armazenamento")
	defer a.Close()

	result, err := a.payments.Create(service.CreateInput{
		Category:    novoFlags.categoria,
		Payee:       novoFlags.beneficiario,
		Account:     novoFlags.conta,
		Amount:      amount,
		Date:        novoFlags.data,
		OwedTo:      novoFlags.devendo,
		Pending:     novoFlags.pendente,
		Note:        novoFlags.observacao,
		ReceiptPath: novoFlags.comprovante,
	})
	exitOnError(err, "falha ao registrar pagamento")

	fmt.Printf("\n✓ Pagamento registrado com sucesso! (ID: %d)\n", result.ID)
	if result.ReceiptRef != "" {
		fmt.Printf("✓ Comprovante salvo: %s\n", result.ReceiptRef)
	}
	if result.ReceiptWarning != nil {
		fmt.Printf("⚠ Comprovante não anexado: %v\n", result.ReceiptWarning)
	}
}

// parseAmount parses a money value accepting both the comma and the
// dot as decimal separator.
func parseAmount(s string) (decimal.Decimal, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	amount, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("use números, ex: 150.50 ou 150,50 (recebido %q)", s)
	}
	return amount, nil
}
