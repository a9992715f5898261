package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pagto/pkg/model"
)

// formatMoney renders an amount in Brazilian convention with the
// configured symbol: "R$ 1.234,56".
func formatMoney(symbol string, d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart := s[:len(s)-3]
	frac := s[len(s)-2:]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := symbol + " " + strings.Join(grouped, ".") + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// truncate limits a string to max characters.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// printPaymentTable prints the listing shared by "todos" (with a
// status column) and "deletados" (without it), followed by the grand
// total and the record count.
func printPaymentTable(payments []model.Payment, symbol string, withStatus bool) {
	width := 125
	if withStatus {
		width = 135
		fmt.Printf("%-5s %-12s %-18s %-23s %-15s %15s %-8s %-4s %-15s\n",
			"ID", "Data", "Categoria", "Beneficiário", "Conta", "Valor", "Status", "Comp", "Devendo")
	} else {
		fmt.Printf("%-5s %-12s %-18s %-23s %-15s %15s %-4s %-15s\n",
			"ID", "Data", "Categoria", "Beneficiário", "Conta", "Valor", "Comp", "Devendo")
	}
	fmt.Println(strings.Repeat("-", width))

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)

		compIcon := ""
		if p.ReceiptRef != "" {
			compIcon = "📎"
		}

		if withStatus {
			status := "✓ Pago"
			if p.Pending {
				status = "⏳ Pend."
			}
			fmt.Printf("%-5d %-12s %-18s %-23s %-15s %15s %-8s %-4s %-15s\n",
				p.ID, p.Date,
				truncate(p.Category, 17),
				truncate(p.Payee, 22),
				truncate(p.Account, 14),
				formatMoney(symbol, p.Amount),
				status, compIcon,
				truncate(p.OwedTo, 14))
		} else {
			fmt.Printf("%-5d %-12s %-18s %-23s %-15s %15s %-4s %-15s\n",
				p.ID, p.Date,
				truncate(p.Category, 17),
				truncate(p.Payee, 22),
				truncate(p.Account, 14),
				formatMoney(symbol, p.Amount),
				compIcon,
				truncate(p.OwedTo, 14))
		}
	}

	fmt.Println(strings.Repeat("-", width))
	fmt.Printf("%-95s %15s\n", "TOTAL:", formatMoney(symbol, total))
	fmt.Printf("\nRegistros encontrados: %d\n", len(payments))
}
