// Package filter implements the campo:valor query language: it parses
// raw CLI tokens into a normalized predicate set plus a sort directive,
// and translates that set into either in-memory matchers or
// parameterized SQL fragments.
package filter

import "strings"

// Canonical field names. These double as the column names of the
// payments table, except for amount which is stored as amount_cents.
const (
	FieldID       = "id"
	FieldCategory = "category"
	FieldPayee    = "payee"
	FieldDate     = "payment_date"
	FieldAccount  = "account"
	FieldAmount   = "amount"
	FieldOwedTo   = "owed_to"
	FieldPending  = "pending"
	FieldReceipt  = "receipt_ref"
	FieldNote     = "note"
)

// fieldAliases maps the user-facing (Portuguese) field names to their
// canonical storage fields. Lookup is case-insensitive.
var fieldAliases = map[string]string{
	"id":             FieldID,
	"categoria":      FieldCategory,
	"beneficiario":   FieldPayee,
	"data":           FieldDate,
	"data_pagamento": FieldDate,
	"conta":          FieldAccount,
	"valor":          FieldAmount,
	"devendo":        FieldOwedTo,
	"devendo_para":   FieldOwedTo,
	"pendente":       FieldPending,
	"comprovante":    FieldReceipt,
	"observacao":     FieldNote,
}

// sortAliases is the smaller alias table accepted after an optional
// leading "-" in a sort directive.
var sortAliases = map[string]string{
	"data":         FieldDate,
	"valor":        FieldAmount,
	"categoria":    FieldCategory,
	"beneficiario": FieldPayee,
	"conta":        FieldAccount,
	"id":           FieldID,
}

// Sort is a sort directive: a canonical field plus direction. Ties on
// the sort key always break by ascending id, so ordering stays
// deterministic regardless of the chosen field.
type Sort struct {
	Field string
	Desc  bool
}

// DefaultSort orders by payment date ascending.
func DefaultSort() Sort {
	return Sort{Field: FieldDate}
}

// Query is the parsed form of a token list: the raw predicate values
// keyed by canonical field name, plus the sort directive.
type Query struct {
	Filters map[string]string
	Sort    Sort
}

// Parse interprets raw CLI tokens. Tokens without a colon are not part
// of the grammar and are skipped. Each qualifying token is split on the
// first colon only, so values may contain colons themselves. Field
// names are case-insensitive and resolved through the alias table;
// unknown names are kept literally and left for the evaluator to
// ignore. A field resolving to the reserved name "sort" is extracted
// as the sort directive (last one wins) instead of becoming a
// predicate. Repeated fields keep the last occurrence.
func Parse(tokens []string) Query {
	q := Query{
		Filters: make(map[string]string),
		Sort:    DefaultSort(),
	}

	for _, tok := range tokens {
		i := strings.Index(tok, ":")
		if i < 0 {
			continue
		}
		field := strings.ToLower(strings.TrimSpace(tok[:i]))
		value := strings.TrimSpace(tok[i+1:])

		if field == "sort" || field == "ordenar" {
			q.Sort = parseSort(value)
			continue
		}
		if canonical, ok := fieldAliases[field]; ok {
			field = canonical
		}
		q.Filters[field] = value
	}

	return q
}

// parseSort interprets a sort directive value: an optional leading "-"
// for descending order followed by a sort field alias. Unknown fields
// fall back to the default (payment date ascending).
func parseSort(value string) Sort {
	v := strings.ToLower(strings.TrimSpace(value))
	desc := false
	if strings.HasPrefix(v, "-") {
		desc = true
		v = v[1:]
	}
	field, ok := sortAliases[v]
	if !ok {
		return DefaultSort()
	}
	return Sort{Field: field, Desc: desc}
}
