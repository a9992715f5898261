package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pagto/pkg/model"
)

// opClass is the operator class of a canonical field. Each field
// resolves to exactly one class, so operator dispatch happens once at
// compile time instead of per record.
type opClass int

const (
	opSubstring opClass = iota // case-insensitive containment
	opAmount                   // numeric comparison with optional prefix
	opBoolean                  // truthiness equality
	opID                       // exact integer equality
)

// fieldClasses maps every filterable canonical field to its operator
// class. Fields absent from this table are no-op predicates.
var fieldClasses = map[string]opClass{
	FieldID:       opID,
	FieldCategory: opSubstring,
	FieldPayee:    opSubstring,
	FieldDate:     opSubstring,
	FieldAccount:  opSubstring,
	FieldAmount:   opAmount,
	FieldOwedTo:   opSubstring,
	FieldPending:  opBoolean,
	FieldReceipt:  opSubstring,
	FieldNote:     opSubstring,
}

// truthy is the set of values accepted as "true" for boolean fields.
var truthy = map[string]bool{
	"s": true, "sim": true, "1": true, "true": true, "yes": true,
}

// cmpOp is the comparison requested by an amount predicate.
type cmpOp int

const (
	cmpEq cmpOp = iota
	cmpGt
	cmpLt
	cmpGe
	cmpLe
)

// amountPrefixes in match order; ">=" and "<=" must come before their
// single-character forms.
var amountPrefixes = []struct {
	prefix string
	op     cmpOp
}{
	{">=", cmpGe},
	{"<=", cmpLe},
	{">", cmpGt},
	{"<", cmpLt},
}

// predicate is one compiled field condition.
type predicate struct {
	field  string
	class  opClass
	op     cmpOp
	text   string // raw value for substring containment
	amount decimal.Decimal
	id     int64
	want   bool // boolean fields
}

// Predicates is a compiled conjunctive predicate set. All conditions
// must hold for a record to be included; an empty set matches
// everything.
type Predicates struct {
	preds []predicate
}

// Compile turns the normalized field→value mapping into a predicate
// set. Unknown field names become no-ops and are dropped. Malformed
// numeric values for amount or id are validation errors: the whole
// filter is rejected before any record is examined.
func Compile(filters map[string]string) (*Predicates, error) {
	ps := &Predicates{}
	for field, value := range filters {
		class, ok := fieldClasses[field]
		if !ok {
			continue
		}
		p := predicate{field: field, class: class}
		switch class {
		case opSubstring:
			p.text = value
		case opBoolean:
			p.want = truthy[strings.ToLower(value)]
		case opID:
			id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("filtro de id inválido: %q", value)
			}
			p.id = id
		case opAmount:
			op, amount, err := parseAmountFilter(value)
			if err != nil {
				return nil, err
			}
			p.op = op
			p.amount = amount
		}
		ps.preds = append(ps.preds, p)
	}
	return ps, nil
}

// parseAmountFilter strips an optional >=, <=, > or < prefix and parses
// the remainder as a decimal amount. A comma decimal separator is
// accepted alongside the dot.
func parseAmountFilter(value string) (cmpOp, decimal.Decimal, error) {
	op := cmpEq
	v := strings.TrimSpace(value)
	for _, ap := range amountPrefixes {
		if strings.HasPrefix(v, ap.prefix) {
			op = ap.op
			v = strings.TrimSpace(v[len(ap.prefix):])
			break
		}
	}
	v = strings.ReplaceAll(v, ",", ".")
	amount, err := decimal.NewFromString(v)
	if err != nil {
		return 0, decimal.Decimal{}, fmt.Errorf("filtro de valor inválido: %q", value)
	}
	return op, amount, nil
}

// Len returns the number of compiled predicates.
func (ps *Predicates) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.preds)
}

// Match evaluates the predicate set against a record in memory.
// Amounts are decimal-backed, so equality is exact.
func (ps *Predicates) Match(p model.Payment) bool {
	if ps == nil {
		return true
	}
	for _, pr := range ps.preds {
		if !pr.match(p) {
			return false
		}
	}
	return true
}

func (pr predicate) match(p model.Payment) bool {
	switch pr.class {
	case opSubstring:
		stored := strings.ToLower(textValue(p, pr.field))
		return strings.Contains(stored, strings.ToLower(pr.text))
	case opBoolean:
		return p.Pending == pr.want
	case opID:
		return p.ID == pr.id
	case opAmount:
		c := p.Amount.Cmp(pr.amount)
		switch pr.op {
		case cmpGt:
			return c > 0
		case cmpLt:
			return c < 0
		case cmpGe:
			return c >= 0
		case cmpLe:
			return c <= 0
		default:
			return c == 0
		}
	}
	return true
}

// textValue resolves a substring-class field to its stored value
// through a closed accessor switch, never dynamic attribute lookup.
func textValue(p model.Payment, field string) string {
	switch field {
	case FieldCategory:
		return p.Category
	case FieldPayee:
		return p.Payee
	case FieldDate:
		return p.Date
	case FieldAccount:
		return p.Account
	case FieldOwedTo:
		return p.OwedTo
	case FieldReceipt:
		return p.ReceiptRef
	case FieldNote:
		return p.Note
	}
	return ""
}

// SQL translates the predicate set into AND-composable condition
// fragments plus bound parameters for the SQLite backend. Substring
// matching lowers both sides inside SQLite, which is ASCII-only case
// folding; amounts compare against the integer cents column, so
// equality is exact.
func (ps *Predicates) SQL() (conds []string, args []any) {
	if ps == nil {
		return nil, nil
	}
	for _, pr := range ps.preds {
		switch pr.class {
		case opSubstring:
			conds = append(conds, fmt.Sprintf("instr(lower(%s), lower(?)) > 0", columnOf(pr.field)))
			args = append(args, pr.text)
		case opBoolean:
			conds = append(conds, "pending = ?")
			args = append(args, boolToInt(pr.want))
		case opID:
			conds = append(conds, "id = ?")
			args = append(args, pr.id)
		case opAmount:
			conds = append(conds, fmt.Sprintf("amount_cents %s ?", sqlCmp(pr.op)))
			args = append(args, centsArg(pr.amount))
		}
	}
	return conds, args
}

func sqlCmp(op cmpOp) string {
	switch op {
	case cmpGt:
		return ">"
	case cmpLt:
		return "<"
	case cmpGe:
		return ">="
	case cmpLe:
		return "<="
	default:
		return "="
	}
}

// centsArg converts a decimal amount to its cents value for binding
// against the amount_cents column. Sub-cent filter values keep their
// fraction so comparisons stay faithful (equality on them simply
// matches nothing).
func centsArg(d decimal.Decimal) any {
	cents := d.Shift(2)
	if cents.IsInteger() {
		return cents.IntPart()
	}
	return cents.InexactFloat64()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// columnOf maps a canonical field to its payments-table column.
func columnOf(field string) string {
	if field == FieldAmount {
		return "amount_cents"
	}
	return field
}

// OrderBy returns the ORDER BY clause for the directive. Dates stored
// as DD/MM/YYYY are rewritten to YYYYMMDD inside SQLite so they sort
// chronologically, and ascending id is always the final tiebreak.
func (s Sort) OrderBy() string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	var expr string
	switch s.Field {
	case FieldDate:
		expr = "substr(payment_date, 7, 4) || substr(payment_date, 4, 2) || substr(payment_date, 1, 2)"
	case FieldAmount:
		expr = "amount_cents"
	case FieldID:
		return "id " + dir
	default:
		expr = columnOf(s.Field) + " COLLATE NOCASE"
	}
	return fmt.Sprintf("%s %s, id ASC", expr, dir)
}

// SortPayments orders a slice in place per the directive, for the
// in-memory evaluation path. Ties on the sort key break by ascending
// id regardless of direction.
func SortPayments(payments []model.Payment, s Sort) {
	sort.SliceStable(payments, func(i, j int) bool {
		c := comparePayments(payments[i], payments[j], s.Field)
		if s.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return payments[i].ID < payments[j].ID
	})
}

func comparePayments(a, b model.Payment, field string) int {
	switch field {
	case FieldID:
		return compareInt64(a.ID, b.ID)
	case FieldAmount:
		return a.Amount.Cmp(b.Amount)
	case FieldDate:
		return strings.Compare(model.DateSortKey(a.Date), model.DateSortKey(b.Date))
	default:
		return strings.Compare(
			strings.ToLower(textValue(a, field)),
			strings.ToLower(textValue(b, field)),
		)
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
