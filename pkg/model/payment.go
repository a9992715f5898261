// Package model defines the payment record shared by the store, the
// filter engine, and the lifecycle layer.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the user-visible calendar date form (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// Payment is a single payment record.
//
// ID is assigned by the store on insert and never changes afterwards.
// Deleted is a soft-delete tombstone: the row is kept forever and only
// hidden from default listings.
type Payment struct {
	ID         int64
	Category   string
	Payee      string
	Date       string // DD/MM/YYYY
	Account    string
	Amount     decimal.Decimal
	OwedTo     string
	Pending    bool
	Deleted    bool
	ReceiptRef string
	Note       string
}

// FieldUpdate describes a partial update. Nil pointers leave the stored
// value unchanged; the ID is deliberately not part of the set.
type FieldUpdate struct {
	Category   *string
	Payee      *string
	Date       *string
	Account    *string
	Amount     *decimal.Decimal
	OwedTo     *string
	Pending    *bool
	ReceiptRef *string
	Note       *string
}

// Empty reports whether the update carries no fields at all.
func (u FieldUpdate) Empty() bool {
	return u.Category == nil && u.Payee == nil && u.Date == nil &&
		u.Account == nil && u.Amount == nil && u.OwedTo == nil &&
		u.Pending == nil && u.ReceiptRef == nil && u.Note == nil
}

// Today returns the current date in DateLayout form.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ValidDate reports whether s parses as a DD/MM/YYYY calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DateSortKey rewrites a DD/MM/YYYY date as YYYYMMDD so that plain
// string comparison orders dates chronologically. Values that do not
// have the expected shape are returned unchanged and therefore sort
// before well-formed dates.
func DateSortKey(s string) string {
	if len(s) == 10 && s[2] == '/' && s[5] == '/' {
		return s[6:] + s[3:5] + s[:2]
	}
	return s
}
