// Package service enforces the payment lifecycle rules: validation and
// defaulting at creation, clear-field semantics during edit, the
// soft-delete preconditions, and receipt association.
package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"pagto/pkg/model"
	"pagto/pkg/receipt"
	"pagto/pkg/store"
)

// ClearSentinel is the reserved edit input that erases an optional
// text field. It is distinct from leaving a flag unset, which keeps
// the stored value.
const ClearSentinel = "-"

// ErrDeleted is returned when an operation targets a soft-deleted
// record that may not be touched (editing in particular).
var ErrDeleted = errors.New("pagamento está deletado")

// PaymentService coordinates the store and the receipt collaborator.
type PaymentService struct {
	store    *store.PaymentStore
	receipts *receipt.Store
}

// New creates a PaymentService.
func New(st *store.PaymentStore, receipts *receipt.Store) *PaymentService {
	return &PaymentService{store: st, receipts: receipts}
}

// CreateInput carries the fields of a new payment. Date is optional
// and defaults to today; ReceiptPath, when set, is a source file to
// attach.
type CreateInput struct {
	Category    string
	Payee       string
	Account     string
	Amount      decimal.Decimal
	Date        string
	OwedTo      string
	Pending     bool
	Note        string
	ReceiptPath string
}

// CreateResult reports the assigned id and the receipt outcome.
// ReceiptWarning is non-nil when the attachment copy failed; the
// record was still saved, just without a receipt reference.
type CreateResult struct {
	ID             int64
	ReceiptRef     string
	ReceiptWarning error
}

// Create validates and persists a new payment. Defaults: today's date,
// pending false, deleted false, optional text fields empty.
func (s *PaymentService) Create(in CreateInput) (CreateResult, error) {
	if err := validateRequired(in.Category, in.Payee, in.Account); err != nil {
		return CreateResult{}, err
	}
	if in.Amount.IsNegative() {
		return CreateResult{}, fmt.Errorf("valor não pode ser negativo: %s", in.Amount)
	}
	date := in.Date
	if date == "" {
		date = model.Today()
	} else if !model.ValidDate(date) {
		return CreateResult{}, fmt.Errorf("data inválida (use DD/MM/AAAA): %q", in.Date)
	}

	id, err := s.store.Insert(model.Payment{
		Category: in.Category,
		Payee:    in.Payee,
		Date:     date,
		Account:  in.Account,
		Amount:   in.Amount,
		OwedTo:   in.OwedTo,
		Pending:  in.Pending,
		Note:     in.Note,
	})
	if err != nil {
		return CreateResult{}, err
	}

	result := CreateResult{ID: id}
	if in.ReceiptPath != "" {
		ref, warn := s.attach(id, in.Payee, in.Amount, in.ReceiptPath)
		result.ReceiptRef = ref
		result.ReceiptWarning = warn
	}
	return result, nil
}

// EditInput carries a partial edit. Nil pointers keep the stored
// value. For OwedTo, Note and ReceiptPath the ClearSentinel value
// erases the field instead.
type EditInput struct {
	Category    *string
	Payee       *string
	Account     *string
	Date        *string
	Amount      *decimal.Decimal
	OwedTo      *string
	Pending     *bool
	Note        *string
	ReceiptPath *string
}

// EditResult reports whether anything was applied and the receipt
// outcome, mirroring CreateResult.
type EditResult struct {
	Updated        bool
	ReceiptRef     string
	ReceiptWarning error
}

// Edit applies a partial update to an existing record. Unsupplied
// fields keep their previous value. Editing a soft-deleted record is
// rejected with ErrDeleted before the store is touched. A zero-field
// edit is a no-op reporting Updated=false.
func (s *PaymentService) Edit(id int64, in EditInput) (EditResult, error) {
	current, found, err := s.store.GetByID(id)
	if err != nil {
		return EditResult{}, err
	}
	if !found {
		return EditResult{}, nil
	}
	if current.Deleted {
		return EditResult{}, ErrDeleted
	}

	u := model.FieldUpdate{
		Category: in.Category,
		Payee:    in.Payee,
		Account:  in.Account,
		Pending:  in.Pending,
		Amount:   in.Amount,
	}
	if err := validateEdit(in); err != nil {
		return EditResult{}, err
	}
	if in.Date != nil {
		u.Date = in.Date
	}
	u.OwedTo = resolveClear(in.OwedTo)
	u.Note = resolveClear(in.Note)

	result := EditResult{}
	if in.ReceiptPath != nil {
		if *in.ReceiptPath == ClearSentinel {
			empty := ""
			u.ReceiptRef = &empty
		} else if *in.ReceiptPath != "" {
			// The reference name uses the post-edit payee and amount.
			payee := current.Payee
			if in.Payee != nil {
				payee = *in.Payee
			}
			amount := current.Amount
			if in.Amount != nil {
				amount = *in.Amount
			}
			ref, warn := s.attach(id, payee, amount, *in.ReceiptPath)
			result.ReceiptRef = ref
			result.ReceiptWarning = warn
		}
	}

	updated, err := s.store.Update(id, u)
	if err != nil {
		return EditResult{}, err
	}
	// A successful attach already persisted its reference, which counts
	// as an applied change even when no other field was supplied.
	result.Updated = updated || result.ReceiptRef != ""
	return result, nil
}

// DeleteOutcome is the result of a soft-delete request.
type DeleteOutcome int

const (
	DeleteOK DeleteOutcome = iota
	DeleteNotFound
	DeleteAlreadyDeleted
)

// Delete soft-deletes a record. Re-deleting an already deleted record
// is reported as a distinct outcome, not an error.
func (s *PaymentService) Delete(id int64) (DeleteOutcome, error) {
	p, found, err := s.store.GetByID(id)
	if err != nil {
		return DeleteNotFound, err
	}
	if !found {
		return DeleteNotFound, nil
	}
	if p.Deleted {
		return DeleteAlreadyDeleted, nil
	}
	if _, err := s.store.SoftDelete(id); err != nil {
		return DeleteNotFound, err
	}
	return DeleteOK, nil
}

// attach copies the source file under its derived reference name. On
// failure the record keeps an empty reference and the error surfaces
// as a warning only.
func (s *PaymentService) attach(id int64, payee string, amount decimal.Decimal, srcPath string) (string, error) {
	ref := receipt.RefName(id, payee, amount, srcPath)
	if err := s.receipts.Save(srcPath, ref); err != nil {
		slog.Warn("Failed to store receipt", "payment_id", id, "source", srcPath, "error", err)
		return "", err
	}
	// Only reference the attachment once the copy has succeeded.
	if _, err := s.store.Update(id, model.FieldUpdate{ReceiptRef: &ref}); err != nil {
		slog.Warn("Failed to record receipt reference", "payment_id", id, "error", err)
		return "", err
	}
	return ref, nil
}

func validateRequired(category, payee, account string) error {
	switch {
	case category == "":
		return errors.New("categoria é obrigatória")
	case payee == "":
		return errors.New("beneficiário é obrigatório")
	case account == "":
		return errors.New("conta é obrigatória")
	}
	return nil
}

func validateEdit(in EditInput) error {
	if in.Category != nil && *in.Category == "" {
		return errors.New("categoria é obrigatória")
	}
	if in.Payee != nil && *in.Payee == "" {
		return errors.New("beneficiário é obrigatório")
	}
	if in.Account != nil && *in.Account == "" {
		return errors.New("conta é obrigatória")
	}
	if in.Amount != nil && in.Amount.IsNegative() {
		return fmt.Errorf("valor não pode ser negativo: %s", *in.Amount)
	}
	if in.Date != nil && !model.ValidDate(*in.Date) {
		return fmt.Errorf("data inválida (use DD/MM/AAAA): %q", *in.Date)
	}
	return nil
}

// resolveClear maps the clear sentinel to an explicit empty value and
// passes everything else through unchanged.
func resolveClear(v *string) *string {
	if v != nil && *v == ClearSentinel {
		empty := ""
		return &empty
	}
	return v
}
