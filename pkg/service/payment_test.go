package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"pagto/pkg/db"
	"pagto/pkg/model"
	"pagto/pkg/receipt"
	"pagto/pkg/store"
)

func newTestService(t *testing.T) (*PaymentService, *store.PaymentStore, *receipt.Store) {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	st := store.New(conn)
	receipts := receipt.NewStore(filepath.Join(dir, "comprovantes"))
	return New(st, receipts), st, receipts
}

func writeSourceFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
	return path
}

func validInput() CreateInput {
	return CreateInput{
		Category: "Mercado",
		Payee:    "Extra",
		Account:  "Nubank",
		Amount:   decimal.RequireFromString("80.00"),
	}
}

func strptr(s string) *string { return &s }

func TestCreateDefaults(t *testing.T) {
	svc, st, _ := newTestService(t)

	res, err := svc.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if res.ID != 1 {
		t.Errorf("ID = %d, expected 1", res.ID)
	}

	p, found, err := st.GetByID(res.ID)
	if err != nil || !found {
		t.Fatalf("GetByID = found=%v, err=%v", found, err)
	}
	if p.Date != model.Today() {
		t.Errorf("Date = %q, expected today's date", p.Date)
	}
	if p.Pending || p.Deleted {
		t.Errorf("new record should default to paid and not deleted: %+v", p)
	}
	if p.OwedTo != "" || p.Note != "" || p.ReceiptRef != "" {
		t.Errorf("optional fields should default empty: %+v", p)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty category", func(in *CreateInput) { in.Category = "" }},
		{"empty payee", func(in *CreateInput) { in.Payee = "" }},
		{"empty account", func(in *CreateInput) { in.Account = "" }},
		{"negative amount", func(in *CreateInput) { in.Amount = decimal.RequireFromString("-1") }},
		{"malformed date", func(in *CreateInput) { in.Date = "2024-01-10" }},
		{"impossible date", func(in *CreateInput) { in.Date = "32/01/2024" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := svc.Create(in); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	t.Run("zero amount is allowed", func(t *testing.T) {
		in := validInput()
		in.Amount = decimal.Zero
		if _, err := svc.Create(in); err != nil {
			t.Errorf("Create with zero amount failed: %v", err)
		}
	})
}

func TestCreateWithReceipt(t *testing.T) {
	svc, st, receipts := newTestService(t)

	src := writeSourceFile(t, "nota.pdf", "pdf bytes")
	in := validInput()
	in.ReceiptPath = src

	res, err := svc.Create(in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if res.ReceiptWarning != nil {
		t.Fatalf("unexpected receipt warning: %v", res.ReceiptWarning)
	}
	if res.ReceiptRef != "1_Extra_80.pdf" {
		t.Errorf("ReceiptRef = %q, expected 1_Extra_80.pdf", res.ReceiptRef)
	}

	p, _, _ := st.GetByID(res.ID)
	if p.ReceiptRef != res.ReceiptRef {
		t.Errorf("stored ref = %q, expected %q", p.ReceiptRef, res.ReceiptRef)
	}
	if _, err := os.Stat(receipts.Path(res.ReceiptRef)); err != nil {
		t.Errorf("receipt copy missing: %v", err)
	}
}

func TestCreateReceiptFailureIsAWarning(t *testing.T) {
	svc, st, _ := newTestService(t)

	in := validInput()
	in.ReceiptPath = filepath.Join(t.TempDir(), "nope.pdf")

	res, err := svc.Create(in)
	if err != nil {
		t.Fatalf("the record itself should still be created: %v", err)
	}
	if res.ReceiptWarning == nil {
		t.Error("expected a receipt warning for a missing source file")
	}
	if res.ReceiptRef != "" {
		t.Errorf("ReceiptRef = %q, expected empty after failed copy", res.ReceiptRef)
	}

	p, found, _ := st.GetByID(res.ID)
	if !found || p.ReceiptRef != "" {
		t.Errorf("record should exist with empty receipt_ref: found=%v %+v", found, p)
	}
}

func TestEditPartialAndClear(t *testing.T) {
	svc, st, _ := newTestService(t)

	in := validInput()
	in.OwedTo = "Maria"
	in.Note = "dividido"
	res, err := svc.Create(in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("unset flags keep stored values", func(t *testing.T) {
		out, err := svc.Edit(res.ID, EditInput{Category: strptr("Feira")})
		if err != nil || !out.Updated {
			t.Fatalf("Edit = %+v, %v", out, err)
		}
		p, _, _ := st.GetByID(res.ID)
		if p.Category != "Feira" || p.OwedTo != "Maria" || p.Note != "dividido" {
			t.Errorf("after edit = %+v", p)
		}
	})

	t.Run("clear sentinel erases optional fields", func(t *testing.T) {
		out, err := svc.Edit(res.ID, EditInput{OwedTo: strptr(ClearSentinel), Note: strptr(ClearSentinel)})
		if err != nil || !out.Updated {
			t.Fatalf("Edit = %+v, %v", out, err)
		}
		p, _, _ := st.GetByID(res.ID)
		if p.OwedTo != "" || p.Note != "" {
			t.Errorf("fields not cleared: %+v", p)
		}
	})

	t.Run("literal dash is never stored as a value", func(t *testing.T) {
		p, _, _ := st.GetByID(res.ID)
		if p.OwedTo == ClearSentinel || p.Note == ClearSentinel {
			t.Errorf("clear sentinel leaked into storage: %+v", p)
		}
	})
}

func TestEditValidation(t *testing.T) {
	svc, st, _ := newTestService(t)
	res, err := svc.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	bad := decimal.RequireFromString("-5")
	tests := []struct {
		name string
		in   EditInput
	}{
		{"empty category", EditInput{Category: strptr("")}},
		{"empty payee", EditInput{Payee: strptr("")}},
		{"negative amount", EditInput{Amount: &bad}},
		{"malformed date", EditInput{Date: strptr("10-01-2024")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Edit(res.ID, tt.in); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	p, _, _ := st.GetByID(res.ID)
	if p.Category != "Mercado" {
		t.Errorf("rejected edit must not change the record: %+v", p)
	}
}

func TestEditMissingAndEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	res, err := svc.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("unknown id reports not updated", func(t *testing.T) {
		out, err := svc.Edit(9999, EditInput{Category: strptr("x")})
		if err != nil || out.Updated {
			t.Errorf("Edit(9999) = %+v, %v, expected not updated, nil", out, err)
		}
	})

	t.Run("zero-field edit reports not updated", func(t *testing.T) {
		out, err := svc.Edit(res.ID, EditInput{})
		if err != nil || out.Updated {
			t.Errorf("empty edit = %+v, %v, expected not updated, nil", out, err)
		}
	})
}

func TestEditDeletedIsRejected(t *testing.T) {
	svc, st, _ := newTestService(t)
	res, err := svc.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if outcome, err := svc.Delete(res.ID); err != nil || outcome != DeleteOK {
		t.Fatalf("Delete = %v, %v", outcome, err)
	}

	_, err = svc.Edit(res.ID, EditInput{Category: strptr("x")})
	if !errors.Is(err, ErrDeleted) {
		t.Errorf("Edit on deleted record: err = %v, expected ErrDeleted", err)
	}

	p, _, _ := st.GetByID(res.ID)
	if p.Category != "Mercado" {
		t.Errorf("deleted record was modified: %+v", p)
	}
}

func TestEditReceipt(t *testing.T) {
	svc, st, _ := newTestService(t)
	res, err := svc.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("attach after the fact", func(t *testing.T) {
		src := writeSourceFile(t, "nota.png", "png bytes")
		out, err := svc.Edit(res.ID, EditInput{ReceiptPath: &src})
		if err != nil {
			t.Fatalf("Edit failed: %v", err)
		}
		if !out.Updated {
			t.Error("receipt-only edit should report updated")
		}
		if out.ReceiptRef != "1_Extra_80.png" {
			t.Errorf("ReceiptRef = %q", out.ReceiptRef)
		}
		p, _, _ := st.GetByID(res.ID)
		if p.ReceiptRef != out.ReceiptRef {
			t.Errorf("stored ref = %q", p.ReceiptRef)
		}
	})

	t.Run("clear sentinel detaches", func(t *testing.T) {
		out, err := svc.Edit(res.ID, EditInput{ReceiptPath: strptr(ClearSentinel)})
		if err != nil || !out.Updated {
			t.Fatalf("Edit = %+v, %v", out, err)
		}
		p, _, _ := st.GetByID(res.ID)
		if p.ReceiptRef != "" {
			t.Errorf("ReceiptRef = %q, expected empty", p.ReceiptRef)
		}
	})

	t.Run("reference uses post-edit payee and amount", func(t *testing.T) {
		src := writeSourceFile(t, "nota.jpg", "jpg bytes")
		amount := decimal.RequireFromString("120.40")
		out, err := svc.Edit(res.ID, EditInput{
			Payee:       strptr("Casa do Pão"),
			Amount:      &amount,
			ReceiptPath: &src,
		})
		if err != nil {
			t.Fatalf("Edit failed: %v", err)
		}
		if out.ReceiptRef != "1_Casa_do_Pão_120.jpg" {
			t.Errorf("ReceiptRef = %q", out.ReceiptRef)
		}
	})
}

func TestDeleteOutcomes(t *testing.T) {
	svc, _, _ := newTestService(t)
	res, err := svc.Create(validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if outcome, err := svc.Delete(9999); err != nil || outcome != DeleteNotFound {
		t.Errorf("Delete(9999) = %v, %v, expected DeleteNotFound", outcome, err)
	}
	if outcome, err := svc.Delete(res.ID); err != nil || outcome != DeleteOK {
		t.Errorf("Delete = %v, %v, expected DeleteOK", outcome, err)
	}
	if outcome, err := svc.Delete(res.ID); err != nil || outcome != DeleteAlreadyDeleted {
		t.Errorf("second Delete = %v, %v, expected DeleteAlreadyDeleted", outcome, err)
	}
}
