package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// legacyImportKey is the metadata marker gating the one-time import of
// the flat-file generation of the data.
const legacyImportKey = "legacy_import"

// legacy CSV column names, across both flat-file generations. The
// oldest generation lacks id, pendente, deletado, comprovante and
// observacao entirely.
const (
	colID       = "id"
	colCategory = "categoria"
	colPayee    = "beneficiario"
	colDate     = "data_pagamento"
	colAccount  = "conta"
	colAmount   = "valor"
	colOwedTo   = "devendo_para"
	colPending  = "pendente"
	colDeleted  = "deletado"
	colReceipt  = "comprovante"
	colNote     = "observacao"
)

// ImportLegacyCSV migrates the legacy flat-file store at path into the
// database. It runs at most once: a metadata marker is written in the
// same transaction as the imported rows, so calling it again (or on a
// store that never had a flat file) is a no-op. Missing ids are
// backfilled 1-based in file order and missing columns default to
// false/empty. Malformed rows are logged and skipped rather than
// aborting the whole import.
//
// Returns the number of rows imported.
func (s *PaymentStore) ImportLegacyCSV(path string) (int, error) {
	done, err := s.GetMetadata(legacyImportKey)
	if err != nil {
		return 0, err
	}
	if done != "" {
		return 0, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open legacy file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // legacy rows are not always rectangular

	header, err := reader.Read()
	if err == io.EOF {
		return 0, s.SetMetadata(legacyImportKey, "done")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read legacy header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns[colCategory]; !ok {
		return 0, fmt.Errorf("unrecognized legacy file: no %q column in %s", colCategory, path)
	}

	imported := 0
	err = s.conn.Transaction(func(tx *sql.Tx) error {
		rowNum := 0
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				slog.Warn("Skipping unreadable legacy row", "row", rowNum+1, "error", err)
				continue
			}
			rowNum++

			field := func(name string) string {
				i, ok := columns[name]
				if !ok || i >= len(record) {
					return ""
				}
				return strings.TrimSpace(record[i])
			}

			// Backfill missing ids sequentially in file order.
			id, err := strconv.ParseInt(field(colID), 10, 64)
			if err != nil {
				id = int64(rowNum)
			}

			amountText := strings.ReplaceAll(field(colAmount), ",", ".")
			amount, err := decimal.NewFromString(amountText)
			if err != nil {
				slog.Warn("Skipping legacy row with malformed amount",
					"row", rowNum, "amount", field(colAmount))
				continue
			}

			_, err = tx.Exec(`
				INSERT INTO payments
					(id, category, payee, payment_date, account, amount_cents, owed_to, pending, deleted, receipt_ref, note)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id,
				field(colCategory),
				field(colPayee),
				field(colDate),
				field(colAccount),
				toCents(amount),
				field(colOwedTo),
				boolToInt(field(colPending) == "1"),
				boolToInt(field(colDeleted) == "1"),
				field(colReceipt),
				field(colNote),
			)
			if err != nil {
				slog.Warn("Skipping legacy row that failed to insert", "row", rowNum, "id", id, "error", err)
				continue
			}
			imported++
		}

		_, err := tx.Exec(`
			INSERT INTO pagto_metadata (key, value, updated_at)
			VALUES (?, 'done', CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = 'done', updated_at = CURRENT_TIMESTAMP`,
			legacyImportKey,
		)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("legacy import failed: %w", err)
	}

	slog.Info("Imported legacy payment file", "path", path, "rows", imported)
	return imported, nil
}
