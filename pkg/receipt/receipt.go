// Package receipt stores payment attachments under stable derived
// names inside the receipts directory.
package receipt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// maxPayeeLen caps the sanitized payee portion of a reference name.
const maxPayeeLen = 30

// Store copies attachment files into a directory, keyed by their
// derived reference name.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created
// lazily on the first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the receipts directory.
func (s *Store) Dir() string {
	return s.dir
}

// RefName derives the stable reference name for an attachment:
// {id}_{sanitizedPayee}_{roundedAmount}{extension}. The payee is
// reduced to alphanumerics, spaces, hyphens and underscores, spaces
// become underscores, and the result is truncated to 30 characters.
func RefName(id int64, payee string, amount decimal.Decimal, srcPath string) string {
	ext := filepath.Ext(srcPath)
	rounded := amount.Round(0).IntPart()
	return fmt.Sprintf("%d_%s_%d%s", id, sanitizePayee(payee), rounded, ext)
}

// Save copies the file at srcPath into the store under refName. The
// caller treats failure as a warning: the owning record operation
// still succeeds without a receipt reference.
func (s *Store) Save(srcPath, refName string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open receipt source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat receipt source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("receipt source is a directory: %s", srcPath)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create receipts directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.dir, refName))
	if err != nil {
		return fmt.Errorf("failed to create receipt file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy receipt: %w", err)
	}
	return nil
}

// Path returns the absolute location of a stored reference.
func (s *Store) Path(refName string) string {
	return filepath.Join(s.dir, refName)
}

// sanitizePayee keeps letters, digits, spaces, hyphens and
// underscores, converts spaces to underscores, and truncates to
// maxPayeeLen characters.
func sanitizePayee(payee string) string {
	var b strings.Builder
	for _, r := range payee {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	runes := []rune(cleaned)
	if len(runes) > maxPayeeLen {
		runes = runes[:maxPayeeLen]
	}
	return string(runes)
}
