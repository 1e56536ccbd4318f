// Package exporter copies matched documents into an export directory
// under their voucher number, so the files can be handed to the
// accountant as voucher0953.pdf instead of invoice123.pdf.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/bilag-dev/bilag/internal/match"
)

// Service copies matched documents from the document directory into the
// export directory.
type Service struct {
	sourceDir string
	destDir   string
	log       *zap.Logger
}

// NewService creates an exporter.
func NewService(sourceDir, destDir string, log *zap.Logger) *Service {
	return &Service{sourceDir: sourceDir, destDir: destDir, log: log}
}

// Export copies the first document of every matched voucher, renamed to
// voucher<NNNN> with the original extension. Missing source files and
// non-numeric voucher IDs are skipped with a warning. Returns the number
// of files copied.
func (s *Service) Export(m match.MatchSet) (int, error) {
	if err := os.MkdirAll(s.destDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating export dir: %w", err)
	}

	copied := 0
	for _, voucherID := range m.VoucherIDs() {
		docs := m[voucherID]
		if len(docs) == 0 {
			continue
		}

		name, err := exportName(voucherID, docs[0])
		if err != nil {
			s.log.Warn("skipping voucher with non-numeric id",
				zap.String("voucher", voucherID))
			continue
		}

		src := filepath.Join(s.sourceDir, docs[0])
		dst := filepath.Join(s.destDir, name)
		if err := copyFile(src, dst); err != nil {
			if os.IsNotExist(err) {
				s.log.Warn("skipping missing document",
					zap.String("voucher", voucherID), zap.String("document", docs[0]))
				continue
			}
			return copied, fmt.Errorf("exporting voucher %s: %w", voucherID, err)
		}

		s.log.Info("exported document",
			zap.String("voucher", voucherID),
			zap.String("document", docs[0]),
			zap.String("as", name))
		copied++
	}
	return copied, nil
}

// exportName builds voucher<NNNN><ext> from a voucher ID and the
// original document filename.
func exportName(voucherID, document string) (string, error) {
	n, err := strconv.Atoi(voucherID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("voucher%04d%s", n, filepath.Ext(document)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
