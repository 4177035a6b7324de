package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/model"
)

// WriteFile writes recs to path, replacing any existing file. A failed write
// may leave a partial file behind.
func WriteFile(path string, recs []model.Record, opts Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating output dir: %w", common.ErrIO, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", common.ErrIO, path, err)
	}
	if err := WriteRecords(f, recs, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", common.ErrIO, path, err)
	}
	return nil
}

// ReadFile reads the ledger at path.
func ReadFile(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: ledger %s does not exist", common.ErrIO, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: opening ledger %s: %w", common.ErrIO, path, err)
	}
	defer f.Close()

	recs, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return recs, nil
}
