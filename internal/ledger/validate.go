package ledger

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/model"
)

// ValidationError describes one structural problem with a record.
type ValidationError struct {
	Index       int // position in the assembled ledger
	Date        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("record %d [%s]: %s", e.Index+1, e.Date, e.Description)
}

// ValidationErrors is the full set of problems found in one pass.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, ve := range v {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("%d invalid records: %s", len(v), strings.Join(msgs, "; "))
}

func (v ValidationErrors) Unwrap() error {
	return common.ErrValidation
}

// ValidateRecords checks every record and returns all problems found.
// Each check runs independently, so one record may contribute several errors.
func ValidateRecords(recs []model.Record) ValidationErrors {
	var errs ValidationErrors
	for i, rec := range recs {
		if !rec.Type.Valid() {
			errs = append(errs, ValidationError{
				Index:       i,
				Date:        rec.Date,
				Description: fmt.Sprintf("unknown type %q", rec.Type),
			})
		}
		if rec.Account1 == "" {
			errs = append(errs, ValidationError{
				Index:       i,
				Date:        rec.Date,
				Description: "missing account1",
			})
		}
		if rec.Type == model.TypeTransfer && rec.Account2 == "" {
			errs = append(errs, ValidationError{
				Index:       i,
				Date:        rec.Date,
				Description: "transfer missing account2",
			})
		}
	}
	return errs
}
