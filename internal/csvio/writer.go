package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	pserrors "github.com/systmms/paramstore/internal/errors"
	"github.com/systmms/paramstore/internal/store"
)

var exportHeader = []string{
	"Name", "Value", "Type", "Tier", "KeyId", "LastModifiedDate", "Version", "Description",
}

// WriteFile exports parameters to a CSV file at path, creating or
// truncating it.
func WriteFile(path string, params []store.Parameter) error {
	f, err := os.Create(path)
	if err != nil {
		return pserrors.UserError{
			Message:    fmt.Sprintf("Cannot create export file: %s", path),
			Suggestion: "Check that the directory exists and is writable",
			Err:        err,
		}
	}
	if err := Write(f, params); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write exports parameters as CSV, header first, in input order.
func Write(dst io.Writer, params []store.Parameter) error {
	cw := csv.NewWriter(dst)

	if err := cw.Write(exportHeader); err != nil {
		return pserrors.UserError{Message: "Cannot write CSV header", Err: err}
	}

	for _, p := range params {
		modified := ""
		if !p.LastModified.IsZero() {
			modified = p.LastModified.UTC().Format("2006-01-02 15:04:05")
		}
		record := []string{
			p.Name,
			p.Value,
			string(p.Kind),
			string(p.Tier),
			p.KeyID,
			modified,
			strconv.FormatInt(p.Version, 10),
			p.Description,
		}
		if err := cw.Write(record); err != nil {
			return pserrors.UserError{
				Message: fmt.Sprintf("Cannot write CSV record for %s", p.Name),
				Err:     err,
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
