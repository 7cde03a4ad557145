// Package csvio reads upload manifests and writes export files in the
// CSV dialect the store works with.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	pserrors "github.com/systmms/paramstore/internal/errors"
	"github.com/systmms/paramstore/internal/logging"
	"github.com/systmms/paramstore/internal/store"
)

// Upload manifests require key, value and type columns. tier and kms
// are optional; anything else is ignored. Export-dialect headers
// (Name, KeyId) are accepted as aliases so an exported file can be
// uploaded back.
var requiredColumns = []string{"key", "value", "type"}

var columnAliases = map[string]string{
	"name":  "key",
	"keyid": "kms",
}

// Reader parses upload manifests. Malformed rows are warned about and
// dropped rather than failing the whole file.
type Reader struct {
	logger *logging.Logger
}

func NewReader(logger *logging.Logger) *Reader {
	if logger == nil {
		logger = logging.New(false, false)
	}
	return &Reader{logger: logger}
}

// ReadFile parses the manifest at path into parameters ready for upload.
func (r *Reader) ReadFile(path string) ([]store.Parameter, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pserrors.UserError{
				Message:    fmt.Sprintf("CSV file not found: %s", path),
				Suggestion: "Check the file path and try again",
				Err:        err,
			}
		}
		return nil, pserrors.UserError{
			Message: fmt.Sprintf("Cannot open CSV file: %s", path),
			Err:     err,
		}
	}
	defer f.Close()

	return r.Read(f)
}

// Read parses a manifest from an arbitrary source.
func (r *Reader) Read(src io.Reader) ([]store.Parameter, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, pserrors.UserError{
			Message:    "CSV file is empty",
			Suggestion: "The first row must be a header containing key, value and type columns",
		}
	}
	if err != nil {
		return nil, pserrors.UserError{Message: "Cannot read CSV header", Err: err}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		col := strings.ToLower(strings.TrimSpace(name))
		if alias, ok := columnAliases[col]; ok {
			col = alias
		}
		if _, taken := cols[col]; !taken {
			cols[col] = i
		}
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, pserrors.UserError{
				Message:    fmt.Sprintf("CSV is missing the '%s' column", required),
				Details:    fmt.Sprintf("required columns: %s", strings.Join(requiredColumns, ", ")),
				Suggestion: "Add a header row like: key,value,type,tier,kms",
			}
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var params []store.Parameter
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pserrors.UserError{
				Message: fmt.Sprintf("Malformed CSV at line %d", line),
				Err:     err,
			}
		}

		key := field(record, "key")
		value := field(record, "value")
		if key == "" || value == "" {
			r.logger.Warn("Skipping row %d: missing key or value", line)
			continue
		}

		kind, ok := store.ParseKind(field(record, "type"))
		if !ok {
			r.logger.Warn("Invalid type '%s' for %s, defaulting to String", field(record, "type"), key)
		}
		tier, ok := store.ParseTier(field(record, "tier"))
		if !ok {
			r.logger.Warn("Invalid tier '%s' for %s, defaulting to Standard", field(record, "tier"), key)
		}

		params = append(params, store.Parameter{
			Name:  key,
			Value: value,
			Kind:  kind,
			Tier:  tier,
			KeyID: field(record, "kms"),
		})
	}

	return params, nil
}
