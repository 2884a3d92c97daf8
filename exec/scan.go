package exec

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cast"

	"github.com/asaidimu/go-requery/core/schema"
)

// scanRows drains a result set into generic documents. Column values are
// normalized so drivers that hand back raw byte slices still produce
// plain Go values.
func scanRows(rows *sql.Rows) ([]schema.Document, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("could not read result columns: %w", err)
	}

	var documents []schema.Document
	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("row scan failed: %w", err)
		}
		document := make(schema.Document, len(columns))
		for i, name := range columns {
			document[name] = normalizeValue(values[i])
		}
		documents = append(documents, document)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return documents, nil
}

// normalizeValue maps driver-specific representations to plain Go values.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return cast.ToString(v)
	default:
		return v
	}
}

// ToInt64 coerces a document value to int64, covering the numeric types
// different drivers return for integer columns.
func ToInt64(value any) (int64, error) {
	result, err := cast.ToInt64E(value)
	if err != nil {
		return 0, fmt.Errorf("value %v (%T) is not an integer: %w", value, value, err)
	}
	return result, nil
}
