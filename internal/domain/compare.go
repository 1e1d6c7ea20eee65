package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// CompareField names a transaction attribute used to decide on redeployment
type CompareField string

const (
	FieldData     CompareField = "data"
	FieldInput    CompareField = "input"
	FieldGas      CompareField = "gas"
	FieldGasPrice CompareField = "gasPrice"
	FieldValue    CompareField = "value"
	FieldFrom     CompareField = "from"
)

// AllCompareFields lists every supported field
var AllCompareFields = []CompareField{
	FieldData, FieldInput, FieldGas, FieldGasPrice, FieldValue, FieldFrom,
}

// ParseCompareFields parses field names, accepting comma separated entries.
// Duplicates are dropped, order is kept.
func ParseCompareFields(names ...string) ([]CompareField, error) {
	var fields []CompareField
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			field, ok := lo.Find(AllCompareFields, func(f CompareField) bool {
				return strings.EqualFold(string(f), name)
			})
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
			}
			fields = append(fields, field)
		}
	}
	return lo.Uniq(fields), nil
}

// NeedsPayload reports whether any field requires the encoded creation data
func NeedsPayload(fields []CompareField) bool {
	return lo.Contains(fields, FieldData) || lo.Contains(fields, FieldInput)
}
