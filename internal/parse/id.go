package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrEmptyID is returned when an identifier is blank.
var ErrEmptyID = errors.New("empty identifier")

// ID canonicalises an identifier at the store boundary. Numeric identifiers
// lose leading zeros and surrounding space so "01", " 1" and 1 all address
// the same record; anything else is returned trimmed.
func ID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyID
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	return s, nil
}

// AnyID canonicalises an identifier that arrived as a decoded JSON value.
func AnyID(v any) (string, error) {
	switch id := v.(type) {
	case string:
		return ID(id)
	case json.Number:
		return ID(id.String())
	case float64:
		if id != math.Trunc(id) || math.IsInf(id, 0) {
			return "", fmt.Errorf("identifier %v is not an integer", id)
		}
		return strconv.FormatInt(int64(id), 10), nil
	case int:
		return strconv.Itoa(id), nil
	case int64:
		return strconv.FormatInt(id, 10), nil
	case nil:
		return "", ErrEmptyID
	default:
		return "", fmt.Errorf("unsupported identifier type %T", v)
	}
}

// IDs canonicalises a list of identifiers, failing on the first bad one.
func IDs(values []any) ([]string, error) {
	out := make([]string, 0, len(values))
	for i, v := range values {
		id, err := AnyID(v)
		if err != nil {
			return nil, fmt.Errorf("ids[%d]: %w", i, err)
		}
		out = append(out, id)
	}
	return out, nil
}
