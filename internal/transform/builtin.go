package transform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultRegistry returns a registry preloaded with the built-in
// transforms (string, number, boolean, date) and the xxhash identity hash.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterTransform("string", stringTransform{})
	r.RegisterTransform("number", numberTransform{})
	r.RegisterTransform("boolean", booleanTransform{})
	r.RegisterTransform("date", dateTransform{})
	r.RegisterHash("xxhash", XXHash)
	return r
}

type stringTransform struct{}

func (stringTransform) Deserialize(value any, _ map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return fmt.Sprintf("%v", value), nil
}

func (stringTransform) Serialize(value any, _ map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return fmt.Sprintf("%v", value), nil
}

type numberTransform struct{}

func (numberTransform) Deserialize(value any, _ map[string]any) (any, error) {
	return toFloat(value)
}

func (numberTransform) Serialize(value any, _ map[string]any) (any, error) {
	return toFloat(value)
}

func toFloat(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return nil, fmt.Errorf("cannot coerce %T to number", value)
	}
}

type booleanTransform struct{}

func (booleanTransform) Deserialize(value any, _ map[string]any) (any, error) {
	return toBool(value)
}

func (booleanTransform) Serialize(value any, _ map[string]any) (any, error) {
	return toBool(value)
}

func toBool(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to boolean", value)
	}
}

// dateTransform maps RFC3339 strings in the cache to time.Time values.
type dateTransform struct{}

func (dateTransform) Deserialize(value any, _ map[string]any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return time.Parse(time.RFC3339, v)
	case time.Time:
		return v, nil
	default:
		return nil, fmt.Errorf("cannot parse %T as date", value)
	}
}

func (dateTransform) Serialize(value any, _ map[string]any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v.UTC().Format(time.RFC3339), nil
	case string:
		if _, err := time.Parse(time.RFC3339, v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("cannot serialize %T as date", value)
	}
}

// XXHash computes a 64-bit xxhash over the canonical JSON encoding of the
// raw data. encoding/json sorts map keys, so two maps with the same
// logical content hash identically regardless of insertion order.
func XXHash(data map[string]any, _ map[string]any) (string, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize data for hashing: %w", err)
	}
	return strconv.FormatUint(xxhash.Sum64(encoded), 16), nil
}
