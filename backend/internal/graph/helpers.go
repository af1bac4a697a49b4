package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Helper Functions
// ============================================================================

// optional turns an absent patch field into a Cypher null
func optional[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optionalString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// GetStringFromRecord returns the string at key, or "" when absent or null
func GetStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// GetNullableStringFromRecord returns nil when the value is absent or null
func GetNullableStringFromRecord(record *neo4j.Record, key string) *string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	if str, ok := val.(string); ok {
		return &str
	}
	return nil
}

// GetNullableFloat64FromRecord accepts both float and integer properties
func GetNullableFloat64FromRecord(record *neo4j.Record, key string) *float64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

// GetNullableInt64FromRecord accepts integer properties and whole floats
func GetNullableInt64FromRecord(record *neo4j.Record, key string) *int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case int64:
		return &v
	case int:
		i := int64(v)
		return &i
	case float64:
		i := int64(v)
		return &i
	}
	return nil
}

// GetFloat64FromRecord returns 0 when the value is absent or null
func GetFloat64FromRecord(record *neo4j.Record, key string) float64 {
	if f := GetNullableFloat64FromRecord(record, key); f != nil {
		return *f
	}
	return 0.0
}

// GetStringSliceFromRecord drops non-string and null elements
func GetStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return []string{}
}
