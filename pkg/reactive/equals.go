package reactive

import "reflect"

// defaultEquals is the deep-value equality gate applied to writes.
// Fast paths cover the types that dominate binding contexts; everything
// else falls back to reflect.DeepEqual so slices and structs compare by
// value, not identity.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
