// Package mapper holds small generic helpers for converting slices between layers.
package mapper

// MapSliceWithError applies mapFunc to each element and stops at the first
// error. Returns nil if items is nil.
func MapSliceWithError[T any, R any](items []T, mapFunc func(T) (R, error)) ([]R, error) {
	if items == nil {
		return nil, nil
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		mapped, err := mapFunc(item)
		if err != nil {
			return nil, err
		}
		result = append(result, mapped)
	}
	return result, nil
}

// MapSlicePtrSkipNil applies mapFunc to each element of a pointer slice,
// skipping nil inputs and nil outputs. Returns nil if items is nil.
func MapSlicePtrSkipNil[T any, R any](items []*T, mapFunc func(*T) *R) []*R {
	if items == nil {
		return nil
	}

	result := make([]*R, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if mapped := mapFunc(item); mapped != nil {
			result = append(result, mapped)
		}
	}
	return result
}
