package profile

import "errors"

var (
	ErrContactLimit    = errors.New("maximum 3 contacts allowed")
	ErrIndexOutOfRange = errors.New("entry index out of range")
	ErrStaleEntry      = errors.New("entry changed since it was read")
	ErrContactNotFound = errors.New("emergency contact not found")
)

// appendBounded returns a copy of list with v appended. limit <= 0 means
// unbounded.
func appendBounded[T any](list []T, v T, limit int, full error) ([]T, error) {
	if limit > 0 && len(list) >= limit {
		return nil, full
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, v), nil
}

// replaceAt returns a copy of list with element i replaced by v
func replaceAt[T any](list []T, i int, v T) ([]T, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := append([]T{}, list...)
	out[i] = v
	return out, nil
}

// removeAt returns a copy of list without element i; later elements shift
// down by one
func removeAt[T any](list []T, i int) ([]T, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}
