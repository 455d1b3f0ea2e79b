package jsonstore

import "reflect"

// ListStore persists a JSON array and exposes list operations on it. Every
// mutation is exactly one Update call. A root value that is not an array is
// treated as an empty array, mirroring DictStore's coercion policy.
type ListStore struct {
	*Store
}

// NewList creates a list-shaped store at path.
func NewList(path string, opts *Options) (*ListStore, error) {
	s, err := newStore(path, opts, func() any { return []any{} })
	if err != nil {
		return nil, err
	}
	return &ListStore{Store: s}, nil
}

// Append adds item to the end of the list.
func (l *ListStore) Append(item any) error {
	_, err := l.Update(func(current any) (any, error) {
		return append(asArray(current), item), nil
	})
	return err
}

// Extend adds items in a single atomic update, bounding the batch to one
// file operation regardless of its size.
func (l *ListStore) Extend(items []any) error {
	_, err := l.Update(func(current any) (any, error) {
		return append(asArray(current), items...), nil
	})
	return err
}

// Remove deletes the first element deep-equal to item. Removing an absent
// item is a no-op.
func (l *ListStore) Remove(item any) error {
	_, err := l.Update(func(current any) (any, error) {
		arr := asArray(current)
		for i, existing := range arr {
			if reflect.DeepEqual(existing, item) {
				return append(arr[:i], arr[i+1:]...), nil
			}
		}
		return arr, nil
	})
	return err
}

// RemoveAt deletes and returns the element at index. An out-of-range index
// returns nil without modifying the list.
func (l *ListStore) RemoveAt(index int) (any, error) {
	var removed any
	_, err := l.Update(func(current any) (any, error) {
		arr := asArray(current)
		if index < 0 || index >= len(arr) {
			return arr, nil
		}
		removed = arr[index]
		return append(arr[:index], arr[index+1:]...), nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// GetAt returns the element at index, or def when out of range.
func (l *ListStore) GetAt(index int, def any) (any, error) {
	data, err := l.Read([]any{})
	if err != nil {
		return nil, err
	}
	arr := asArray(data)
	if index < 0 || index >= len(arr) {
		return def, nil
	}
	return arr[index], nil
}

// Length returns the number of elements; 0 when the root is not an array.
func (l *ListStore) Length() (int, error) {
	data, err := l.Read([]any{})
	if err != nil {
		return 0, err
	}
	return len(asArray(data)), nil
}

// All returns a copy of the stored list.
func (l *ListStore) All() ([]any, error) {
	data, err := l.Read([]any{})
	if err != nil {
		return nil, err
	}
	arr := asArray(data)
	out := make([]any, len(arr))
	copy(out, arr)
	return out, nil
}

// Filter atomically rewrites the list to keep, in order, only elements for
// which pred returns true.
func (l *ListStore) Filter(pred func(item any) bool) error {
	_, err := l.Update(func(current any) (any, error) {
		arr := asArray(current)
		kept := make([]any, 0, len(arr))
		for _, item := range arr {
			if pred(item) {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
	return err
}

// Clear atomically resets the store to an empty array.
func (l *ListStore) Clear() error {
	_, err := l.Update(func(any) (any, error) {
		return []any{}, nil
	})
	return err
}

// asArray coerces a decoded root value to an array.
func asArray(value any) []any {
	if arr, ok := value.([]any); ok {
		return arr
	}
	return []any{}
}
