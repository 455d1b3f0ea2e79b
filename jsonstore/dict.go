package jsonstore

import "sort"

// DictStore persists a JSON object and exposes dictionary operations on it.
// Every mutation is exactly one Update call, so it inherits the store's
// read-modify-write atomicity. If the on-disk root value is not an object
// (for example after a manual edit), it is treated as an empty object rather
// than failing, keeping mutations total.
type DictStore struct {
	*Store
}

// NewDict creates a dictionary-shaped store at path.
func NewDict(path string, opts *Options) (*DictStore, error) {
	s, err := newStore(path, opts, func() any { return map[string]any{} })
	if err != nil {
		return nil, err
	}
	return &DictStore{Store: s}, nil
}

// Get returns the value stored under key, or def when the key is absent.
func (d *DictStore) Get(key string, def any) (any, error) {
	data, err := d.Read(map[string]any{})
	if err != nil {
		return nil, err
	}
	if value, ok := asObject(data)[key]; ok {
		return value, nil
	}
	return def, nil
}

// Set stores value under key.
func (d *DictStore) Set(key string, value any) error {
	_, err := d.Update(func(current any) (any, error) {
		obj := asObject(current)
		obj[key] = value
		return obj, nil
	})
	return err
}

// DeleteKey removes key. Deleting an absent key is not an error.
func (d *DictStore) DeleteKey(key string) error {
	_, err := d.Update(func(current any) (any, error) {
		obj := asObject(current)
		delete(obj, key)
		return obj, nil
	})
	return err
}

// HasKey reports whether key is present.
func (d *DictStore) HasKey(key string) (bool, error) {
	data, err := d.Read(map[string]any{})
	if err != nil {
		return false, err
	}
	_, ok := asObject(data)[key]
	return ok, nil
}

// Keys returns all keys in sorted order.
func (d *DictStore) Keys() ([]string, error) {
	data, err := d.Read(map[string]any{})
	if err != nil {
		return nil, err
	}
	obj := asObject(data)
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Values returns all values, ordered by their sorted keys.
func (d *DictStore) Values() ([]any, error) {
	data, err := d.Read(map[string]any{})
	if err != nil {
		return nil, err
	}
	obj := asObject(data)
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	values := make([]any, 0, len(keys))
	for _, key := range keys {
		values = append(values, obj[key])
	}
	return values, nil
}

// Items returns a copy of the stored object.
func (d *DictStore) Items() (map[string]any, error) {
	data, err := d.Read(map[string]any{})
	if err != nil {
		return nil, err
	}
	obj := asObject(data)
	items := make(map[string]any, len(obj))
	for key, value := range obj {
		items[key] = value
	}
	return items, nil
}

// Merge folds other into the stored object in one atomic update. With
// overwrite false, only keys absent from the current data are set. Keys not
// present in other are untouched.
func (d *DictStore) Merge(other map[string]any, overwrite bool) error {
	_, err := d.Update(func(current any) (any, error) {
		obj := asObject(current)
		for key, value := range other {
			if !overwrite {
				if _, exists := obj[key]; exists {
					continue
				}
			}
			obj[key] = value
		}
		return obj, nil
	})
	return err
}

// Clear atomically resets the store to an empty object. The backup created
// by the write (when enabled) preserves the previous content.
func (d *DictStore) Clear() error {
	_, err := d.Update(func(any) (any, error) {
		return map[string]any{}, nil
	})
	return err
}

// asObject coerces a decoded root value to an object.
func asObject(value any) map[string]any {
	if obj, ok := value.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}
