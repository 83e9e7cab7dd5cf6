package jsonmap

import (
	"encoding/json"
	"fmt"
)

// JSONMap represents a JSON object as a map.
type JSONMap map[string]interface{}

// FromJSON parses a JSON object into a JSONMap.
func FromJSON(data []byte) (JSONMap, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("JSON string is empty")
	}

	var m JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON object: %w", err)
	}

	return m, nil
}

// ToJSON serializes the JSONMap to JSON.
func (m *JSONMap) ToJSON() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap: %w", err)
	}

	return data, nil
}

// Copy returns a shallow copy of the JSONMap.
func (m JSONMap) Copy() JSONMap {
	mCopy := make(JSONMap, len(m))
	for k, v := range m {
		mCopy[k] = v
	}

	return mCopy
}

// CopyWithout returns a shallow copy of the JSONMap with the given keys removed.
func (m JSONMap) CopyWithout(keys ...string) JSONMap {
	mCopy := m.Copy()
	for _, k := range keys {
		delete(mCopy, k)
	}

	return mCopy
}

// Merge copies every entry of src into the JSONMap, overwriting existing keys.
func (m JSONMap) Merge(src JSONMap) {
	for k, v := range src {
		m[k] = v
	}
}

// String returns the value under key when it is a non-empty string.
func (m JSONMap) String(key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", false
	}

	return s, true
}
