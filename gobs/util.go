// Copyright (c) 2025 BVK Chaitanya

package gobs

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Clone returns a deep copy of v through a gob round trip. Empty slices come
// back as nil slices.
func Clone[T any](v *T) (*T, error) {
	if v == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("could not gob-encode %T: %w", v, err)
	}
	x := new(T)
	if err := gob.NewDecoder(&buf).Decode(x); err != nil {
		return nil, fmt.Errorf("could not gob-decode %T: %w", v, err)
	}
	return x, nil
}
