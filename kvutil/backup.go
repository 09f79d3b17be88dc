// Copyright (c) 2023 BVK Chaitanya

package kvutil

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bvkgo/kv"
)

// KeyValue is a single item in a backup stream.
type KeyValue struct {
	Key   string
	Value []byte
}

// Export writes all key-value pairs under dir as a stream of gob encoded
// KeyValue items. It returns the number of items written.
func Export(ctx context.Context, r kv.Reader, dir string, w io.Writer) (int, error) {
	begin, end := PathRange(dir)
	it, err := r.Ascend(ctx, begin, end)
	if err != nil {
		return 0, fmt.Errorf("could not create ascending iterator: %w", err)
	}
	defer kv.Close(it)

	n := 0
	encoder := gob.NewEncoder(w)
	for k, v, err := it.Fetch(ctx, false); err == nil; k, v, err = it.Fetch(ctx, true) {
		value, err := io.ReadAll(v)
		if err != nil {
			return n, fmt.Errorf("could not read value at key %q: %w", k, err)
		}
		if err := encoder.Encode(&KeyValue{Key: k, Value: value}); err != nil {
			return n, fmt.Errorf("could not encode key/value item: %w", err)
		}
		n++
	}
	if _, _, err := it.Fetch(ctx, false); err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("iterator fetch has failed: %w", err)
	}
	return n, nil
}

// Import reads a stream written by Export and stores every item. Items with
// keys outside dir are rejected.
func Import(ctx context.Context, r io.Reader, dir string, rw kv.ReadWriter) (int, error) {
	prefix, _ := PathRange(dir)
	decoder := gob.NewDecoder(r)

	n := 0
	var err error
	var item KeyValue
	for err = decoder.Decode(&item); err == nil; err = decoder.Decode(&item) {
		if !IsGoodKey(item.Key) || !strings.HasPrefix(item.Key, prefix) {
			return n, fmt.Errorf("backup key %q is not under %q: %w", item.Key, dir, os.ErrInvalid)
		}
		if err := rw.Set(ctx, item.Key, bytes.NewReader(item.Value)); err != nil {
			return n, fmt.Errorf("could not restore at key %q: %w", item.Key, err)
		}
		n++
		item = KeyValue{}
	}
	if !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("could not decode item from backup stream: %w", err)
	}
	return n, nil
}
