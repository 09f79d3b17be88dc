// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintJSON writes v as indented json followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	js, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal to json: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", js); err != nil {
		return err
	}
	return nil
}
