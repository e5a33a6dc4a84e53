// Package jsonstore implements the domain repositories on top of single JSON
// documents rewritten wholesale on every save.
//
// The contract is deliberately primitive: Load reads the entire file (a missing
// file is an empty store, not an error) and Save truncates and rewrites it.
// There is no locking and no atomic rename, so concurrent writers race and the
// last writer wins. Handlers hold the read-modify-write cycle for the duration
// of one request.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// loadDocument reads path into dst (a pointer to a map). A missing file leaves
// dst untouched so the caller starts from an empty map.
func loadDocument(_ context.Context, path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// saveDocument marshals src and rewrites path. indent controls pretty-printing:
// the channels and analytics documents are indented, the users document is not.
func saveDocument(_ context.Context, path string, src any, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(src, "", "  ")
	} else {
		data, err = json.Marshal(src)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
