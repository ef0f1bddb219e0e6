package core

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ReadPayload reads the whole file as UTF-8 text and returns its bytes
// unchanged. No newline is added or normalized.
func ReadPayload(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, encoding.UTF8Validator))
	if err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, path)
		}
		return nil, fmt.Errorf("failed to read payload file: %w", err)
	}
	return data, nil
}
