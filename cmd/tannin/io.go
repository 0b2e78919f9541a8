package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
)

// readInput returns the contents of the named file, or of stdin when the
// name is empty or "-".
func readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// writeOutput writes data to the named file atomically, or to stdout when
// the name is empty. The atomic write means a failed render never leaves
// a truncated file behind.
func writeOutput(name string, data []byte) error {
	if name == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := atomic.WriteFile(name, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
