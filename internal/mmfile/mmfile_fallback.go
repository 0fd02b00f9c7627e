//go:build !unix

// Package mmfile maps document files into memory. On platforms without
// mmap support the file is read into an ordinary buffer instead.
package mmfile

import "os"

// Map reads the entire file when mmap is not available.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
