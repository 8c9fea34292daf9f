package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a named stream sent as a multipart part.
type File struct {
	Name   string
	Reader io.Reader
}

func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("api: can't open `%s`, %w", path, err)
	}
	return &File{Name: filepath.Base(path), Reader: f}, nil
}

func (f *File) Close() error {
	if c, ok := f.Reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
