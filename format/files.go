package format

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Open opens a treebank file for reading. Files ending in ".gz" are
// decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening %s (%w)", path, err)
	}
	return &gzipReadCloser{Reader: zr, file: f}, nil
}

// Create creates a treebank file for writing. Files ending in ".gz" are
// compressed transparently.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipWriteCloser{Writer: gzip.NewWriter(f), file: f}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (r *gzipReadCloser) Close() error {
	err := r.Reader.Close()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	return err
}

type gzipWriteCloser struct {
	*gzip.Writer
	file *os.File
}

func (w *gzipWriteCloser) Close() error {
	err := w.Writer.Close()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}
