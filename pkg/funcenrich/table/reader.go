package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	gzip "github.com/klauspost/pgzip"

	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
)

// Whitespace splits fields on any run of spaces or tabs.
const Whitespace = ""

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open returns a reader for path. Files ending in .gz or .bz2 are
// decompressed on the fly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	buffered := bufio.NewReader(f)
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(buffered)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &multiCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case strings.HasSuffix(path, ".bz2"):
		br, err := bzip2.NewReader(buffered, new(bzip2.ReaderConfig))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("bzip2 %s: %w", path, err)
		}
		return &multiCloser{Reader: br, closers: []io.Closer{br, f}}, nil
	default:
		return &multiCloser{Reader: buffered, closers: []io.Closer{f}}, nil
	}
}

// ReadColumn loads every non-empty value of the named column from a
// delimited file with a header row. Values are returned in file order
// and are not trimmed beyond field splitting.
func ReadColumn(path, column, delim string) ([]string, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	values, err := ScanColumn(rc, column, delim)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// ScanColumn is ReadColumn over an arbitrary reader.
func ScanColumn(r io.Reader, column, delim string) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	idx := -1
	lineNo := 0
	var values []string
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if idx < 0 {
			if strings.TrimSpace(line) == "" {
				continue
			}
			header := splitFields(line, delim)
			for i, name := range header {
				if unquote(name) == column {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("%w: column %q not in header %v", internalerr.ErrInvalidInput, column, header)
			}
			continue
		}

		fields := splitFields(line, delim)
		if idx >= len(fields) {
			continue
		}
		v := unquote(fields[idx])
		if v == "" {
			continue
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: missing header row", internalerr.ErrInvalidInput)
	}
	return values, nil
}

func splitFields(line, delim string) []string {
	if delim == Whitespace {
		return strings.Fields(line)
	}
	return strings.Split(line, delim)
}

func unquote(field string) string {
	if len(field) >= 2 && field[0] == '"' && field[len(field)-1] == '"' {
		return field[1 : len(field)-1]
	}
	return field
}
