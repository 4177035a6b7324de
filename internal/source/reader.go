// Package source decodes provider export files into trimmed CSV rows,
// skipping the banner lines that precede the real header.
package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cleared-dev/billconv/internal/common"
)

// Encoding names the byte encoding of an export file.
type Encoding string

const (
	GBK  Encoding = "gbk"
	UTF8 Encoding = "utf-8"
)

func (e Encoding) decoder() (*encoding.Decoder, error) {
	switch e {
	case GBK:
		return simplifiedchinese.GBK.NewDecoder(), nil
	case UTF8:
		// Strips a leading byte order mark when present.
		return unicode.UTF8BOM.NewDecoder(), nil
	}
	return nil, fmt.Errorf("%w: unsupported encoding %q", common.ErrConfig, e)
}

// Decode wraps r so that it yields UTF-8 text.
func Decode(r io.Reader, enc Encoding) (io.Reader, error) {
	dec, err := enc.decoder()
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, dec), nil
}

// Row is one data row after the header.
type Row struct {
	Line   int // 1-based line in the decoded file
	Fields []string
}

// Get returns field i, or "" when the row is shorter.
func (r Row) Get(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// Reader yields data rows lazily. Lines before the header marker are banner
// text and are scanned as plain lines, not CSV, so stray quotes in them
// cannot swallow the rows that follow.
type Reader struct {
	br          *bufio.Reader
	cr          *csv.Reader
	marker      string
	headerFound bool
	header      []string
	offset      int // lines consumed up to and including the header
}

// NewReader creates a Reader over r. The header row is the first line whose
// first field contains marker.
func NewReader(r io.Reader, enc Encoding, marker string) (*Reader, error) {
	decoded, err := Decode(r, enc)
	if err != nil {
		return nil, err
	}
	return &Reader{br: bufio.NewReader(decoded), marker: marker}, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// HeaderFound reports whether the header marker has been seen.
func (r *Reader) HeaderFound() bool { return r.headerFound }

// Header returns the trimmed header row, or nil before it has been found.
func (r *Reader) Header() []string { return r.header }

func (r *Reader) findHeader() error {
	for {
		line, err := r.br.ReadString('\n')
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return fmt.Errorf("%w: reading export: %w", common.ErrIO, err)
		}
		r.offset++

		text := strings.TrimRight(line, "\r\n")
		first, _, _ := strings.Cut(text, ",")
		if strings.Contains(first, r.marker) {
			rec, perr := newCSVReader(strings.NewReader(text)).Read()
			if perr == nil {
				trimAll(rec)
				r.header = rec
				r.headerFound = true
				r.cr = newCSVReader(r.br)
				return nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return fmt.Errorf("%w: reading export: %w", common.ErrIO, err)
		}
	}
}

// Next returns the next data row. It returns io.EOF when the input is
// exhausted, including when no header was ever found.
func (r *Reader) Next() (Row, error) {
	if r.cr == nil {
		if err := r.findHeader(); err != nil {
			return Row{}, err
		}
	}
	for {
		rec, err := r.cr.Read()
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return Row{}, fmt.Errorf("%w: line %d: %w", common.ErrFormat, perr.Line+r.offset, err)
			}
			return Row{}, fmt.Errorf("%w: reading export: %w", common.ErrIO, err)
		}

		trimAll(rec)
		if isBlank(rec) {
			continue
		}
		line, _ := r.cr.FieldPos(0)
		return Row{Line: line + r.offset, Fields: rec}, nil
	}
}

// File is a Reader bound to an open file.
type File struct {
	*Reader
	f *os.File
}

// Open opens path and returns a Reader over it. The caller must Close it.
func Open(path string, enc Encoding, marker string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", common.ErrIO, path, err)
	}
	r, err := NewReader(f, enc, marker)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{Reader: r, f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}

func trimAll(rec []string) {
	for i, s := range rec {
		rec[i] = strings.TrimSpace(s)
	}
}

func isBlank(rec []string) bool {
	for _, s := range rec {
		if s != "" {
			return false
		}
	}
	return true
}
