package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/model"
	"github.com/cleared-dev/billconv/internal/rules"
)

// Adapter converts one provider's export into ledger records.
type Adapter interface {
	Format() string
	Provider() model.Provider
	// Convert reads an export and returns its records. Row-level problems are
	// reported in the Result; a returned error aborts the whole file.
	Convert(ctx context.Context, r io.Reader, member model.Member) (*Result, error)
	// ConvertFile is Convert over the file at path. Open failures are ErrIO.
	ConvertFile(ctx context.Context, path string, member model.Member) (*Result, error)
	// Detect reports whether the first bytes of a file, or its name, look
	// like this provider's export.
	Detect(head []byte, name string) bool
	Rules() rules.Set
	WithRules(set rules.Set) (Adapter, error)
}

// Registry holds named adapters.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// FileInfo describes a CSV file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter. Panics on duplicate format.
func (r *Registry) Register(a Adapter) {
	key := strings.ToLower(a.Format())
	if _, ok := r.adapters[key]; ok {
		panic("duplicate adapter format: " + key)
	}
	r.adapters[key] = a
	r.order = append(r.order, key)
}

// Get returns the adapter for format, or nil.
func (r *Registry) Get(format string) Adapter {
	return r.adapters[strings.ToLower(format)]
}

// Lookup resolves a provider selector (including aliases) to its adapter.
func (r *Registry) Lookup(name string) (Adapter, error) {
	p, err := model.ParseProvider(name)
	if err != nil {
		return nil, err
	}
	a := r.Get(string(p))
	if a == nil {
		return nil, fmt.Errorf("%w: no adapter registered for %s", common.ErrConfig, p)
	}
	return a, nil
}

// All returns the adapters in registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, len(r.order))
	for i, key := range r.order {
		out[i] = r.adapters[key]
	}
	return out
}

// Override replaces the non-empty rule sections of a registered adapter.
func (r *Registry) Override(format string, set rules.Set) error {
	a := r.Get(format)
	if a == nil {
		return fmt.Errorf("%w: no adapter registered for %q", common.ErrConfig, format)
	}
	next, err := a.WithRules(a.Rules().Merge(set))
	if err != nil {
		return fmt.Errorf("rules for %s: %w", format, err)
	}
	r.adapters[strings.ToLower(format)] = next
	return nil
}

// DefaultRegistry returns a registry with all built-in adapters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Alipay())
	r.Register(WeChat())
	return r
}

// detectBytes is how much of a file Detect inspects.
const detectBytes = 4096

// Detect picks the adapter for the file at path from its banner text, then
// from its name.
func (r *Registry) Detect(path string) (Adapter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", common.ErrIO, path, err)
	}
	defer f.Close()

	head := make([]byte, detectBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("%w: reading %s: %w", common.ErrIO, path, err)
	}
	head = head[:n]

	for _, a := range r.All() {
		if a.Detect(head, "") {
			return a, nil
		}
	}
	name := filepath.Base(path)
	for _, a := range r.All() {
		if a.Detect(nil, name) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot tell which provider exported %s", common.ErrFormat, name)
}

// processedDir is the subdirectory converted exports are moved to.
const processedDir = "processed"

// Scan returns the CSV files directly inside dir.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading import dir: %w", common.ErrIO, err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %w", common.ErrIO, e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves path into a processed/ directory next to it.
func MarkProcessed(path string) error {
	dstDir := filepath.Join(filepath.Dir(path), processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating processed dir: %w", common.ErrIO, err)
	}

	name := filepath.Base(path)
	if err := os.Rename(path, filepath.Join(dstDir, name)); err != nil {
		return fmt.Errorf("%w: moving %s to processed: %w", common.ErrIO, name, err)
	}
	return nil
}
