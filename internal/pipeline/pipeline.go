// Package pipeline runs a whole conversion: read every input, merge, sort,
// validate and write the ledger.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/importer"
	"github.com/cleared-dev/billconv/internal/ledger"
	"github.com/cleared-dev/billconv/internal/logger"
	"github.com/cleared-dev/billconv/internal/model"
)

// Input is one export to convert. An empty Provider means detect it.
type Input struct {
	Provider string
	Path     string
}

// ParseInput parses a "provider=path" argument. A bare path leaves the
// provider to detection.
func ParseInput(arg string) (Input, error) {
	provider, path, ok := strings.Cut(arg, "=")
	if !ok {
		provider, path = "", arg
	}
	provider, path = strings.TrimSpace(provider), strings.TrimSpace(path)
	if path == "" {
		return Input{}, fmt.Errorf("%w: input %q has no path", common.ErrConfig, arg)
	}
	if ok && provider == "" {
		return Input{}, fmt.Errorf("%w: input %q has no provider", common.ErrConfig, arg)
	}
	return Input{Provider: provider, Path: path}, nil
}

// DirInputs returns one detected input per CSV file in dir, leaving out any
// of the exclude paths (such as the ledger being written).
func DirInputs(dir string, exclude ...string) ([]Input, error) {
	files, err := importer.Scan(dir)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		if p != "" {
			skip[absPath(p)] = true
		}
	}

	var inputs []Input
	for _, f := range files {
		if skip[absPath(f.Path)] {
			continue
		}
		inputs = append(inputs, Input{Path: f.Path})
	}
	return inputs, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Options controls a conversion run.
type Options struct {
	Member  model.Member
	Output  string
	Ledger  ledger.Options
	Archive bool // move inputs to processed/ after a successful write
}

// FileReport is the outcome of one input.
type FileReport struct {
	Path     string
	Provider model.Provider
	Rows     int
	Records  int
	Skipped  int
	Rejected []*importer.RowError
	Notices  []string
}

// Report is the outcome of a run. It is returned alongside validation and
// rejection errors so callers can show what went wrong.
type Report struct {
	Files    []FileReport
	Records  []model.Record
	Summary  ledger.Summary
	Invalid  ledger.ValidationErrors
	Written  bool
	Output   string
	Archived int
}

// Rejected returns every rejected row across all files.
func (r *Report) Rejected() []*importer.RowError {
	var out []*importer.RowError
	for _, f := range r.Files {
		out = append(out, f.Rejected...)
	}
	return out
}

// Notices returns every notice across all files.
func (r *Report) Notices() []string {
	var out []string
	for _, f := range r.Files {
		out = append(out, f.Notices...)
	}
	return out
}

// Service converts exports with the adapters of a registry.
type Service struct {
	registry *importer.Registry
}

// NewService creates a pipeline Service.
func NewService(registry *importer.Registry) *Service {
	return &Service{registry: registry}
}

// Run converts every input and writes one ledger. Nothing is written unless
// every file converts and the merged ledger validates.
func (s *Service) Run(ctx context.Context, inputs []Input, opts Options) (*Report, error) {
	log := logger.FromContext(ctx)
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no input files", common.ErrConfig)
	}

	report := &Report{Output: opts.Output}
	batches := make([][]model.Record, 0, len(inputs))
	for _, in := range inputs {
		fr, recs, err := s.convertFile(ctx, in, opts.Member)
		if err != nil {
			return report, err
		}
		log.Info().Str("file", in.Path).Str("provider", fr.Provider.Label()).
			Int("records", fr.Records).Int("skipped", fr.Skipped).Int("rejected", len(fr.Rejected)).
			Msg("converted file")
		report.Files = append(report.Files, fr)
		batches = append(batches, recs)
	}

	report.Records = ledger.Assemble(batches...)
	report.Summary = ledger.Summarize(report.Records)

	report.Invalid = ledger.ValidateRecords(report.Records)
	for _, ve := range report.Invalid {
		log.Warn().Int("record", ve.Index+1).Str("date", ve.Date).Msg(ve.Description)
	}

	var errs []error
	if rejected := report.Rejected(); len(rejected) > 0 {
		errs = append(errs, fmt.Errorf("%w: %d rows could not be converted", common.ErrFormat, len(rejected)))
	}
	if len(report.Invalid) > 0 {
		errs = append(errs, report.Invalid)
	}
	if len(errs) > 0 {
		return report, errors.Join(errs...)
	}

	if err := ledger.WriteFile(opts.Output, report.Records, opts.Ledger); err != nil {
		return report, err
	}
	report.Written = true
	log.Info().Str("output", opts.Output).Int("records", len(report.Records)).Msg("wrote ledger")

	if opts.Archive {
		for _, in := range inputs {
			if err := importer.MarkProcessed(in.Path); err != nil {
				return report, err
			}
			report.Archived++
		}
	}
	return report, nil
}

func (s *Service) adapter(in Input) (importer.Adapter, error) {
	if in.Provider != "" {
		return s.registry.Lookup(in.Provider)
	}
	return s.registry.Detect(in.Path)
}

func (s *Service) convertFile(ctx context.Context, in Input, member model.Member) (FileReport, []model.Record, error) {
	a, err := s.adapter(in)
	if err != nil {
		return FileReport{}, nil, err
	}

	res, err := a.ConvertFile(ctx, in.Path, member)
	if err != nil {
		return FileReport{}, nil, fmt.Errorf("%s: %w", in.Path, err)
	}
	if !res.HeaderFound {
		return FileReport{}, nil, fmt.Errorf("%w: %s: no %s header found", common.ErrFormat, in.Path, a.Provider().Label())
	}

	return FileReport{
		Path:     in.Path,
		Provider: a.Provider(),
		Rows:     res.Rows,
		Records:  len(res.Records),
		Skipped:  res.Skipped,
		Rejected: res.Rejected,
		Notices:  res.Notices,
	}, res.Records, nil
}

// Check reads an existing ledger, validates it and summarizes it.
func Check(ctx context.Context, path string) (*Report, error) {
	recs, err := ledger.ReadFile(path)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Output:  path,
		Records: recs,
		Summary: ledger.Summarize(recs),
		Invalid: ledger.ValidateRecords(recs),
	}
	log := logger.FromContext(ctx)
	for _, ve := range report.Invalid {
		log.Warn().Int("record", ve.Index+1).Str("date", ve.Date).Msg(ve.Description)
	}
	if len(report.Invalid) > 0 {
		return report, report.Invalid
	}
	return report, nil
}
