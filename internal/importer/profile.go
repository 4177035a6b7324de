// Package importer turns provider exports into canonical ledger records.
// Every provider runs the same row pipeline (extract, parse amount, apply
// row rules, resolve accounts, categorize, compose remark, format date);
// only the data in its Profile differs.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/billconv/internal/accounts"
	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/logger"
	"github.com/cleared-dev/billconv/internal/model"
	"github.com/cleared-dev/billconv/internal/rules"
	"github.com/cleared-dev/billconv/internal/source"
)

// Columns holds the export column index of each raw field. -1 means absent.
type Columns struct {
	Time         int
	Type         int
	Counterparty int
	Description  int
	Direction    int
	Amount       int
	Account      int
	Status       int
	Remark       int
}

// DatePolicy decides what happens to a timestamp no layout accepts.
type DatePolicy int

const (
	// DateStrict aborts the file.
	DateStrict DatePolicy = iota
	// DateLenient keeps the raw timestamp.
	DateLenient
)

// RemarkSep joins the two halves of a composed remark.
const RemarkSep = ": "

// Profile is the data that describes one provider's export.
type Profile struct {
	Name        model.Provider
	Encoding    source.Encoding
	Marker      string   // substring of the header row's first field
	Banners     []string // preamble text unique to this provider
	FileHints   []string // lower-case file name fragments
	Columns     Columns
	DateLayouts []string
	DatePolicy  DatePolicy
	RemarkLeft  rules.Field
	RemarkRight rules.Field
	Set         rules.Set
}

// Result is the outcome of converting one export.
type Result struct {
	Records     []model.Record
	HeaderFound bool
	Rows        int // data rows read after the header
	Skipped     int
	Rejected    []*RowError
	Notices     []string
}

// RowError describes a row that could not be converted.
type RowError struct {
	Provider model.Provider
	Line     int
	Time     string
	Err      error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s %s (line %d): %v", e.Time, e.Provider.Label(), e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Format returns the adapter name.
func (p *Profile) Format() string { return string(p.Name) }

// Provider returns the provider this profile reads.
func (p *Profile) Provider() model.Provider { return p.Name }

// Rules returns the profile's rule table.
func (p *Profile) Rules() rules.Set { return p.Set }

// WithRules returns a copy of p using set.
func (p *Profile) WithRules(set rules.Set) (Adapter, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	next := *p
	next.Set = set
	return &next, nil
}

// Detect reports whether head contains one of the provider's banners after
// decoding, or name contains one of its file hints.
func (p *Profile) Detect(head []byte, name string) bool {
	if len(head) > 0 {
		r, err := source.Decode(bytes.NewReader(head), p.Encoding)
		if err == nil {
			text, _ := io.ReadAll(r)
			for _, b := range p.Banners {
				if bytes.Contains(text, []byte(b)) {
					return true
				}
			}
		}
	}
	if name != "" {
		lower := strings.ToLower(name)
		for _, h := range p.FileHints {
			if strings.Contains(lower, h) {
				return true
			}
		}
	}
	return false
}

// Convert reads an export and converts every data row.
func (p *Profile) Convert(ctx context.Context, r io.Reader, member model.Member) (*Result, error) {
	rd, err := source.NewReader(r, p.Encoding, p.Marker)
	if err != nil {
		return nil, err
	}
	return p.convertRows(ctx, rd, member)
}

// ConvertFile opens the export at path and converts it.
func (p *Profile) ConvertFile(ctx context.Context, path string, member model.Member) (*Result, error) {
	f, err := source.Open(path, p.Encoding, p.Marker)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.convertRows(ctx, f.Reader, member)
}

func (p *Profile) convertRows(ctx context.Context, rd *source.Reader, member model.Member) (*Result, error) {
	log := logger.FromContext(ctx)
	conv := &rowConverter{
		profile:  p,
		member:   member,
		resolver: accounts.NewResolver(p.Set.Aliases, p.Set.Shared),
	}

	res := &Result{}
	for {
		row, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name.Label(), err)
		}
		res.Rows++

		out := conv.convert(row)
		switch {
		case out.fatal != nil:
			return nil, out.fatal
		case out.rejected != nil:
			log.Warn().Str("provider", p.Name.Label()).Int("line", row.Line).Err(out.rejected.Err).
				Msg("rejected row")
			res.Rejected = append(res.Rejected, out.rejected)
		case out.skipReason != "":
			log.Debug().Str("provider", p.Name.Label()).Int("line", row.Line).Str("time", out.time).
				Str("reason", out.skipReason).Strs("row", row.Fields).Msg("skipped row")
			res.Skipped++
		default:
			if out.notice != "" {
				log.Warn().Str("provider", p.Name.Label()).Int("line", row.Line).Msg(out.notice)
				res.Notices = append(res.Notices, out.notice)
			}
			res.Records = append(res.Records, out.record)
		}
	}
	res.HeaderFound = rd.HeaderFound()
	if res.HeaderFound {
		log.Debug().Str("provider", p.Name.Label()).Strs("header", rd.Header()).Int("rows", res.Rows).
			Msg("read export")
	}
	return res, nil
}

func (p *Profile) extract(row source.Row) rules.Raw {
	c := p.Columns
	return rules.Raw{
		Time:         row.Get(c.Time),
		Type:         row.Get(c.Type),
		Counterparty: row.Get(c.Counterparty),
		Description:  row.Get(c.Description),
		Direction:    row.Get(c.Direction),
		Amount:       row.Get(c.Amount),
		Account:      row.Get(c.Account),
		Status:       row.Get(c.Status),
		Remark:       row.Get(c.Remark),
	}
}

type rowConverter struct {
	profile  *Profile
	member   model.Member
	resolver *accounts.Resolver
}

type rowOutcome struct {
	record     model.Record
	time       string
	skipReason string
	notice     string
	rejected   *RowError
	fatal      error
}

func (c *rowConverter) convert(row source.Row) rowOutcome {
	p := c.profile
	if len(row.Fields) <= p.Columns.Amount {
		// Trailer lines carry no timestamp; a dated row that lost its amount is broken.
		t := row.Get(p.Columns.Time)
		if _, err := FormatDate(t, p.DateLayouts); t == "" || err != nil {
			return rowOutcome{time: t, skipReason: "short row"}
		}
		return rowOutcome{time: t, rejected: &RowError{
			Provider: p.Name,
			Line:     row.Line,
			Time:     t,
			Err:      fmt.Errorf("%w: missing amount column", common.ErrFormat),
		}}
	}

	raw := p.extract(row)
	out := rowOutcome{time: raw.Time}
	rowErr := func(err error) *RowError {
		return &RowError{Provider: p.Name, Line: row.Line, Time: raw.Time, Err: err}
	}

	value, currency, err := ParseAmount(raw.Amount)
	if err != nil {
		out.rejected = rowErr(err)
		return out
	}
	raw.Value = value

	typ := model.TxType(raw.Direction)
	account1, account2 := raw.Account, ""
	remark, remarkSet := "", false

	if rule, ok := p.Set.Apply(raw); ok {
		if rule.Kind == rules.KindSkip {
			out.skipReason = rule.Name
			return out
		}
		if rule.Type != "" {
			typ = rule.Type
		}
		if rule.Account1 != "" {
			account1 = rule.Account1
		}
		if rule.Account2 != "" {
			account2 = rule.Account2
		}
		if rule.Remark != "" {
			remark, remarkSet = raw.Get(rule.Remark), true
		}
		if rule.Notice != "" {
			out.notice = fmt.Sprintf("%s %s: %s", raw.Time, p.Name.Label(), rule.Notice)
		}
	}

	category1, category2 := p.Set.Categorize(raw, typ)

	if !remarkSet {
		remark = raw.Get(p.RemarkLeft) + RemarkSep + raw.Get(p.RemarkRight)
	}

	date, err := FormatDate(raw.Time, p.DateLayouts)
	if err != nil {
		if p.DatePolicy == DateStrict {
			out.fatal = rowErr(err)
			return out
		}
		date = raw.Time
	}

	out.record = model.Record{
		Date:      date,
		Type:      typ,
		Amount:    value,
		Category1: category1,
		Category2: category2,
		Account1:  c.resolver.Resolve(account1, c.member),
		Account2:  c.resolver.Resolve(account2, c.member),
		Remark:    remark,
		Currency:  currency,
		Source:    p.Name.Label(),
	}
	return out
}
