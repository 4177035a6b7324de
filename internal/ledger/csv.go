// Package ledger reads, orders, validates and writes the canonical ledger CSV.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/model"
	"github.com/cleared-dev/billconv/internal/source"
)

// Header is the fixed column header of the ledger, without the source column.
var Header = []string{"日期", "类型", "金额", "一级分类", "二级分类", "账户1", "账户2", "备注", "货币", "标签"}

// SourceColumn is the label of the optional trailing provider column.
const SourceColumn = "来源"

const (
	colDate = iota
	colType
	colAmount
	colCategory1
	colCategory2
	colAccount1
	colAccount2
	colRemark
	colCurrency
	colTag
	colSource
)

// Options controls how records are written.
type Options struct {
	IncludeSource bool
}

// DefaultOptions writes the source column.
var DefaultOptions = Options{IncludeSource: true}

func (o Options) header() []string {
	h := slices.Clone(Header)
	if o.IncludeSource {
		h = append(h, SourceColumn)
	}
	return h
}

// WriteRecords writes the header and one row per record.
func WriteRecords(w io.Writer, recs []model.Record, opts Options) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(opts.header()); err != nil {
		return fmt.Errorf("%w: writing header: %w", common.ErrIO, err)
	}
	for i, rec := range recs {
		if err := cw.Write(MarshalRecord(rec, opts)); err != nil {
			return fmt.Errorf("%w: writing row %d: %w", common.ErrIO, i+2, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flushing ledger: %w", common.ErrIO, err)
	}
	return nil
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(rec model.Record, opts Options) []string {
	n := len(Header)
	if opts.IncludeSource {
		n++
	}
	row := make([]string, n)
	row[colDate] = rec.Date
	row[colType] = string(rec.Type)
	row[colAmount] = rec.Amount.StringFixed(2)
	row[colCategory1] = rec.Category1
	row[colCategory2] = rec.Category2
	row[colAccount1] = rec.Account1
	row[colAccount2] = rec.Account2
	row[colRemark] = rec.Remark
	row[colCurrency] = rec.Currency
	row[colTag] = rec.Tag
	if opts.IncludeSource {
		row[colSource] = rec.Source
	}
	return row
}

// UnmarshalRecord converts a CSV row, with or without the source column, to a Record.
func UnmarshalRecord(row []string) (model.Record, error) {
	if len(row) != len(Header) && len(row) != len(Header)+1 {
		return model.Record{}, fmt.Errorf("%w: expected %d or %d fields, got %d",
			common.ErrFormat, len(Header), len(Header)+1, len(row))
	}

	amount, err := decimal.NewFromString(row[colAmount])
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: parsing amount %q: %w", common.ErrFormat, row[colAmount], err)
	}

	rec := model.Record{
		Date:      row[colDate],
		Type:      model.TxType(row[colType]),
		Amount:    amount,
		Category1: row[colCategory1],
		Category2: row[colCategory2],
		Account1:  row[colAccount1],
		Account2:  row[colAccount2],
		Remark:    row[colRemark],
		Currency:  row[colCurrency],
		Tag:       row[colTag],
	}
	if len(row) > colSource {
		rec.Source = row[colSource]
	}
	return rec, nil
}

// ReadRecords reads a ledger written by WriteRecords. A UTF-8 byte order
// mark is tolerated.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	dr, err := source.Decode(r, source.UTF8)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dr)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading ledger header: %w", common.ErrFormat, err)
	}
	if len(header) < len(Header) || !slices.Equal(header[:len(Header)], Header) {
		return nil, fmt.Errorf("%w: unexpected ledger header %v", common.ErrFormat, header)
	}

	var recs []model.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading ledger: %w", common.ErrFormat, err)
		}
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
