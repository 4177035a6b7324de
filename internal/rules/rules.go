// Package rules holds the table-driven reclassification and category rules
// that provider adapters apply to each export row.
package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/model"
)

// Field names a raw column that a condition reads.
type Field string

const (
	FieldTime         Field = "time"
	FieldType         Field = "type"
	FieldCounterparty Field = "counterparty"
	FieldDescription  Field = "description"
	FieldDirection    Field = "direction"
	FieldAmount       Field = "amount"
	FieldAccount      Field = "account"
	FieldStatus       Field = "status"
	FieldRemark       Field = "remark"
)

var fields = []Field{
	FieldTime, FieldType, FieldCounterparty, FieldDescription, FieldDirection,
	FieldAmount, FieldAccount, FieldStatus, FieldRemark,
}

// Op is a comparison applied to a field value.
type Op string

const (
	OpEquals   Op = "equals"
	OpContains Op = "contains"
	OpPrefix   Op = "prefix"
	OpZero     Op = "zero" // parsed amount is zero; Field and Value are ignored
)

// Raw is the named view of one export row, before any reclassification.
type Raw struct {
	Time         string
	Type         string // provider's declared transaction type
	Counterparty string
	Description  string
	Direction    string // provider's income/expense column
	Amount       string
	Account      string
	Status       string
	Remark       string

	Value decimal.Decimal // parsed Amount
}

// Get returns the value of f.
func (r Raw) Get(f Field) string {
	switch f {
	case FieldTime:
		return r.Time
	case FieldType:
		return r.Type
	case FieldCounterparty:
		return r.Counterparty
	case FieldDescription:
		return r.Description
	case FieldDirection:
		return r.Direction
	case FieldAmount:
		return r.Amount
	case FieldAccount:
		return r.Account
	case FieldStatus:
		return r.Status
	case FieldRemark:
		return r.Remark
	}
	return ""
}

// Cond is a single predicate over a raw row.
type Cond struct {
	Field Field  `yaml:"field,omitempty"`
	Op    Op     `yaml:"op"`
	Value string `yaml:"value,omitempty"`
}

// Match reports whether raw satisfies c.
func (c Cond) Match(raw Raw) bool {
	switch c.Op {
	case OpEquals:
		return raw.Get(c.Field) == c.Value
	case OpContains:
		return strings.Contains(raw.Get(c.Field), c.Value)
	case OpPrefix:
		return strings.HasPrefix(raw.Get(c.Field), c.Value)
	case OpZero:
		return raw.Value.IsZero()
	}
	return false
}

func (c Cond) validate() error {
	switch c.Op {
	case OpZero:
		return nil
	case OpEquals, OpContains, OpPrefix:
	default:
		return fmt.Errorf("unknown op %q", c.Op)
	}
	if !slices.Contains(fields, c.Field) {
		return fmt.Errorf("unknown field %q", c.Field)
	}
	return nil
}

func matchAll(conds []Cond, raw Raw) bool {
	for _, c := range conds {
		if !c.Match(raw) {
			return false
		}
	}
	return true
}

// Eq matches when f equals v.
func Eq(f Field, v string) Cond { return Cond{Field: f, Op: OpEquals, Value: v} }

// Has matches when f contains v.
func Has(f Field, v string) Cond { return Cond{Field: f, Op: OpContains, Value: v} }

// Zero matches rows whose amount is zero.
func Zero() Cond { return Cond{Op: OpZero} }

// Kind is what a row rule does once it matches.
type Kind string

const (
	KindSkip       Kind = "skip"
	KindReclassify Kind = "reclassify"
)

// Rule is one entry of a provider's ordered row rule list.
// Empty Type, Account1, Account2 and Remark leave the row's own values in place.
type Rule struct {
	Name     string       `yaml:"name"`
	When     []Cond       `yaml:"when"`
	Kind     Kind         `yaml:"kind"`
	Type     model.TxType `yaml:"type,omitempty"`
	Account1 string       `yaml:"account1,omitempty"`
	Account2 string       `yaml:"account2,omitempty"`
	Remark   Field        `yaml:"remark,omitempty"` // field whose text becomes the whole remark
	Notice   string       `yaml:"notice,omitempty"` // user-facing message when the rule fires
}

func (r Rule) validate() error {
	if len(r.When) == 0 {
		return errors.New("rule has no conditions")
	}
	for _, c := range r.When {
		if err := c.validate(); err != nil {
			return err
		}
	}
	switch r.Kind {
	case KindSkip:
	case KindReclassify:
		if r.Type != "" && !r.Type.Valid() {
			return fmt.Errorf("unknown type %q", r.Type)
		}
		if r.Remark != "" && !slices.Contains(fields, r.Remark) {
			return fmt.Errorf("unknown remark field %q", r.Remark)
		}
	default:
		return fmt.Errorf("unknown kind %q", r.Kind)
	}
	return nil
}

// CategoryRule assigns categories to rows matching every condition.
type CategoryRule struct {
	When        []Cond           `yaml:"when"`
	Types       []model.TxType   `yaml:"types,omitempty"`        // restrict to these types
	AmountBelow *decimal.Decimal `yaml:"amount_below,omitempty"` // restrict to smaller amounts
	Category1   string           `yaml:"category1"`
	Category2   string           `yaml:"category2,omitempty"`
}

// Match reports whether raw, already reclassified to typ, satisfies r.
func (r CategoryRule) Match(raw Raw, typ model.TxType) bool {
	if len(r.Types) > 0 && !slices.Contains(r.Types, typ) {
		return false
	}
	if r.AmountBelow != nil && !raw.Value.LessThan(*r.AmountBelow) {
		return false
	}
	return matchAll(r.When, raw)
}

func (r CategoryRule) validate() error {
	if len(r.When) == 0 {
		return errors.New("category rule has no conditions")
	}
	for _, c := range r.When {
		if err := c.validate(); err != nil {
			return err
		}
	}
	for _, t := range r.Types {
		if !t.Valid() {
			return fmt.Errorf("unknown type %q", t)
		}
	}
	if r.Category1 == "" {
		return errors.New("category rule has no category1")
	}
	return nil
}

// Set is the complete rule table of one provider.
type Set struct {
	Rules   []Rule            `yaml:"rules,omitempty"`
	Aliases map[string]string `yaml:"aliases,omitempty"`
	Shared  []string          `yaml:"shared,omitempty"`
	// Counterparty rules are tried in order and the first match wins.
	Counterparty []CategoryRule `yaml:"counterparty,omitempty"`
	// Description rules all run after Counterparty; the last match wins.
	Description []CategoryRule `yaml:"description,omitempty"`
}

// Apply returns the first row rule matching raw.
func (s Set) Apply(raw Raw) (Rule, bool) {
	for _, r := range s.Rules {
		if matchAll(r.When, raw) {
			return r, true
		}
	}
	return Rule{}, false
}

// Categorize returns category1 and category2 for raw classified as typ.
// Transfers never carry categories.
func (s Set) Categorize(raw Raw, typ model.TxType) (string, string) {
	if typ == model.TypeTransfer {
		return "", ""
	}

	c1, c2 := model.Uncategorized, ""
	for _, r := range s.Counterparty {
		if r.Match(raw, typ) {
			c1, c2 = r.Category1, r.Category2
			break
		}
	}
	for _, r := range s.Description {
		if r.Match(raw, typ) {
			c1, c2 = r.Category1, r.Category2
		}
	}
	return c1, c2
}

// Merge returns s with every non-empty section of o replacing its own.
func (s Set) Merge(o Set) Set {
	if len(o.Rules) > 0 {
		s.Rules = o.Rules
	}
	if len(o.Aliases) > 0 {
		s.Aliases = o.Aliases
	}
	if len(o.Shared) > 0 {
		s.Shared = o.Shared
	}
	if len(o.Counterparty) > 0 {
		s.Counterparty = o.Counterparty
	}
	if len(o.Description) > 0 {
		s.Description = o.Description
	}
	return s
}

// Validate checks every rule for unknown fields, ops, kinds and types.
func (s Set) Validate() error {
	for i, r := range s.Rules {
		if err := r.validate(); err != nil {
			return fmt.Errorf("%w: rule %d (%s): %w", common.ErrConfig, i+1, r.Name, err)
		}
	}
	for i, r := range s.Counterparty {
		if err := r.validate(); err != nil {
			return fmt.Errorf("%w: counterparty rule %d: %w", common.ErrConfig, i+1, err)
		}
	}
	for i, r := range s.Description {
		if err := r.validate(); err != nil {
			return fmt.Errorf("%w: description rule %d: %w", common.ErrConfig, i+1, err)
		}
	}
	return nil
}
