package model

import (
	"github.com/shopspring/decimal"
)

// TxType is the direction of a ledger record. The zero value is not a valid type.
type TxType string

const (
	TypeExpense  TxType = "支出"
	TypeIncome   TxType = "收入"
	TypeTransfer TxType = "转账"
	TypeRefund   TxType = "退款"
)

// TxTypes lists the closed set of record types in output order.
var TxTypes = []TxType{TypeExpense, TypeIncome, TypeTransfer, TypeRefund}

// Valid reports whether t is one of the four known directions.
func (t TxType) Valid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer, TypeRefund:
		return true
	}
	return false
}

const (
	// DateFormat is the canonical record timestamp layout.
	DateFormat = "2006年01月02日 15:04:05"

	// DefaultCurrency is used when a source does not state one.
	DefaultCurrency = "CNY"

	// Uncategorized is the category1 value for rows no rule matched.
	Uncategorized = "未知"

	// UnresolvedAccount marks a transfer target that must be filled in by hand.
	UnresolvedAccount = "未知"
)

// Record is one row of the canonical ledger.
type Record struct {
	Date      string // DateFormat, or the raw timestamp under a lenient adapter
	Type      TxType
	Amount    decimal.Decimal // magnitude only; direction is carried by Type
	Category1 string
	Category2 string
	Account1  string // debited account, or the credited one for income
	Account2  string // transfer target only
	Remark    string
	Currency  string
	Tag       string
	Source    string // provider label
}

// NeedsTarget reports whether a transfer still lacks a usable target account.
func (r Record) NeedsTarget() bool {
	return r.Type == TypeTransfer && (r.Account2 == "" || r.Account2 == UnresolvedAccount)
}
