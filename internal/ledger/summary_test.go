package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/billconv/internal/model"
)

func TestSummarize(t *testing.T) {
	recs := []model.Record{
		expense("a", "1"),
		expense("b", "2"),
		{Date: "c", Type: model.TypeIncome, Account1: "零钱-杨"},
		{Date: "d", Type: model.TypeTransfer, Account1: "零钱-杨", Account2: "微信零钱通-杨"},
		{Date: "e", Type: model.TypeTransfer, Account1: "支付宝零钱-杨", Account2: model.UnresolvedAccount},
		{Date: "f", Type: "/", Account1: "招商银行"},
	}

	s := Summarize(recs)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 2, s.ByType[model.TypeExpense])
	assert.Equal(t, 1, s.ByType[model.TypeIncome])
	assert.Equal(t, 2, s.ByType[model.TypeTransfer])
	assert.Zero(t, s.ByType[model.TypeRefund])
	assert.Equal(t, 1, s.ByType["/"])

	require.Len(t, s.UnresolvedTransfers, 1)
	assert.Equal(t, "e", s.UnresolvedTransfers[0].Date)
	require.Len(t, s.UnknownTypes, 1)
	assert.Equal(t, "f", s.UnknownTypes[0].Date)
	assert.True(t, s.NeedsAttention())
}

func TestSummarize_Clean(t *testing.T) {
	s := Summarize([]model.Record{expense("a", "1")})
	assert.False(t, s.NeedsAttention())
	assert.Equal(t, 1, s.Total)
}
