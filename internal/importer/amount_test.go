package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/billconv/internal/common"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		currency string
	}{
		{"¥1,234.50", "1234.50", "CNY"},
		{"￥25.00", "25.00", "CNY"},
		{"25.5", "25.5", "CNY"},
		{" 3.00 ", "3.00", "CNY"},
		{"-¥12.00", "12.00", "CNY"},
		{"$9.99", "9.99", "USD"},
		{"HK$100", "100", "HKD"},
		{"€15", "15", "EUR"},
		{"0.00", "0", "CNY"},
	}
	for _, tt := range tests {
		got, currency, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(dec(tt.want)), "ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		assert.False(t, got.IsNegative())
		assert.Equal(t, tt.currency, currency, tt.in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "¥", "abc", "1.2.3", "12元"} {
		_, _, err := ParseAmount(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, common.ErrFormat)
		assert.Contains(t, err.Error(), "unsupported amount")
	}
}

func TestFormatDate(t *testing.T) {
	layouts := []string{"2006-01-02 15:04:05", "2006/1/2 15:04"}

	tests := []struct {
		in, want string
	}{
		{"2024-03-05 08:07:06", "2024年03月05日 08:07:06"},
		{"2024/3/5 8:07", "2024年03月05日 08:07:00"},
		{"2024/12/25 23:59", "2024年12月25日 23:59:00"},
	}
	for _, tt := range tests {
		got, err := FormatDate(tt.in, layouts)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := FormatDate("2024.03.05", layouts)
	assert.ErrorIs(t, err, common.ErrFormat)
}
