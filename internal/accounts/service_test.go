package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/billconv/internal/model"
)

func alipayResolver() *Resolver {
	return NewResolver(
		map[string]string{"账户余额": "支付宝零钱"},
		[]string{"支付宝零钱", "余额宝"},
	)
}

func TestResolve(t *testing.T) {
	r := alipayResolver()

	tests := []struct {
		raw    string
		member model.Member
		want   string
	}{
		{"账户余额", model.MemberYang, "支付宝零钱-杨"},
		{"支付宝零钱", model.MemberHan, "支付宝零钱-韩"},
		{"余额宝", model.MemberYang, "余额宝-杨"},
		{"花呗", model.MemberYang, "花呗"},
		{"招商银行信用卡(1234)", model.MemberHan, "招商银行信用卡(1234)"},
		{"账户余额&红包", model.MemberYang, "支付宝零钱-杨"},
		{"花呗&账户余额", model.MemberYang, "花呗"},
		{"", model.MemberYang, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Resolve(tt.raw, tt.member), "Resolve(%q, %s)", tt.raw, tt.member)
	}
}

func TestCanonical(t *testing.T) {
	r := alipayResolver()
	assert.Equal(t, "支付宝零钱", r.Canonical("账户余额"))
	assert.Equal(t, "中国银行储蓄卡", r.Canonical(" 中国银行储蓄卡 & 余额宝"))
}

func TestIsShared(t *testing.T) {
	r := alipayResolver()
	assert.True(t, r.IsShared("余额宝"))
	assert.False(t, r.IsShared("账户余额"), "aliases are not shared until resolved")
	assert.False(t, r.IsShared("花呗"))
}

func TestNewResolver_CopiesInputs(t *testing.T) {
	aliases := map[string]string{"账户余额": "支付宝零钱"}
	shared := []string{"支付宝零钱"}
	r := NewResolver(aliases, shared)

	aliases["账户余额"] = "other"
	shared[0] = "other"
	assert.Equal(t, "支付宝零钱-杨", r.Resolve("账户余额", model.MemberYang))
}
