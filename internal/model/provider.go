package model

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/billconv/internal/common"
)

// Provider is a payment provider whose exports can be converted.
type Provider string

const (
	ProviderAlipay Provider = "alipay"
	ProviderWeChat Provider = "wechat"
)

// Providers lists every supported provider.
var Providers = []Provider{ProviderAlipay, ProviderWeChat}

// ParseProvider resolves a provider selector, accepting pinyin aliases.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alipay", "zhifubao":
		return ProviderAlipay, nil
	case "wechat", "weixin":
		return ProviderWeChat, nil
	}
	return "", fmt.Errorf("%w: unknown provider %q", common.ErrConfig, s)
}

// Label is the human-readable name written to the source column.
func (p Provider) Label() string {
	switch p {
	case ProviderAlipay:
		return "支付宝"
	case ProviderWeChat:
		return "微信"
	}
	return string(p)
}
