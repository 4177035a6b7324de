package importer

import (
	"github.com/cleared-dev/billconv/internal/model"
	"github.com/cleared-dev/billconv/internal/rules"
	"github.com/cleared-dev/billconv/internal/source"
)

// WeChat account names.
const (
	wechatWallet = "零钱"
	wechatYield  = "微信零钱通"
)

const (
	wechatColTime         = 0
	wechatColType         = 1
	wechatColCounterparty = 2
	wechatColDescription  = 3
	wechatColDirection    = 4
	wechatColAmount       = 5
	wechatColAccount      = 6
	wechatColStatus       = 7
	wechatColRemark       = 10
)

// WeChat returns the adapter for WeChat Pay (微信支付) CSV exports.
func WeChat() *Profile {
	return &Profile{
		Name:      model.ProviderWeChat,
		Encoding:  source.UTF8,
		Marker:    "交易时间",
		Banners:   []string{"微信支付账单明细", "微信昵称"},
		FileHints: []string{"wechat", "weixin", "微信"},
		Columns: Columns{
			Time:         wechatColTime,
			Type:         wechatColType,
			Counterparty: wechatColCounterparty,
			Description:  wechatColDescription,
			Direction:    wechatColDirection,
			Amount:       wechatColAmount,
			Account:      wechatColAccount,
			Status:       wechatColStatus,
			Remark:       wechatColRemark,
		},
		DateLayouts: []string{"2006-01-02 15:04:05", "2006/1/2 15:04:05", "2006/1/2 15:04"},
		DatePolicy:  DateLenient,
		RemarkLeft:  rules.FieldDescription,
		RemarkRight: rules.FieldCounterparty,
		Set:         wechatRules(),
	}
}

func wechatRules() rules.Set {
	return rules.Set{
		Rules: []rules.Rule{
			{Name: "fully refunded", When: []rules.Cond{rules.Eq(rules.FieldStatus, "已全额退款")}, Kind: rules.KindSkip},
			{
				Name:     "yield sweep",
				When:     []rules.Cond{rules.Eq(rules.FieldDirection, "/"), rules.Has(rules.FieldType, "转入零钱通")},
				Kind:     rules.KindReclassify,
				Type:     model.TypeTransfer,
				Account1: wechatWallet,
				Account2: wechatYield,
				Remark:   rules.FieldType,
			},
			{
				Name:     "deposited to wallet",
				When:     []rules.Cond{rules.Eq(rules.FieldStatus, "已存入零钱"), rules.Eq(rules.FieldAccount, "/")},
				Kind:     rules.KindReclassify,
				Type:     model.TypeIncome,
				Account1: wechatWallet,
			},
		},
		Shared: []string{wechatWallet, wechatYield},
		Counterparty: []rules.CategoryRule{
			{When: counterpartyHas("禹泉水处理设备"), Category1: "账单", Category2: "水费"},
			{When: counterpartyHas("北京市顺义区妇幼保健院"), Category1: "医疗", Category2: "门诊"},
			{When: counterpartyHas("易寄件"), Category1: "杂项", Category2: "快递费"},
			{When: counterpartyHas("顺义鑫绿都生活超市后沙峪店"), Category1: "食材", Category2: "蔬菜"},
			{When: counterpartyHas("永辉超市"), Category1: "食材", Category2: "蔬菜"},
		},
		Description: []rules.CategoryRule{
			{When: []rules.Cond{rules.Has(rules.FieldDescription, "霸王茶姬")}, Category1: "餐饮", Category2: "饮料"},
		},
	}
}

func counterpartyHas(name string) []rules.Cond {
	return []rules.Cond{rules.Has(rules.FieldCounterparty, name)}
}
