package importer

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/billconv/internal/model"
	"github.com/cleared-dev/billconv/internal/rules"
	"github.com/cleared-dev/billconv/internal/source"
)

// Alipay account names.
const (
	alipayWallet = "支付宝零钱"
	alipayYield  = "余额宝"
)

const (
	alipayColTime         = 0
	alipayColType         = 1
	alipayColCounterparty = 2
	alipayColDescription  = 4
	alipayColDirection    = 5
	alipayColAmount       = 6
	alipayColAccount      = 7
	alipayColStatus       = 8
	alipayColRemark       = 11
)

// Alipay returns the adapter for Alipay (支付宝) CSV exports.
func Alipay() *Profile {
	return &Profile{
		Name:      model.ProviderAlipay,
		Encoding:  source.GBK,
		Marker:    "交易时间",
		Banners:   []string{"支付宝"},
		FileHints: []string{"alipay", "zhifubao", "支付宝"},
		Columns: Columns{
			Time:         alipayColTime,
			Type:         alipayColType,
			Counterparty: alipayColCounterparty,
			Description:  alipayColDescription,
			Direction:    alipayColDirection,
			Amount:       alipayColAmount,
			Account:      alipayColAccount,
			Status:       alipayColStatus,
			Remark:       alipayColRemark,
		},
		DateLayouts: []string{"2006-01-02 15:04:05"},
		DatePolicy:  DateStrict,
		RemarkLeft:  rules.FieldDescription,
		RemarkRight: rules.FieldRemark,
		Set:         alipayRules(),
	}
}

func alipayRules() rules.Set {
	neutral := rules.Eq(rules.FieldDirection, "不计收支")
	two := decimal.NewFromInt(2)

	return rules.Set{
		Rules: []rules.Rule{
			{Name: "zero amount", When: []rules.Cond{rules.Zero()}, Kind: rules.KindSkip},
			{
				Name: "yield payout",
				When: []rules.Cond{neutral, rules.Has(rules.FieldDescription, alipayYield), rules.Has(rules.FieldDescription, "收益发放")},
				Kind: rules.KindReclassify,
				Type: model.TypeIncome,
			},
			{
				Name:     "yield auto sweep",
				When:     []rules.Cond{neutral, rules.Has(rules.FieldDescription, "余额宝-自动转入")},
				Kind:     rules.KindReclassify,
				Type:     model.TypeTransfer,
				Account1: alipayWallet,
				Account2: alipayYield,
			},
			{Name: "family card", When: []rules.Cond{neutral, rules.Has(rules.FieldAccount, "亲情卡")}, Kind: rules.KindSkip},
			{Name: "paid by others", When: []rules.Cond{neutral, rules.Has(rules.FieldAccount, "他人代付")}, Kind: rules.KindSkip},
			{Name: "not counted", When: []rules.Cond{neutral}, Kind: rules.KindSkip},
			{Name: "closed", When: []rules.Cond{rules.Eq(rules.FieldStatus, "已关闭")}, Kind: rules.KindSkip},
			{Name: "closed", When: []rules.Cond{rules.Eq(rules.FieldStatus, "交易关闭")}, Kind: rules.KindSkip},
			{
				Name: "refund",
				When: []rules.Cond{rules.Eq(rules.FieldStatus, "退款成功")},
				Kind: rules.KindReclassify,
				Type: model.TypeRefund,
			},
			{
				Name:     "credit card repayment",
				When:     []rules.Cond{rules.Eq(rules.FieldStatus, "还款成功"), rules.Eq(rules.FieldDescription, "信用卡还款")},
				Kind:     rules.KindReclassify,
				Type:     model.TypeTransfer,
				Account2: model.UnresolvedAccount,
				Notice:   "repayment target card must be filled in by hand",
			},
		},
		Aliases: map[string]string{"账户余额": alipayWallet},
		Shared:  []string{alipayWallet, alipayYield},
		Counterparty: []rules.CategoryRule{
			{When: counterparty("北京一卡通"), AmountBelow: &two, Category1: "交通", Category2: "公交"},
			{When: counterparty("北京一卡通"), Category1: "交通", Category2: "地铁"},
			{When: counterparty("饿了么"), Category1: "餐饮", Category2: "外卖"},
			{When: counterparty("兴全基金管理有限公司"), Types: []model.TxType{model.TypeIncome}, Category1: "资本", Category2: "投资收入"},
			{When: counterparty("兴全基金管理有限公司"), Types: []model.TxType{model.TypeExpense}, Category1: "资本", Category2: "投资亏损"},
			{When: append(counterparty("中国移动"), rules.Has(rules.FieldDescription, "话费充值")), Category1: "账单", Category2: "电话费"},
			{When: counterparty("蚂蚁森林"), Category1: "意外收入"},
			{When: counterparty("Steam"), Category1: "网络", Category2: "游戏"},
			{When: counterparty("众博康健大药房"), Category1: "医疗", Category2: "药品"},
			{When: counterparty("北京永辉超市有限公司"), Category1: "食材", Category2: "蔬菜"},
			{When: counterparty("北京大学口腔医院"), Category1: "医疗", Category2: "牙齿"},
			{When: counterparty("淮南牛肉汤"), Category1: "餐饮", Category2: "三餐"},
			{When: counterparty("汤鲜生浦项中心店"), Category1: "餐饮", Category2: "三餐"},
			{When: counterparty("滴滴出行（北京）网络平台技术有限公司"), Category1: "交通", Category2: "打车"},
		},
		Description: []rules.CategoryRule{
			{When: []rules.Cond{rules.Has(rules.FieldDescription, "电费")}, Category1: "账单", Category2: "电费"},
			{When: []rules.Cond{rules.Has(rules.FieldDescription, "火车票")}, Category1: "交通", Category2: "火车"},
		},
	}
}

func counterparty(name string) []rules.Cond {
	return []rules.Cond{rules.Eq(rules.FieldCounterparty, name)}
}
