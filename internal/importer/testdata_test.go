package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

const alipayHeader = "交易时间,交易分类,交易对方,对方账号,商品说明,收/支,金额,收/付款方式,交易状态,交易订单号,商家订单号,备注,"

const alipayBanner = `------------------------------------------------------------------------------------
导出信息：
姓名：测试
支付宝账户：test@example.com
起始时间：[2024-03-01 00:00:00]    终止时间：[2024-03-31 23:59:59]
导出交易类型：[全部]
----------------------支付宝（中国）网络技术有限公司  电子客户回单----------------------
`

// alipayCSV builds a GBK-encoded Alipay export from data rows.
func alipayCSV(t *testing.T, rows ...string) string {
	t.Helper()
	text := alipayBanner + alipayHeader + "\n" + strings.Join(rows, "\n") + "\n"
	out, err := simplifiedchinese.GBK.NewEncoder().String(text)
	require.NoError(t, err)
	return out
}

const wechatHeader = "交易时间,交易类型,交易对方,商品,收/支,金额(元),支付方式,当前状态,交易单号,商户单号,备注"

const wechatBanner = "\ufeff微信支付账单明细,,,,,,,,,,\n" +
	"微信昵称：[测试],,,,,,,,,,\n" +
	"起始时间：[2024-03-01 00:00:00] 终止时间：[2024-03-31 23:59:59],,,,,,,,,,\n" +
	"----------------------微信支付账单明细列表--------------------,,,,,,,,,,\n"

// wechatCSV builds a UTF-8 WeChat export from data rows.
func wechatCSV(rows ...string) string {
	return wechatBanner + wechatHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
