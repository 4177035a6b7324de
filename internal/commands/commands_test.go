package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/cleared-dev/billconv/internal/commands"
	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/ledger"
	"github.com/cleared-dev/billconv/internal/model"
)

const alipayExport = "支付宝交易记录明细查询\n" +
	"交易时间,交易分类,交易对方,对方账号,商品说明,收/支,金额,收/付款方式,交易状态,交易订单号,商家订单号,备注,\n" +
	"2024-03-05 12:30:00,餐饮美食,饿了么,/,午餐外卖,支出,25.50,账户余额,交易成功,T1,M1,,\n" +
	"2024-03-05 11:00:00,日用百货,某商店,/,商品,支出,10.00,花呗,交易关闭,T2,,,\n"

const wechatExport = "微信支付账单明细,,,,,,,,,,\n" +
	"交易时间,交易类型,交易对方,商品,收/支,金额(元),支付方式,当前状态,交易单号,商户单号,备注\n" +
	"2024-03-06 08:00:00,商户消费,霸王茶姬,伯牙绝弦,支出,¥18.00,零钱,支付成功,W1,M1,/\n"

func writeExports(t *testing.T, dir string) (string, string) {
	t.Helper()
	gbk, err := simplifiedchinese.GBK.NewEncoder().String(alipayExport)
	require.NoError(t, err)
	ali := filepath.Join(dir, "alipay_record.csv")
	require.NoError(t, os.WriteFile(ali, []byte(gbk), 0o644))
	wx := filepath.Join(dir, "wechat.csv")
	require.NoError(t, os.WriteFile(wx, []byte(wechatExport), 0o644))
	return ali, wx
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	ali, wx := writeExports(t, dir)
	out := filepath.Join(dir, "ledger.csv")

	stdout, _, err := run(t, "convert", "-u", "yang", "-o", out, "alipay="+ali, "weixin="+wx)
	require.NoError(t, err)
	assert.Contains(t, stdout, "支付宝 alipay_record.csv: 1 records, 1 skipped, 0 rejected")
	assert.Contains(t, stdout, "微信 wechat.csv: 1 records, 0 skipped, 0 rejected")
	assert.Contains(t, stdout, "Total: 2, 支出 2, 收入 0, 转账 0, 退款 0")
	assert.Contains(t, stdout, "Wrote 2 records to "+out)

	recs, err := ledger.ReadFile(out)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2024年03月06日 08:00:00", recs[0].Date)
	assert.Equal(t, "零钱-杨", recs[0].Account1)
	assert.Equal(t, "支付宝零钱-杨", recs[1].Account1)
	assert.Equal(t, "支付宝", recs[1].Source)
}

func TestConvert_DetectNoSourceArchive(t *testing.T) {
	dir := t.TempDir()
	writeExports(t, dir)
	out := filepath.Join(t.TempDir(), "ledger.csv")

	stdout, _, err := run(t, "convert", "--user", "han", "--dir", dir, "--no-source", "--archive", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Archived 2 input files")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	first := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, strings.Join(ledger.Header, ","), first)
	assert.Contains(t, string(data), "零钱-韩")

	assert.FileExists(t, filepath.Join(dir, "processed", "wechat.csv"))
}

func TestConvert_DirWithOutputInside(t *testing.T) {
	dir := t.TempDir()
	writeExports(t, dir)
	out := filepath.Join(dir, "ledger.csv")

	for i := 0; i < 2; i++ {
		stdout, _, err := run(t, "convert", "-u", "yang", "--dir", dir, "-o", out)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Wrote 2 records to "+out)
		assert.NotContains(t, stdout, "ledger.csv:")
	}
}

func TestConvert_UserFromEnv(t *testing.T) {
	dir := t.TempDir()
	_, wx := writeExports(t, dir)
	out := filepath.Join(dir, "ledger.csv")
	t.Setenv("BILLCONV_USER", "han")

	_, _, err := run(t, "convert", "-o", out, "wechat="+wx)
	require.NoError(t, err)

	recs, err := ledger.ReadFile(out)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "零钱-韩", recs[0].Account1)
}

func TestConvert_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	_, wx := writeExports(t, dir)
	out := filepath.Join(dir, "from-settings.csv")
	settings := filepath.Join(dir, "billconv.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("user: yang\noutput: "+out+"\n"), 0o644))

	_, _, err := run(t, "convert", "--config", settings, wx)
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestConvert_RulesOverride(t *testing.T) {
	dir := t.TempDir()
	_, wx := writeExports(t, dir)
	out := filepath.Join(dir, "ledger.csv")
	rulesPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(`providers:
  wechat:
    description:
      - when:
          - {field: counterparty, op: equals, value: 霸王茶姬}
        category1: 餐饮
        category2: 奶茶
`), 0o644))

	_, _, err := run(t, "convert", "-u", "yang", "--rules", rulesPath, "-o", out, "wechat="+wx)
	require.NoError(t, err)

	recs, err := ledger.ReadFile(out)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "奶茶", recs[0].Category2)
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	ali, _ := writeExports(t, dir)
	out := filepath.Join(dir, "ledger.csv")

	_, _, err := run(t, "convert", "-o", out, "alipay="+ali)
	assert.ErrorIs(t, err, common.ErrConfig, "missing user")

	_, _, err = run(t, "convert", "-u", "li", "-o", out, "alipay="+ali)
	assert.ErrorIs(t, err, common.ErrConfig)

	_, _, err = run(t, "convert", "-u", "yang", "-o", out, "paypal="+ali)
	assert.ErrorIs(t, err, common.ErrConfig)

	_, _, err = run(t, "convert", "-u", "yang", "-o", out)
	assert.ErrorIs(t, err, common.ErrConfig, "no inputs")

	_, _, err = run(t, "convert", "-u", "yang", "--log-level", "loud", "-o", out, "alipay="+ali)
	assert.ErrorIs(t, err, common.ErrConfig)

	_, _, err = run(t, "convert", "-u", "yang", "--config", filepath.Join(dir, "none.yaml"), "alipay="+ali)
	assert.ErrorIs(t, err, common.ErrConfig)

	assert.NoFileExists(t, out)
}

func TestConvert_ValidationFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	wx := filepath.Join(dir, "wechat.csv")
	require.NoError(t, os.WriteFile(wx, []byte("微信支付账单明细,,,,,,,,,,\n"+
		"交易时间,交易类型,交易对方,商品,收/支,金额(元),支付方式,当前状态,交易单号,商户单号,备注\n"+
		"2024-04-02 09:00:00,零钱提现,招商银行(1234),/,/,¥100.00,招商银行(1234),提现已到账,W8,/,/\n"), 0o644))
	out := filepath.Join(dir, "ledger.csv")

	stdout, _, err := run(t, "convert", "-u", "yang", "-o", out, "wechat="+wx)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, stdout, `unknown type "/"`)
	assert.Contains(t, stdout, "invalid: record 1")
	assert.Contains(t, stdout, "Nothing written to "+out)
	assert.NoFileExists(t, out)
}

func TestConvert_JSONLogs(t *testing.T) {
	dir := t.TempDir()
	_, wx := writeExports(t, dir)

	_, stderr, err := run(t, "convert", "-u", "yang", "--log-format", "json", "-o", filepath.Join(dir, "o.csv"), "wechat="+wx)
	require.NoError(t, err)
	assert.Contains(t, stderr, `"message":"wrote ledger"`)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	require.NoError(t, ledger.WriteFile(path, []model.Record{
		{Date: "2024年03月01日 10:00:00", Type: model.TypeTransfer, Account1: "支付宝零钱-杨", Account2: model.UnresolvedAccount, Currency: "CNY"},
	}, ledger.DefaultOptions))

	stdout, _, err := run(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total: 1")
	assert.Contains(t, stdout, "Needs attention: 1 records")
	assert.Contains(t, stdout, "transfer needs target account: 2024年03月01日 10:00:00")
	assert.Contains(t, stdout, "is valid")

	_, _, err = run(t, "check", filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, common.ErrIO)
}

func TestRulesDump(t *testing.T) {
	stdout, _, err := run(t, "rules", "dump")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "providers:\n"))
	assert.Contains(t, stdout, "alipay:")
	assert.Contains(t, stdout, "wechat:")

	path := filepath.Join(t.TempDir(), "rules.yaml")
	_, _, err = run(t, "rules", "dump", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(data))
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "billconv version dev")
}
