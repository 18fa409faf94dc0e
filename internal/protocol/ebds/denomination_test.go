package ebds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDenomination_CodeMapping 测试面额编码与位图的互转
func TestDenomination_CodeMapping(t *testing.T) {
	for code := byte(1); code <= 7; code++ {
		d := DenominationFromCode(code)
		assert.Equal(t, code, d.Code(), "code=%d", code)
		assert.True(t, DenomAll.Contains(d))
	}

	// 编码 0 与越界值映射到空集
	assert.Equal(t, DenomNone, DenominationFromCode(0))
	assert.Equal(t, DenomNone, DenominationFromCode(8))

	// 多个位置位时没有单一编码
	assert.Zero(t, (DenomOne | DenomTwo).Code())
	assert.Zero(t, DenomNone.Code())
}

// TestDenomination_String 测试面额位图的可读输出
func TestDenomination_String(t *testing.T) {
	assert.Equal(t, "none", DenomNone.String())
	assert.Equal(t, "all", DenomAll.String())
	assert.Equal(t, "1|5", (DenomOne | DenomFive).String())
}

// TestCurrency_ValueOf 测试货币面额表查询
func TestCurrency_ValueOf(t *testing.T) {
	assert.Equal(t, uint(1), CurrencyUSD.ValueOf(1))
	assert.Equal(t, uint(100), CurrencyUSD.ValueOf(7))
	assert.Equal(t, uint(500), CurrencyEUR.ValueOf(7))

	// 未配置的面额槽位与越界编码返回 0
	assert.Zero(t, CurrencyGBP.ValueOf(7))
	assert.Zero(t, CurrencyUSD.ValueOf(0))
	assert.Zero(t, CurrencyUSD.ValueOf(8))
	assert.Zero(t, Currency("XXX").ValueOf(1))
}

// TestCurrency_Valid 测试货币代码合法性判断
func TestCurrency_Valid(t *testing.T) {
	assert.True(t, CurrencyUSD.Valid())
	assert.True(t, CurrencyAMD.Valid())
	assert.False(t, Currency("XXX").Valid())
	assert.Equal(t, CurrencyUSD, ParseCurrency([]byte("USD")))
}
