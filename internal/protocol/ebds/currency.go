package ebds

// Currency ISO 4217 货币代码（三字母大写 ASCII）
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyCNY Currency = "CNY"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyEUR Currency = "EUR"
	CurrencyAUD Currency = "AUD"
	CurrencyCAD Currency = "CAD"
	CurrencyMXN Currency = "MXN"
	CurrencyAMD Currency = "AMD"
)

// baseValues 各货币面额编码（1..7）对应的基础币值。
// 非扩展模式只上报 3 位编码，币值由主机侧查表得出。
var baseValues = map[Currency][7]uint{
	CurrencyUSD: {1, 2, 5, 10, 20, 50, 100},
	CurrencyCNY: {1, 5, 10, 20, 50, 100, 0},
	CurrencyGBP: {5, 10, 20, 50, 0, 0, 0},
	CurrencyJPY: {1000, 2000, 5000, 10000, 0, 0, 0},
	CurrencyEUR: {5, 10, 20, 50, 100, 200, 500},
	CurrencyAUD: {5, 10, 20, 50, 100, 0, 0},
	CurrencyCAD: {5, 10, 20, 50, 100, 0, 0},
	CurrencyMXN: {20, 50, 100, 200, 500, 1000, 0},
	CurrencyAMD: {1000, 2000, 5000, 10000, 20000, 50000, 100000},
}

// Valid 货币是否在已知表内
func (c Currency) Valid() bool {
	_, ok := baseValues[c]
	return ok
}

// ValueOf 返回该货币下指定面额编码（1..7）的币值；
// 未知货币或编码返回 0。
func (c Currency) ValueOf(code byte) uint {
	vals, ok := baseValues[c]
	if !ok || code < 1 || code > 7 {
		return 0
	}
	return vals[code-1]
}

// ParseCurrency 从原始 ASCII 字节解析货币代码
func ParseCurrency(raw []byte) Currency {
	return Currency(raw)
}
