package ebds

import "strings"

// StandardDenomination 面额启用位图：位 0..6 依次对应面额 1..7。
// 用在常规命令的面额字节里，控制设备接收哪些面额。
type StandardDenomination byte

const (
	DenomOne   StandardDenomination = 1 << 0
	DenomTwo   StandardDenomination = 1 << 1
	DenomThree StandardDenomination = 1 << 2
	DenomFour  StandardDenomination = 1 << 3
	DenomFive  StandardDenomination = 1 << 4
	DenomSix   StandardDenomination = 1 << 5
	DenomSeven StandardDenomination = 1 << 6

	// DenomAll 启用全部七个面额
	DenomAll StandardDenomination = 0b0111_1111
	// DenomNone 全部禁用
	DenomNone StandardDenomination = 0
)

// DenominationFromCode 把非扩展模式的面额编码（1..7）换成对应位。
// 编码 0 及越界值返回 DenomNone。
func DenominationFromCode(code byte) StandardDenomination {
	if code < 1 || code > 7 {
		return DenomNone
	}
	return StandardDenomination(1 << (code - 1))
}

// Code 返回面额编码（1..7）。要求恰好一个位被置位，否则返回 0。
func (d StandardDenomination) Code() byte {
	for i := byte(0); i < 7; i++ {
		if d == StandardDenomination(1<<i) {
			return i + 1
		}
	}
	return 0
}

// Contains 判断指定面额位是否启用
func (d StandardDenomination) Contains(v StandardDenomination) bool { return d&v == v }

func (d StandardDenomination) String() string {
	if d == DenomNone {
		return "none"
	}
	if d&DenomAll == DenomAll {
		return "all"
	}
	names := []string{"1", "2", "3", "4", "5", "6", "7"}
	var parts []string
	for i, n := range names {
		if d&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}
