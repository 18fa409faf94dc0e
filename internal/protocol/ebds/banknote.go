package ebds

import (
	"fmt"
	"math"
)

// BanknoteClassification 扩展上报中的钞票鉴别分级
type BanknoteClassification byte

const (
	// ClassificationDisabled 设备未启用分级或不支持
	ClassificationDisabled BanknoteClassification = 0
	// ClassificationUnidentified 一级：无法识别
	ClassificationUnidentified BanknoteClassification = 1
	// ClassificationSuspectCounterfeit 二级：疑似假钞
	ClassificationSuspectCounterfeit BanknoteClassification = 2
	// ClassificationSuspectZero 三级：疑似零值钞
	ClassificationSuspectZero BanknoteClassification = 3
	// ClassificationGenuine 四级：真钞
	ClassificationGenuine BanknoteClassification = 4
)

func (c BanknoteClassification) String() string {
	switch c {
	case ClassificationDisabled:
		return "disabled"
	case ClassificationUnidentified:
		return "unidentified"
	case ClassificationSuspectCounterfeit:
		return "suspectCounterfeit"
	case ClassificationSuspectZero:
		return "suspectZero"
	case ClassificationGenuine:
		return "genuine"
	default:
		return "unknown"
	}
}

// Banknote 扩展纸币上报解析出的完整纸币描述。
// Value 由基础值与十进制指数折算得出，已包含符号。
type Banknote struct {
	Value          float64                `json:"value"`
	ISOCode        Currency               `json:"isoCode"`
	NoteType       byte                   `json:"noteType"`
	Series         byte                   `json:"series"`
	Compatibility  byte                   `json:"compatibility"`
	Version        byte                   `json:"version"`
	Classification BanknoteClassification `json:"classification"`
}

// banknoteValue 按基础值、指数符号与指数折算币值
func banknoteValue(base uint, sign byte, exp uint) float64 {
	scale := math.Pow10(int(exp))
	if sign == '-' {
		return float64(base) / scale
	}
	return float64(base) * scale
}

func (b Banknote) String() string {
	return fmt.Sprintf("%s %.2f type=%c series=%c class=%s",
		b.ISOCode, b.Value, b.NoteType, b.Series, b.Classification)
}
