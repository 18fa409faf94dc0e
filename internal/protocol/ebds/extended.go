package ebds

import (
	"fmt"
	"strconv"
	"strings"
)

// 扩展报文子类型字节位置
const idxExtSubtype = idxData

// ExtendedSubtype 扩展报文（Type 7）子类型
type ExtendedSubtype byte

const (
	ExtBarcodeReply      ExtendedSubtype = 0x01
	ExtNoteSpecification ExtendedSubtype = 0x02
	ExtSetNoteInhibits   ExtendedSubtype = 0x03
	ExtSetEscrowTimeout  ExtendedSubtype = 0x04
	ExtNoteRetrieved     ExtendedSubtype = 0x0b
	ExtAdvancedBookmark  ExtendedSubtype = 0x0d
	ExtClearAuditData    ExtendedSubtype = 0x1d
)

func (s ExtendedSubtype) String() string {
	switch s {
	case ExtBarcodeReply:
		return "barcodeReply"
	case ExtNoteSpecification:
		return "noteSpecification"
	case ExtSetNoteInhibits:
		return "setNoteInhibits"
	case ExtSetEscrowTimeout:
		return "setEscrowTimeout"
	case ExtNoteRetrieved:
		return "noteRetrieved"
	case ExtAdvancedBookmark:
		return "advancedBookmark"
	case ExtClearAuditData:
		return "clearAuditData"
	default:
		return fmt.Sprintf("extended(0x%02x)", byte(s))
	}
}

// ExtendedSubtypeOf 读取帧中的扩展子类型。
// 要求帧已通过形状校验且类型为 Extended。
func ExtendedSubtypeOf(raw []byte) ExtendedSubtype {
	return ExtendedSubtype(raw[idxExtSubtype])
}

// fromBytesExtended 扩展报文的反序列化：通用校验之后再比对子类型
func fromBytesExtended(m *message, raw []byte, want ExtendedSubtype) error {
	if err := m.FromBytes(raw); err != nil {
		return err
	}
	if have := ExtendedSubtype(m.buf[idxExtSubtype]); have != want {
		return fmt.Errorf("%w: have subtype %s, expected %s", ErrTypeMismatch, have, want)
	}
	return nil
}

// QueryExtendedNoteSpecification 扩展纸币规格查询（子类型 0x02）。
// 携带常规命令的三个数据字节外加待查的纸币索引。
// 索引 0 为特殊值：设备返回最近一次暂存/压钞的纸币规格。
type QueryExtendedNoteSpecification struct {
	message
	omnibusFields
}

// 纸币索引在扩展规格查询中的位置
const idxQueryNoteIndex = idxData + 4

// NewQueryExtendedNoteSpecification 创建扩展纸币规格查询
func NewQueryExtendedNoteSpecification(noteIndex byte) *QueryExtendedNoteSpecification {
	q := &QueryExtendedNoteSpecification{
		message: newMessage(LenQueryExtendedNoteSpecification, MessageTypeExtended),
	}
	q.buf[idxExtSubtype] = byte(ExtNoteSpecification)
	q.buf[idxQueryNoteIndex] = noteIndex
	q.omnibusFields = omnibusFields{m: &q.message, off: idxData + 1}
	return q
}

// NoteIndex 待查的纸币索引
func (q *QueryExtendedNoteSpecification) NoteIndex() byte { return q.buf[idxQueryNoteIndex] }

// SetNoteIndex 写入纸币索引
func (q *QueryExtendedNoteSpecification) SetNoteIndex(i byte) { q.buf[idxQueryNoteIndex] = i }

// Subtype 返回扩展子类型
func (q *QueryExtendedNoteSpecification) Subtype() ExtendedSubtype {
	return ExtendedSubtype(q.buf[idxExtSubtype])
}

// FromBytes 反序列化并校验子类型
func (q *QueryExtendedNoteSpecification) FromBytes(raw []byte) error {
	return fromBytesExtended(&q.message, raw, ExtNoteSpecification)
}

// 扩展纸币应答的数据字节位置。
// 子类型之后是六个状态字节，随后为纸币描述字段。
const (
	idxExtStatus = idxData + 1

	idxNoteIndex          = 10
	idxNoteISOCode        = 11 // 3 字节 ASCII
	idxNoteBaseValue      = 14 // 3 字节 ASCII
	idxNoteSign           = 17 // '+' 或 '-'
	idxNoteExponent       = 18 // 2 字节 ASCII
	idxNoteOrientation    = 20
	idxNoteType           = 21
	idxNoteSeries         = 22
	idxNoteCompatibility  = 23
	idxNoteVersion        = 24
	idxNoteClassification = 25
)

// ExtendedNoteReply 扩展纸币上报（子类型 0x02）。
// 扩展模式下设备以本报文代替常规应答，状态字节后附完整纸币描述。
// 同时作为扩展规格查询的应答。
type ExtendedNoteReply struct {
	message
	replyStatus
}

// NewExtendedNoteReply 创建扩展纸币上报报文
func NewExtendedNoteReply() *ExtendedNoteReply {
	r := &ExtendedNoteReply{message: newMessage(LenExtendedNoteReply, MessageTypeExtended)}
	r.buf[idxExtSubtype] = byte(ExtNoteSpecification)
	r.replyStatus = replyStatus{m: &r.message, off: idxExtStatus}
	return r
}

// Subtype 返回扩展子类型
func (r *ExtendedNoteReply) Subtype() ExtendedSubtype {
	return ExtendedSubtype(r.buf[idxExtSubtype])
}

// FromBytes 反序列化并校验子类型
func (r *ExtendedNoteReply) FromBytes(raw []byte) error {
	return fromBytesExtended(&r.message, raw, ExtNoteSpecification)
}

// NoteIndex 纸币在设备面额表中的索引（1 起；0 表示无效/未识别）
func (r *ExtendedNoteReply) NoteIndex() byte { return r.buf[idxNoteIndex] }

// SetNoteIndex 写入纸币索引
func (r *ExtendedNoteReply) SetNoteIndex(i byte) { r.buf[idxNoteIndex] = i }

// ISOCode 纸币的 ISO 4217 货币代码
func (r *ExtendedNoteReply) ISOCode() Currency {
	return ParseCurrency(r.buf[idxNoteISOCode : idxNoteISOCode+3])
}

// SetISOCode 写入货币代码（取前三字节）
func (r *ExtendedNoteReply) SetISOCode(c Currency) {
	field := r.buf[idxNoteISOCode : idxNoteISOCode+3]
	for i := range field {
		field[i] = ' '
	}
	copy(field, string(c))
}

// BaseValue 解析 ASCII 基础币值；不可解析返回 0
func (r *ExtendedNoteReply) BaseValue() uint {
	s := strings.TrimSpace(string(r.buf[idxNoteBaseValue : idxNoteBaseValue+3]))
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// SetBaseValue 以三位十进制 ASCII 写入基础币值
func (r *ExtendedNoteReply) SetBaseValue(v uint) {
	copy(r.buf[idxNoteBaseValue:idxNoteBaseValue+3], fmt.Sprintf("%03d", v%1000))
}

// Sign 指数符号字节（'+' 放大，'-' 缩小）
func (r *ExtendedNoteReply) Sign() byte { return r.buf[idxNoteSign] }

// SetSign 写入指数符号
func (r *ExtendedNoteReply) SetSign(s byte) { r.buf[idxNoteSign] = s }

// Exponent 解析 ASCII 十进制指数；不可解析返回 0
func (r *ExtendedNoteReply) Exponent() uint {
	s := strings.TrimSpace(string(r.buf[idxNoteExponent : idxNoteExponent+2]))
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0
	}
	return uint(v)
}

// SetExponent 以两位十进制 ASCII 写入指数
func (r *ExtendedNoteReply) SetExponent(e uint) {
	copy(r.buf[idxNoteExponent:idxNoteExponent+2], fmt.Sprintf("%02d", e%100))
}

// Orientation 纸币进钞方向字节
func (r *ExtendedNoteReply) Orientation() byte { return r.buf[idxNoteOrientation] }

// NoteType 纸币类型字符
func (r *ExtendedNoteReply) NoteType() byte { return r.buf[idxNoteType] }

// Series 纸币系列字符
func (r *ExtendedNoteReply) Series() byte { return r.buf[idxNoteSeries] }

// Compatibility 兼容性版本字符
func (r *ExtendedNoteReply) Compatibility() byte { return r.buf[idxNoteCompatibility] }

// Version 纸币版本字符
func (r *ExtendedNoteReply) Version() byte { return r.buf[idxNoteVersion] }

// Classification 鉴别分级
func (r *ExtendedNoteReply) Classification() BanknoteClassification {
	return BanknoteClassification(r.buf[idxNoteClassification])
}

// SetClassification 写入鉴别分级
func (r *ExtendedNoteReply) SetClassification(c BanknoteClassification) {
	r.buf[idxNoteClassification] = byte(c)
}

// Banknote 解析出完整纸币描述，币值已按指数折算
func (r *ExtendedNoteReply) Banknote() Banknote {
	return Banknote{
		Value:          banknoteValue(r.BaseValue(), r.Sign(), r.Exponent()),
		ISOCode:        r.ISOCode(),
		NoteType:       r.NoteType(),
		Series:         r.Series(),
		Compatibility:  r.Compatibility(),
		Version:        r.Version(),
		Classification: r.Classification(),
	}
}

// ParseExtendedNoteReply 从原始字节解析扩展纸币上报
func ParseExtendedNoteReply(raw []byte) (*ExtendedNoteReply, error) {
	r := NewExtendedNoteReply()
	if err := r.FromBytes(raw); err != nil {
		return nil, err
	}
	return r, nil
}

// 暂存超时命令的数据字节位置
const (
	idxEscrowNotesTimeout   = idxData + 4
	idxEscrowBarcodeTimeout = idxData + 5
)

// SetEscrowTimeoutCommand 设置暂存超时（子类型 0x04）。
// 纸币与条码凭证的暂存超时各占一个字节，单位秒，0 表示不超时。
type SetEscrowTimeoutCommand struct {
	message
	omnibusFields
}

// NewSetEscrowTimeoutCommand 创建暂存超时设置命令
func NewSetEscrowTimeoutCommand(notes, barcode byte) *SetEscrowTimeoutCommand {
	c := &SetEscrowTimeoutCommand{
		message: newMessage(LenSetEscrowTimeoutCommand, MessageTypeExtended),
	}
	c.buf[idxExtSubtype] = byte(ExtSetEscrowTimeout)
	c.buf[idxEscrowNotesTimeout] = notes & 0x7f
	c.buf[idxEscrowBarcodeTimeout] = barcode & 0x7f
	c.omnibusFields = omnibusFields{m: &c.message, off: idxData + 1}
	return c
}

// Subtype 返回扩展子类型
func (c *SetEscrowTimeoutCommand) Subtype() ExtendedSubtype {
	return ExtendedSubtype(c.buf[idxExtSubtype])
}

// NotesTimeout 纸币暂存超时秒数
func (c *SetEscrowTimeoutCommand) NotesTimeout() byte {
	return c.buf[idxEscrowNotesTimeout] & 0x7f
}

// BarcodeTimeout 条码凭证暂存超时秒数
func (c *SetEscrowTimeoutCommand) BarcodeTimeout() byte {
	return c.buf[idxEscrowBarcodeTimeout] & 0x7f
}

// FromBytes 反序列化并校验子类型
func (c *SetEscrowTimeoutCommand) FromBytes(raw []byte) error {
	return fromBytesExtended(&c.message, raw, ExtSetEscrowTimeout)
}

// SetEscrowTimeoutReply 暂存超时设置的应答：子类型加六个状态字节。
type SetEscrowTimeoutReply struct {
	message
	replyStatus
}

// NewSetEscrowTimeoutReply 创建暂存超时设置应答
func NewSetEscrowTimeoutReply() *SetEscrowTimeoutReply {
	r := &SetEscrowTimeoutReply{message: newMessage(LenSetEscrowTimeoutReply, MessageTypeExtended)}
	r.buf[idxExtSubtype] = byte(ExtSetEscrowTimeout)
	r.replyStatus = replyStatus{m: &r.message, off: idxExtStatus}
	return r
}

// Subtype 返回扩展子类型
func (r *SetEscrowTimeoutReply) Subtype() ExtendedSubtype {
	return ExtendedSubtype(r.buf[idxExtSubtype])
}

// FromBytes 反序列化并校验子类型
func (r *SetEscrowTimeoutReply) FromBytes(raw []byte) error {
	return fromBytesExtended(&r.message, raw, ExtSetEscrowTimeout)
}

// ParseSetEscrowTimeoutReply 从原始字节解析暂存超时设置应答
func ParseSetEscrowTimeoutReply(raw []byte) (*SetEscrowTimeoutReply, error) {
	r := NewSetEscrowTimeoutReply()
	if err := r.FromBytes(raw); err != nil {
		return nil, err
	}
	return r, nil
}
