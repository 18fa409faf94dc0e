package ebds

import (
	"fmt"
	"strings"
)

// 辅助命令数据字节位置：两个参数字节在前，子类型在后
const (
	idxAuxData0   = idxData
	idxAuxData1   = idxData + 1
	idxAuxSubtype = idxData + 2
)

// AuxSubtype 辅助命令（Type 6）子类型
type AuxSubtype byte

const (
	AuxQuerySoftwareCRC            AuxSubtype = 0x00
	AuxQueryBootPartNumber         AuxSubtype = 0x06
	AuxQueryApplicationPartNumber  AuxSubtype = 0x07
	AuxQueryVariantName            AuxSubtype = 0x08
	AuxQueryVariantPartNumber      AuxSubtype = 0x09
	AuxQueryDeviceCapabilities     AuxSubtype = 0x0d
	AuxQueryApplicationID          AuxSubtype = 0x0e
	AuxQueryVariantID              AuxSubtype = 0x0f
	AuxSoftReset                   AuxSubtype = 0x7f
)

func (s AuxSubtype) String() string {
	switch s {
	case AuxQuerySoftwareCRC:
		return "querySoftwareCRC"
	case AuxQueryBootPartNumber:
		return "queryBootPartNumber"
	case AuxQueryApplicationPartNumber:
		return "queryApplicationPartNumber"
	case AuxQueryVariantName:
		return "queryVariantName"
	case AuxQueryVariantPartNumber:
		return "queryVariantPartNumber"
	case AuxQueryDeviceCapabilities:
		return "queryDeviceCapabilities"
	case AuxQueryApplicationID:
		return "queryApplicationID"
	case AuxQueryVariantID:
		return "queryVariantID"
	case AuxSoftReset:
		return "softReset"
	default:
		return fmt.Sprintf("aux(0x%02x)", byte(s))
	}
}

// AuxCommand 辅助命令（Type 6）。
// 所有查询类子命令共用同一布局：两个参数字节加一个子类型字节，
// 查询类子命令的参数字节恒为零。
type AuxCommand struct {
	message
}

// NewAuxCommand 创建指定子类型的辅助命令
func NewAuxCommand(subtype AuxSubtype) *AuxCommand {
	c := &AuxCommand{message: newMessage(LenAuxCommand, MessageTypeAuxCommand)}
	c.buf[idxAuxSubtype] = byte(subtype)
	return c
}

// NewSoftReset 创建软复位命令。设备收到后复位，不应答。
func NewSoftReset() *AuxCommand { return NewAuxCommand(AuxSoftReset) }

// Subtype 返回子类型字节
func (c *AuxCommand) Subtype() AuxSubtype { return AuxSubtype(c.buf[idxAuxSubtype]) }

// Data 返回两个参数字节
func (c *AuxCommand) Data() (byte, byte) { return c.buf[idxAuxData0], c.buf[idxAuxData1] }

// SetData 写入两个参数字节
func (c *AuxCommand) SetData(d0, d1 byte) {
	c.buf[idxAuxData0] = d0
	c.buf[idxAuxData1] = d1
}

// ParseAuxCommand 从原始字节解析辅助命令
func ParseAuxCommand(raw []byte) (*AuxCommand, error) {
	c := &AuxCommand{message: newMessage(LenAuxCommand, MessageTypeAuxCommand)}
	if err := c.FromBytes(raw); err != nil {
		return nil, err
	}
	return c, nil
}

// 件号应答中 ASCII 件号的长度
const partNumberLen = 9

// PartNumberReply 件号类查询的应答。引导件号、应用件号、变体件号、
// 应用标识与变体标识五种查询共用本布局：九个 ASCII 数据字节。
type PartNumberReply struct {
	message
}

// NewPartNumberReply 创建件号应答报文
func NewPartNumberReply() *PartNumberReply {
	return &PartNumberReply{message: newMessage(LenPartNumberReply, MessageTypeAuxCommand)}
}

// PartNumber 返回去除首尾空白的件号字符串
func (r *PartNumberReply) PartNumber() string {
	return strings.TrimSpace(string(r.buf[idxData : idxData+partNumberLen]))
}

// SetPartNumber 写入件号，超长截断，不足补空格
func (r *PartNumberReply) SetPartNumber(pn string) {
	field := r.buf[idxData : idxData+partNumberLen]
	for i := range field {
		field[i] = ' '
	}
	copy(field, pn)
}

// ParsePartNumberReply 从原始字节解析件号应答
func ParsePartNumberReply(raw []byte) (*PartNumberReply, error) {
	r := NewPartNumberReply()
	if err := r.FromBytes(raw); err != nil {
		return nil, err
	}
	return r, nil
}

// 变体名称应答中 ASCII 名称的长度
const variantNameLen = LenQueryVariantNameReply - MetadataLen

// QueryVariantNameReply 变体名称查询的应答，数据区为定长 ASCII 名称。
type QueryVariantNameReply struct {
	message
}

// NewQueryVariantNameReply 创建变体名称应答报文
func NewQueryVariantNameReply() *QueryVariantNameReply {
	return &QueryVariantNameReply{message: newMessage(LenQueryVariantNameReply, MessageTypeAuxCommand)}
}

// VariantName 返回去除首尾空白的变体名称
func (r *QueryVariantNameReply) VariantName() string {
	return strings.TrimSpace(string(r.buf[idxData : idxData+variantNameLen]))
}

// SetVariantName 写入变体名称，超长截断，不足补空格
func (r *QueryVariantNameReply) SetVariantName(name string) {
	field := r.buf[idxData : idxData+variantNameLen]
	for i := range field {
		field[i] = ' '
	}
	copy(field, name)
}

// ParseQueryVariantNameReply 从原始字节解析变体名称应答
func ParseQueryVariantNameReply(raw []byte) (*QueryVariantNameReply, error) {
	r := NewQueryVariantNameReply()
	if err := r.FromBytes(raw); err != nil {
		return nil, err
	}
	return r, nil
}

// 能力应答中能力字节个数
const capabilityLen = 6

// QueryDeviceCapabilitiesReply 设备能力查询的应答，数据区为六个能力位图字节。
// 各位含义随固件版本演进，本层只透出原始字节。
type QueryDeviceCapabilitiesReply struct {
	message
}

// NewQueryDeviceCapabilitiesReply 创建设备能力应答报文
func NewQueryDeviceCapabilitiesReply() *QueryDeviceCapabilitiesReply {
	return &QueryDeviceCapabilitiesReply{message: newMessage(LenQueryDeviceCapabilitiesReply, MessageTypeAuxCommand)}
}

// Capabilities 返回六个能力字节的副本
func (r *QueryDeviceCapabilitiesReply) Capabilities() [capabilityLen]byte {
	var caps [capabilityLen]byte
	copy(caps[:], r.buf[idxData:idxData+capabilityLen])
	return caps
}

// Capability 返回第 n 个能力字节（越界返回 0）
func (r *QueryDeviceCapabilitiesReply) Capability(n int) byte {
	if n < 0 || n >= capabilityLen {
		return 0
	}
	return r.buf[idxData+n]
}

// SetCapabilities 写入六个能力字节
func (r *QueryDeviceCapabilitiesReply) SetCapabilities(caps [capabilityLen]byte) {
	copy(r.buf[idxData:idxData+capabilityLen], caps[:])
}

// ParseQueryDeviceCapabilitiesReply 从原始字节解析设备能力应答
func ParseQueryDeviceCapabilitiesReply(raw []byte) (*QueryDeviceCapabilitiesReply, error) {
	r := NewQueryDeviceCapabilitiesReply()
	if err := r.FromBytes(raw); err != nil {
		return nil, err
	}
	return r, nil
}
