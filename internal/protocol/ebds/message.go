package ebds

import "fmt"

// MessageOps 所有 EBDS 报文类型的统一读写能力。
// 每个具体报文类型独占一块定长缓冲区，泛型代码（分发器、会话层）
// 通过该接口统一处理异构报文，无需关心具体布局。
type MessageOps interface {
	// Buf 返回报文缓冲区（调用方不得跨实例共享）
	Buf() []byte
	// Len 返回整帧长度
	Len() int
	// DataLen 返回数据区长度（总长减帧开销）
	DataLen() int
	// MessageType 返回控制字节中的报文类型
	MessageType() MessageType
	// DeviceType 返回控制字节中的设备类型
	DeviceType() DeviceType
	// SetDeviceType 写入设备类型
	SetDeviceType(DeviceType)
	// AckNak 返回 ACK 翻转位
	AckNak() AckNak
	// SetAckNak 写入 ACK 翻转位
	SetAckNak(AckNak)
	// SwitchAckNak 翻转 ACK 位
	SwitchAckNak()
	// Checksum 返回当前存储的校验和字节（不重新计算）
	Checksum() byte
	// CalculateChecksum 计算校验和并写入帧尾
	CalculateChecksum() byte
	// ValidateChecksum 重新计算并比对校验和
	ValidateChecksum() error
	// Bytes 写入校验和并返回可直接发送的完整帧
	Bytes() []byte
	// FromBytes 从原始字节反序列化：形状校验 → 校验和 → 类型匹配
	FromBytes(raw []byte) error
}

// message 所有报文类型的公共底座，按（总长，报文类型）参数化，
// 取代原本每类型重复的样板实现。具体类型内嵌它并只补充字段访问器。
type message struct {
	buf []byte
}

// newMessage 构造一块预置头尾字段的报文缓冲区
func newMessage(total int, typ MessageType) message {
	m := message{buf: make([]byte, total)}
	m.buf[idxSTX] = STX
	m.buf[idxLen] = byte(total)
	m.buf[total-2] = ETX
	m.setMessageType(typ)
	return m
}

func (m *message) Buf() []byte { return m.buf }

func (m *message) Len() int { return len(m.buf) }

func (m *message) DataLen() int { return len(m.buf) - MetadataLen }

func (m *message) etxIndex() int { return len(m.buf) - 2 }

func (m *message) chkIndex() int { return len(m.buf) - 1 }

func (m *message) control() Control { return Control(m.buf[idxCtrl]) }

func (m *message) setControl(c Control) { m.buf[idxCtrl] = byte(c) }

func (m *message) MessageType() MessageType { return m.control().MessageType() }

func (m *message) setMessageType(t MessageType) { m.setControl(m.control().SetMessageType(t)) }

func (m *message) DeviceType() DeviceType { return m.control().DeviceType() }

func (m *message) SetDeviceType(d DeviceType) { m.setControl(m.control().SetDeviceType(d)) }

func (m *message) AckNak() AckNak { return m.control().AckNak() }

func (m *message) SetAckNak(a AckNak) { m.setControl(m.control().SetAckNak(a)) }

func (m *message) SwitchAckNak() { m.SetAckNak(m.AckNak().Toggle()) }

func (m *message) Checksum() byte { return m.buf[m.chkIndex()] }

func (m *message) CalculateChecksum() byte { return StampChecksum(m.buf) }

func (m *message) ValidateChecksum() error { return VerifyChecksum(m.buf) }

func (m *message) Bytes() []byte {
	m.CalculateChecksum()
	return m.buf
}

// FromBytes 按固定顺序校验后把原始帧拷入自身缓冲区：
// 先形状（长度依赖于声明值），再校验和，最后类型匹配。
func (m *message) FromBytes(raw []byte) error {
	if err := ValidateShape(raw); err != nil {
		return err
	}
	declared := FrameLength(raw)
	if err := VerifyChecksum(raw[:declared]); err != nil {
		return err
	}
	if declared != len(m.buf) {
		return fmt.Errorf("%w: frame length %d, expected %d", ErrTypeMismatch, declared, len(m.buf))
	}
	have := Control(raw[idxCtrl]).MessageType()
	if want := m.MessageType(); have != want {
		return fmt.Errorf("%w: have %s, expected %s", ErrTypeMismatch, have, want)
	}
	copy(m.buf, raw[:declared])
	return nil
}
