package ebds

// 控制字节位划分：
// bit 0    ACK 翻转位（会话序号）
// bit 1..3 设备类型
// bit 4..6 报文类型
// bit 7    保留，始终为 0
const (
	maskAckNak      = 0b0000_0001
	maskDeviceType  = 0b0000_1110
	maskMessageType = 0b0111_0000
	shiftDeviceType = 1
	shiftMsgType    = 4
)

// Control EBDS 控制字节
type Control byte

// AckNak 读取 ACK 翻转位
func (c Control) AckNak() AckNak {
	return AckNak(c & maskAckNak)
}

// SetAckNak 写入 ACK 翻转位
func (c Control) SetAckNak(a AckNak) Control {
	return (c &^ maskAckNak) | Control(byte(a)&0b1)
}

// DeviceType 读取设备类型位
func (c Control) DeviceType() DeviceType {
	return DeviceType((c & maskDeviceType) >> shiftDeviceType)
}

// SetDeviceType 写入设备类型位
func (c Control) SetDeviceType(d DeviceType) Control {
	return (c &^ maskDeviceType) | Control(byte(d)<<shiftDeviceType)&maskDeviceType
}

// MessageType 读取报文类型位
func (c Control) MessageType() MessageType {
	return MessageType((c & maskMessageType) >> shiftMsgType)
}

// SetMessageType 写入报文类型位
func (c Control) SetMessageType(m MessageType) Control {
	return (c &^ maskMessageType) | Control(byte(m)<<shiftMsgType)&maskMessageType
}

// AckNak 控制字节的 ACK 翻转位取值
type AckNak byte

const (
	Ack AckNak = 0
	Nak AckNak = 1
)

// Toggle 返回翻转后的值
func (a AckNak) Toggle() AckNak {
	return a ^ 1
}

func (a AckNak) String() string {
	if a == Nak {
		return "NAK"
	}
	return "ACK"
}

// DeviceType 控制字节中的设备类型
type DeviceType byte

const (
	// DeviceTypeBillAcceptor 纸币接收器
	DeviceTypeBillAcceptor DeviceType = 0b000
	// DeviceTypeBillRecycler 纸币循环机
	DeviceTypeBillRecycler DeviceType = 0b001
)

func (d DeviceType) String() string {
	switch d {
	case DeviceTypeBillAcceptor:
		return "BillAcceptor"
	case DeviceTypeBillRecycler:
		return "BillRecycler"
	default:
		return "Reserved"
	}
}

// MessageType 报文类型（控制字节 bit 4..6）
type MessageType byte

const (
	// MessageTypeOmnibusCommand 主机常规轮询命令
	MessageTypeOmnibusCommand MessageType = 0b001
	// MessageTypeOmnibusReply 设备常规应答
	MessageTypeOmnibusReply MessageType = 0b010
	// MessageTypeOmnibusBookmark 书签模式应答
	MessageTypeOmnibusBookmark MessageType = 0b011
	// MessageTypeCalibrate 标定命令/应答
	MessageTypeCalibrate MessageType = 0b100
	// MessageTypeFirmwareDownload 固件下载（保留，未实现传输流程）
	MessageTypeFirmwareDownload MessageType = 0b101
	// MessageTypeAuxCommand 辅助命令
	MessageTypeAuxCommand MessageType = 0b110
	// MessageTypeExtended 扩展命令/应答（带子类型字节）
	MessageTypeExtended MessageType = 0b111
)

// Known 判断报文类型是否为协议注册值（0b000 保留）
func (m MessageType) Known() bool {
	return m >= MessageTypeOmnibusCommand && m <= MessageTypeExtended
}

func (m MessageType) String() string {
	switch m {
	case MessageTypeOmnibusCommand:
		return "OmnibusCommand"
	case MessageTypeOmnibusReply:
		return "OmnibusReply"
	case MessageTypeOmnibusBookmark:
		return "OmnibusBookmark"
	case MessageTypeCalibrate:
		return "Calibrate"
	case MessageTypeFirmwareDownload:
		return "FirmwareDownload"
	case MessageTypeAuxCommand:
		return "AuxCommand"
	case MessageTypeExtended:
		return "Extended"
	default:
		return "Reserved"
	}
}
