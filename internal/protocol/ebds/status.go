package ebds

// 应答数据字节的位域定义。全部用显式掩码/移位解码，
// 保留位不丢弃：StatusView 会把未识别的位原样上报。

func setBit(b, mask byte, v bool) byte {
	if v {
		return b | mask
	}
	return b &^ mask
}

// DeviceState 应答数据字节 0：设备当前状态。
// Stacked/Returned/Rejected 互斥，同一帧内不会同时置位。
type DeviceState byte

const (
	stateIdling    = 1 << 0
	stateAccepting = 1 << 1
	stateEscrowed  = 1 << 2
	stateStacking  = 1 << 3
	stateStacked   = 1 << 4
	stateReturning = 1 << 5
	stateReturned  = 1 << 6

	// 已定义的状态位集合，其余为保留位
	deviceStateKnown = 0b0111_1111
)

// Idling 设备空闲，未处理纸币
func (s DeviceState) Idling() bool { return s&stateIdling != 0 }

// Accepting 设备正在吸入纸币
func (s DeviceState) Accepting() bool { return s&stateAccepting != 0 }

// Escrowed 暂存位上有一张已验证的纸币
func (s DeviceState) Escrowed() bool { return s&stateEscrowed != 0 }

// Stacking 设备正在压钞
func (s DeviceState) Stacking() bool { return s&stateStacking != 0 }

// Stacked 压钞完成事件
func (s DeviceState) Stacked() bool { return s&stateStacked != 0 }

// Returning 设备正在退钞
func (s DeviceState) Returning() bool { return s&stateReturning != 0 }

// Returned 退钞完成事件
func (s DeviceState) Returned() bool { return s&stateReturned != 0 }

// OutOfService 七个状态位全零表示设备停止服务
func (s DeviceState) OutOfService() bool { return s&deviceStateKnown == 0 }

// Unrecognized 返回保留位中被置位的部分
func (s DeviceState) Unrecognized() byte { return byte(s) &^ deviceStateKnown }

func (s *DeviceState) SetIdling(v bool)    { *s = DeviceState(setBit(byte(*s), stateIdling, v)) }
func (s *DeviceState) SetAccepting(v bool) { *s = DeviceState(setBit(byte(*s), stateAccepting, v)) }
func (s *DeviceState) SetEscrowed(v bool)  { *s = DeviceState(setBit(byte(*s), stateEscrowed, v)) }
func (s *DeviceState) SetStacking(v bool)  { *s = DeviceState(setBit(byte(*s), stateStacking, v)) }
func (s *DeviceState) SetStacked(v bool)   { *s = DeviceState(setBit(byte(*s), stateStacked, v)) }
func (s *DeviceState) SetReturning(v bool) { *s = DeviceState(setBit(byte(*s), stateReturning, v)) }
func (s *DeviceState) SetReturned(v bool)  { *s = DeviceState(setBit(byte(*s), stateReturned, v)) }

// DeviceStatus 应答数据字节 1：与状态机无关的设备状况。
type DeviceStatus byte

const (
	statusCheated          = 1 << 0
	statusRejected         = 1 << 1
	statusJammed           = 1 << 2
	statusStackerFull      = 1 << 3
	statusCassetteAttached = 1 << 4
	statusPaused           = 1 << 5
	statusCalibration      = 1 << 6

	deviceStatusKnown = 0b0111_1111
)

// Cheated 检测到疑似作弊行为
func (s DeviceStatus) Cheated() bool { return s&statusCheated != 0 }

// Rejected 纸币无法验证并已退还
func (s DeviceStatus) Rejected() bool { return s&statusRejected != 0 }

// Jammed 通道堵塞，需要人工干预
func (s DeviceStatus) Jammed() bool { return s&statusJammed != 0 }

// StackerFull 钱箱已满，设备停止服务
func (s DeviceStatus) StackerFull() bool { return s&statusStackerFull != 0 }

// CassetteAttached 钱箱在位；未置位表示钱箱被取下
func (s DeviceStatus) CassetteAttached() bool { return s&statusCassetteAttached != 0 }

// Paused 上一张纸币未处理完时用户又塞入新钞
func (s DeviceStatus) Paused() bool { return s&statusPaused != 0 }

// Calibration 设备处于标定模式
func (s DeviceStatus) Calibration() bool { return s&statusCalibration != 0 }

// Unrecognized 返回保留位中被置位的部分
func (s DeviceStatus) Unrecognized() byte { return byte(s) &^ deviceStatusKnown }

func (s *DeviceStatus) SetCheated(v bool)  { *s = DeviceStatus(setBit(byte(*s), statusCheated, v)) }
func (s *DeviceStatus) SetRejected(v bool) { *s = DeviceStatus(setBit(byte(*s), statusRejected, v)) }
func (s *DeviceStatus) SetJammed(v bool)   { *s = DeviceStatus(setBit(byte(*s), statusJammed, v)) }
func (s *DeviceStatus) SetStackerFull(v bool) {
	*s = DeviceStatus(setBit(byte(*s), statusStackerFull, v))
}
func (s *DeviceStatus) SetCassetteAttached(v bool) {
	*s = DeviceStatus(setBit(byte(*s), statusCassetteAttached, v))
}
func (s *DeviceStatus) SetPaused(v bool) { *s = DeviceStatus(setBit(byte(*s), statusPaused, v)) }
func (s *DeviceStatus) SetCalibration(v bool) {
	*s = DeviceStatus(setBit(byte(*s), statusCalibration, v))
}

// CashBoxStatus 钱箱状态，由 DeviceStatus 推导
type CashBoxStatus byte

const (
	CashBoxAttached CashBoxStatus = iota
	CashBoxRemoved
	CashBoxFull
)

func (c CashBoxStatus) String() string {
	switch c {
	case CashBoxAttached:
		return "attached"
	case CashBoxRemoved:
		return "removed"
	case CashBoxFull:
		return "full"
	default:
		return "unknown"
	}
}

// CashBox 由钱箱相关位推导出钱箱状态
func (s DeviceStatus) CashBox() CashBoxStatus {
	switch {
	case s.StackerFull():
		return CashBoxFull
	case s.CassetteAttached():
		return CashBoxAttached
	default:
		return CashBoxRemoved
	}
}

// ExceptionStatus 应答数据字节 2：异常状况与非扩展模式下的面额上报。
type ExceptionStatus byte

const (
	excPowerUp        = 1 << 0
	excInvalidCommand = 1 << 1
	excFailure        = 1 << 2
	excTransportOpen  = 1 << 6

	excNoteValueMask  = 0b0011_1000
	excNoteValueShift = 3

	exceptionStatusKnown = 0b0111_1111
)

// PowerUp 设备刚上电，初始化未完成
func (s ExceptionStatus) PowerUp() bool { return s&excPowerUp != 0 }

// InvalidCommand 设备收到了无效命令
func (s ExceptionStatus) InvalidCommand() bool { return s&excInvalidCommand != 0 }

// Failure 设备故障并停止服务
func (s ExceptionStatus) Failure() bool { return s&excFailure != 0 }

// TransportOpen 钞道被打开（上电时也可能上报一次）
func (s ExceptionStatus) TransportOpen() bool { return s&excTransportOpen != 0 }

// NoteValueCode 非扩展模式的面额编码（0 表示未知/无）。
// 仅当 Escrowed 或 Stacked 置位时有效。
func (s ExceptionStatus) NoteValueCode() byte {
	return (byte(s) & excNoteValueMask) >> excNoteValueShift
}

// Unrecognized 返回保留位中被置位的部分
func (s ExceptionStatus) Unrecognized() byte { return byte(s) &^ exceptionStatusKnown }

func (s *ExceptionStatus) SetPowerUp(v bool) {
	*s = ExceptionStatus(setBit(byte(*s), excPowerUp, v))
}
func (s *ExceptionStatus) SetInvalidCommand(v bool) {
	*s = ExceptionStatus(setBit(byte(*s), excInvalidCommand, v))
}
func (s *ExceptionStatus) SetFailure(v bool) {
	*s = ExceptionStatus(setBit(byte(*s), excFailure, v))
}
func (s *ExceptionStatus) SetTransportOpen(v bool) {
	*s = ExceptionStatus(setBit(byte(*s), excTransportOpen, v))
}
func (s *ExceptionStatus) SetNoteValueCode(code byte) {
	*s = ExceptionStatus((byte(*s) &^ excNoteValueMask) | (code<<excNoteValueShift)&excNoteValueMask)
}

// MiscDeviceState 应答数据字节 3：杂项设备状态。
type MiscDeviceState byte

const (
	miscStalled       = 1 << 0
	miscFlashDownload = 1 << 1
	miscPreStack      = 1 << 2
	miscRawBarcode    = 1 << 3
	miscCapabilities  = 1 << 4
	miscDisabled      = 1 << 5

	miscStateKnown = 0b0011_1111
)

// Stalled 设备卡滞
func (s MiscDeviceState) Stalled() bool { return s&miscStalled != 0 }

// FlashDownload 固件下载就绪
func (s MiscDeviceState) FlashDownload() bool { return s&miscFlashDownload != 0 }

// PreStack 纸币已过不可退还点（已废弃的协议位）
func (s MiscDeviceState) PreStack() bool { return s&miscPreStack != 0 }

// RawBarcode 24 位条码不压缩为 18 位
func (s MiscDeviceState) RawBarcode() bool { return s&miscRawBarcode != 0 }

// Capabilities 支持 QueryDeviceCapabilities 命令
func (s MiscDeviceState) Capabilities() bool { return s&miscCapabilities != 0 }

// Disabled 设备被禁用
func (s MiscDeviceState) Disabled() bool { return s&miscDisabled != 0 }

// Unrecognized 返回保留位中被置位的部分
func (s MiscDeviceState) Unrecognized() byte { return byte(s) &^ miscStateKnown }

func (s *MiscDeviceState) SetStalled(v bool) {
	*s = MiscDeviceState(setBit(byte(*s), miscStalled, v))
}
func (s *MiscDeviceState) SetFlashDownload(v bool) {
	*s = MiscDeviceState(setBit(byte(*s), miscFlashDownload, v))
}
func (s *MiscDeviceState) SetPreStack(v bool) {
	*s = MiscDeviceState(setBit(byte(*s), miscPreStack, v))
}
func (s *MiscDeviceState) SetRawBarcode(v bool) {
	*s = MiscDeviceState(setBit(byte(*s), miscRawBarcode, v))
}
func (s *MiscDeviceState) SetCapabilities(v bool) {
	*s = MiscDeviceState(setBit(byte(*s), miscCapabilities, v))
}
func (s *MiscDeviceState) SetDisabled(v bool) {
	*s = MiscDeviceState(setBit(byte(*s), miscDisabled, v))
}
