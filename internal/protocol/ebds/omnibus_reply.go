package ebds

// OmnibusReply 各数据字节位置（常规应答，数据区从 idxData 开始）
const (
	idxDeviceState     = idxData
	idxDeviceStatus    = idxData + 1
	idxExceptionStatus = idxData + 2
	idxMiscDeviceState = idxData + 3
	idxModelNumber     = idxData + 4
	idxCodeRevision    = idxData + 5

	// 状态数据字节个数
	statusDataLen = 6
)

// OmnibusReplyOps 设备侧应答的统一状态读取能力，叠加在 MessageOps 之上。
// 不同应答类型的状态字节偏移不同，但经由本接口得到同一套归一化视图。
type OmnibusReplyOps interface {
	MessageOps

	// DeviceState 设备状态位域（数据字节 0）
	DeviceState() DeviceState
	SetDeviceState(DeviceState)
	// DeviceStatus 设备状况位域（数据字节 1）
	DeviceStatus() DeviceStatus
	SetDeviceStatus(DeviceStatus)
	// ExceptionStatus 异常状况位域（数据字节 2）
	ExceptionStatus() ExceptionStatus
	SetExceptionStatus(ExceptionStatus)
	// MiscDeviceState 杂项状态位域（数据字节 3）
	MiscDeviceState() MiscDeviceState
	SetMiscDeviceState(MiscDeviceState)
	// ModelNumber 设备型号（数据字节 4）
	ModelNumber() byte
	// CodeRevision 固件版本（数据字节 5）
	CodeRevision() byte

	// StatusFlags 解码归一化状态视图
	StatusFlags() StatusView
	// HasError 错误组任一标志置位
	HasError() bool
	// RawEventBytes 返回未解释的原始状态字节
	RawEventBytes() []byte
}

// replyStatus 状态字节访问的公共实现，按状态区起始偏移参数化。
// 常规应答状态区在 idxData，扩展应答在子类型字节之后。
type replyStatus struct {
	m   *message
	off int
}

func (r *replyStatus) DeviceState() DeviceState {
	return DeviceState(r.m.buf[r.off])
}

func (r *replyStatus) SetDeviceState(s DeviceState) {
	r.m.buf[r.off] = byte(s)
}

func (r *replyStatus) DeviceStatus() DeviceStatus {
	return DeviceStatus(r.m.buf[r.off+1])
}

func (r *replyStatus) SetDeviceStatus(s DeviceStatus) {
	r.m.buf[r.off+1] = byte(s)
}

func (r *replyStatus) ExceptionStatus() ExceptionStatus {
	return ExceptionStatus(r.m.buf[r.off+2])
}

func (r *replyStatus) SetExceptionStatus(s ExceptionStatus) {
	r.m.buf[r.off+2] = byte(s)
}

func (r *replyStatus) MiscDeviceState() MiscDeviceState {
	return MiscDeviceState(r.m.buf[r.off+3])
}

func (r *replyStatus) SetMiscDeviceState(s MiscDeviceState) {
	r.m.buf[r.off+3] = byte(s)
}

func (r *replyStatus) ModelNumber() byte { return r.m.buf[r.off+4] & 0x7f }

func (r *replyStatus) SetModelNumber(b byte) { r.m.buf[r.off+4] = b & 0x7f }

func (r *replyStatus) CodeRevision() byte { return r.m.buf[r.off+5] & 0x7f }

func (r *replyStatus) SetCodeRevision(b byte) { r.m.buf[r.off+5] = b & 0x7f }

func (r *replyStatus) StatusFlags() StatusView {
	return decodeStatusView(
		r.DeviceState(),
		r.DeviceStatus(),
		r.ExceptionStatus(),
		r.MiscDeviceState(),
		r.ModelNumber(),
		r.CodeRevision(),
	)
}

func (r *replyStatus) HasError() bool { return r.StatusFlags().HasError() }

func (r *replyStatus) RawEventBytes() []byte {
	return r.m.buf[r.off : r.off+statusDataLen]
}

// NoteValue 非扩展模式下上报的面额
func (r *replyStatus) NoteValue() StandardDenomination {
	return DenominationFromCode(r.ExceptionStatus().NoteValueCode())
}

// OmnibusReply 常规应答（Type 2）。
// 设备对常规轮询命令最常见的应答，六个数据字节全部为状态位域。
type OmnibusReply struct {
	message
	replyStatus
}

// NewOmnibusReply 创建常规应答报文
func NewOmnibusReply() *OmnibusReply {
	r := &OmnibusReply{message: newMessage(LenOmnibusReply, MessageTypeOmnibusReply)}
	r.replyStatus = replyStatus{m: &r.message, off: idxDeviceState}
	return r
}

// ParseOmnibusReply 从原始字节解析常规应答
func ParseOmnibusReply(raw []byte) (*OmnibusReply, error) {
	r := NewOmnibusReply()
	if err := r.FromBytes(raw); err != nil {
		return nil, err
	}
	return r, nil
}
