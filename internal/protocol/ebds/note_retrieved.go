package ebds

// 纸币取走功能的数据字节位置
const (
	idxRetrievedEnable = idxData + 4
	idxRetrievedResult = idxData + 7
)

// noteRetrievedEventMarker 事件帧结果字节的固定值
const noteRetrievedEventMarker = 0x7f

// NoteRetrievedCommand 开关纸币取走上报（子类型 0x0B）。
// 设备默认关闭该功能，且每次上电后都需要主机重新开启。
type NoteRetrievedCommand struct {
	message
	omnibusFields
}

// NewNoteRetrievedCommand 创建纸币取走上报开关命令
func NewNoteRetrievedCommand(enable bool) *NoteRetrievedCommand {
	c := &NoteRetrievedCommand{
		message: newMessage(LenNoteRetrievedCommand, MessageTypeExtended),
	}
	c.buf[idxExtSubtype] = byte(ExtNoteRetrieved)
	c.omnibusFields = omnibusFields{m: &c.message, off: idxData + 1}
	c.SetEnable(enable)
	return c
}

// Subtype 返回扩展子类型
func (c *NoteRetrievedCommand) Subtype() ExtendedSubtype {
	return ExtendedSubtype(c.buf[idxExtSubtype])
}

// Enable 本命令是开启还是关闭上报
func (c *NoteRetrievedCommand) Enable() bool {
	return c.buf[idxRetrievedEnable] == 0x01
}

// SetEnable 写入开关字节（0x01 开启，0x00 关闭）
func (c *NoteRetrievedCommand) SetEnable(v bool) {
	if v {
		c.buf[idxRetrievedEnable] = 0x01
	} else {
		c.buf[idxRetrievedEnable] = 0x00
	}
}

// FromBytes 反序列化并校验子类型
func (c *NoteRetrievedCommand) FromBytes(raw []byte) error {
	return fromBytesExtended(&c.message, raw, ExtNoteRetrieved)
}

// ParseNoteRetrievedCommand 从原始字节解析取走上报开关命令
func ParseNoteRetrievedCommand(raw []byte) (*NoteRetrievedCommand, error) {
	c := NewNoteRetrievedCommand(false)
	if err := c.FromBytes(raw); err != nil {
		return nil, err
	}
	return c, nil
}

// NoteRetrievedReply 开关命令的即时确认（子类型 0x0B）。
// 状态字节之后是确认字节：0x01 已接受，0x00 当前配置不支持。
type NoteRetrievedReply struct {
	message
	replyStatus
}

// NewNoteRetrievedReply 创建取走上报开关确认
func NewNoteRetrievedReply() *NoteRetrievedReply {
	r := &NoteRetrievedReply{message: newMessage(LenNoteRetrievedReply, MessageTypeExtended)}
	r.buf[idxExtSubtype] = byte(ExtNoteRetrieved)
	r.replyStatus = replyStatus{m: &r.message, off: idxExtStatus}
	return r
}

// Subtype 返回扩展子类型
func (r *NoteRetrievedReply) Subtype() ExtendedSubtype {
	return ExtendedSubtype(r.buf[idxExtSubtype])
}

// Acknowledged 设备是否接受了开关设置
func (r *NoteRetrievedReply) Acknowledged() bool {
	return r.buf[idxRetrievedResult] == 0x01
}

// SetAcknowledged 写入确认字节
func (r *NoteRetrievedReply) SetAcknowledged(v bool) {
	if v {
		r.buf[idxRetrievedResult] = 0x01
	} else {
		r.buf[idxRetrievedResult] = 0x00
	}
}

// FromBytes 反序列化并校验子类型
func (r *NoteRetrievedReply) FromBytes(raw []byte) error {
	return fromBytesExtended(&r.message, raw, ExtNoteRetrieved)
}

// ParseNoteRetrievedReply 从原始字节解析取走上报开关确认
func ParseNoteRetrievedReply(raw []byte) (*NoteRetrievedReply, error) {
	r := NewNoteRetrievedReply()
	if err := r.FromBytes(raw); err != nil {
		return nil, err
	}
	return r, nil
}

// NoteRetrievedEvent 纸币被取走的事件帧（子类型 0x0B）。
// 功能开启后，退钞或拒钞的纸币被用户从钞口取走时设备上报一帧，
// 结果字节固定为 0x7F，与开关确认帧同长。
type NoteRetrievedEvent struct {
	message
	replyStatus
}

// NewNoteRetrievedEvent 创建纸币取走事件帧
func NewNoteRetrievedEvent() *NoteRetrievedEvent {
	e := &NoteRetrievedEvent{message: newMessage(LenNoteRetrievedReply, MessageTypeExtended)}
	e.buf[idxExtSubtype] = byte(ExtNoteRetrieved)
	e.buf[idxRetrievedResult] = noteRetrievedEventMarker
	e.replyStatus = replyStatus{m: &e.message, off: idxExtStatus}
	return e
}

// Subtype 返回扩展子类型
func (e *NoteRetrievedEvent) Subtype() ExtendedSubtype {
	return ExtendedSubtype(e.buf[idxExtSubtype])
}

// Retrieved 结果字节是否为事件标记
func (e *NoteRetrievedEvent) Retrieved() bool {
	return e.buf[idxRetrievedResult] == noteRetrievedEventMarker
}

// FromBytes 反序列化并校验子类型
func (e *NoteRetrievedEvent) FromBytes(raw []byte) error {
	return fromBytesExtended(&e.message, raw, ExtNoteRetrieved)
}

// ParseNoteRetrievedEvent 从原始字节解析纸币取走事件
func ParseNoteRetrievedEvent(raw []byte) (*NoteRetrievedEvent, error) {
	e := NewNoteRetrievedEvent()
	if err := e.FromBytes(raw); err != nil {
		return nil, err
	}
	return e, nil
}
