package ebds

// CalibrateCommand 标定命令（Type 4）。
// 布局与常规命令一致，但设备据此进入标定模式。
type CalibrateCommand struct {
	message
	omnibusFields
}

// NewCalibrateCommand 创建标定命令
func NewCalibrateCommand() *CalibrateCommand {
	c := &CalibrateCommand{message: newMessage(LenCalibrateCommand, MessageTypeCalibrate)}
	c.omnibusFields = omnibusFields{m: &c.message, off: idxData}
	return c
}

// CalibrateReply 标定应答（Type 4），状态字节布局与常规应答一致。
type CalibrateReply struct {
	message
	replyStatus
}

// NewCalibrateReply 创建标定应答
func NewCalibrateReply() *CalibrateReply {
	r := &CalibrateReply{message: newMessage(LenCalibrateReply, MessageTypeCalibrate)}
	r.replyStatus = replyStatus{m: &r.message, off: idxData}
	return r
}

// ParseCalibrateReply 从原始字节解析标定应答
func ParseCalibrateReply(raw []byte) (*CalibrateReply, error) {
	r := NewCalibrateReply()
	if err := r.FromBytes(raw); err != nil {
		return nil, err
	}
	return r, nil
}
