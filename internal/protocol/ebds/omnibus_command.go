package ebds

// 常规命令数据字节位置
const (
	idxDenomination    = idxData
	idxOperationalMode = idxData + 1
	idxConfiguration   = idxData + 2
)

// OrientationControl 进钞方向限制
type OrientationControl byte

const (
	// OrientationOneWay 仅正面朝上且正向进钞
	OrientationOneWay OrientationControl = 0
	// OrientationTwoWay 正面朝上任意方向
	OrientationTwoWay OrientationControl = 1
	// OrientationFourWay 任意方向
	OrientationFourWay OrientationControl = 2
)

func (o OrientationControl) String() string {
	switch o {
	case OrientationOneWay:
		return "oneWay"
	case OrientationTwoWay:
		return "twoWay"
	case OrientationFourWay:
		return "fourWay"
	default:
		return "unknown"
	}
}

// PowerUpPolicy 上电时暂存位有钞的处理策略
type PowerUpPolicy byte

const (
	// PowerUpPolicyA 上电后退还暂存钞
	PowerUpPolicyA PowerUpPolicy = 0
	// PowerUpPolicyB 上电后压入暂存钞但不上报
	PowerUpPolicyB PowerUpPolicy = 1
	// PowerUpPolicyC 上电后压入暂存钞并上报
	PowerUpPolicyC PowerUpPolicy = 2
)

// OperationalMode 常规命令数据字节 1：工作模式位域
type OperationalMode byte

const (
	modeSpecialInterrupt = 1 << 0
	modeHighSecurity     = 1 << 1
	modeEscrow           = 1 << 4
	modeDocumentStack    = 1 << 5
	modeDocumentReturn   = 1 << 6

	modeOrientationMask  = 0b0000_1100
	modeOrientationShift = 2
)

// SpecialInterruptMode 启用特殊中断模式
func (m OperationalMode) SpecialInterruptMode() bool { return m&modeSpecialInterrupt != 0 }

// HighSecurity 启用高安全验钞（牺牲通过率）
func (m OperationalMode) HighSecurity() bool { return m&modeHighSecurity != 0 }

// Orientation 进钞方向限制
func (m OperationalMode) Orientation() OrientationControl {
	return OrientationControl((byte(m) & modeOrientationMask) >> modeOrientationShift)
}

// EscrowMode 启用暂存模式：纸币验证后等待主机指令再压钞/退钞
func (m OperationalMode) EscrowMode() bool { return m&modeEscrow != 0 }

// DocumentStack 暂存模式下指示压钞（仅 Escrowed 时有效）
func (m OperationalMode) DocumentStack() bool { return m&modeDocumentStack != 0 }

// DocumentReturn 暂存模式下指示退钞（仅 Escrowed 时有效）
func (m OperationalMode) DocumentReturn() bool { return m&modeDocumentReturn != 0 }

func (m *OperationalMode) SetSpecialInterruptMode(v bool) {
	*m = OperationalMode(setBit(byte(*m), modeSpecialInterrupt, v))
}
func (m *OperationalMode) SetHighSecurity(v bool) {
	*m = OperationalMode(setBit(byte(*m), modeHighSecurity, v))
}
func (m *OperationalMode) SetOrientation(o OrientationControl) {
	*m = OperationalMode((byte(*m) &^ modeOrientationMask) | (byte(o)<<modeOrientationShift)&modeOrientationMask)
}
func (m *OperationalMode) SetEscrowMode(v bool) {
	*m = OperationalMode(setBit(byte(*m), modeEscrow, v))
}
func (m *OperationalMode) SetDocumentStack(v bool) {
	*m = OperationalMode(setBit(byte(*m), modeDocumentStack, v))
}
func (m *OperationalMode) SetDocumentReturn(v bool) {
	*m = OperationalMode(setBit(byte(*m), modeDocumentReturn, v))
}

// Configuration 常规命令数据字节 2：设备配置位域
type Configuration byte

const (
	confNoPush         = 1 << 0
	confBarcode        = 1 << 1
	confExtendedNote   = 1 << 4
	confExtendedCoupon = 1 << 5

	confPowerUpMask  = 0b0000_1100
	confPowerUpShift = 2
)

// NoPush 禁止设备主动推出卡滞纸币
func (c Configuration) NoPush() bool { return c&confNoPush != 0 }

// Barcode 启用条码凭证识别
func (c Configuration) Barcode() bool { return c&confBarcode != 0 }

// PowerUp 上电暂存钞处理策略
func (c Configuration) PowerUp() PowerUpPolicy {
	return PowerUpPolicy((byte(c) & confPowerUpMask) >> confPowerUpShift)
}

// ExtendedNoteReporting 启用扩展纸币上报（应答改用扩展子类型 0x02）
func (c Configuration) ExtendedNoteReporting() bool { return c&confExtendedNote != 0 }

// ExtendedCouponReporting 启用扩展优惠券上报
func (c Configuration) ExtendedCouponReporting() bool { return c&confExtendedCoupon != 0 }

func (c *Configuration) SetNoPush(v bool) { *c = Configuration(setBit(byte(*c), confNoPush, v)) }
func (c *Configuration) SetBarcode(v bool) {
	*c = Configuration(setBit(byte(*c), confBarcode, v))
}
func (c *Configuration) SetPowerUp(p PowerUpPolicy) {
	*c = Configuration((byte(*c) &^ confPowerUpMask) | (byte(p)<<confPowerUpShift)&confPowerUpMask)
}
func (c *Configuration) SetExtendedNoteReporting(v bool) {
	*c = Configuration(setBit(byte(*c), confExtendedNote, v))
}
func (c *Configuration) SetExtendedCouponReporting(v bool) {
	*c = Configuration(setBit(byte(*c), confExtendedCoupon, v))
}

// OmnibusCommandOps 携带常规命令三个数据字节的命令能力。
// 除常规命令本身外，部分扩展命令也复用这组字节。
type OmnibusCommandOps interface {
	MessageOps

	Denomination() StandardDenomination
	SetDenomination(StandardDenomination)
	OperationalMode() OperationalMode
	SetOperationalMode(OperationalMode)
	Configuration() Configuration
	SetConfiguration(Configuration)
}

// omnibusFields 常规命令数据字节访问的公共实现，按起始偏移参数化
type omnibusFields struct {
	m   *message
	off int
}

func (f *omnibusFields) Denomination() StandardDenomination {
	return StandardDenomination(f.m.buf[f.off] & 0x7f)
}

func (f *omnibusFields) SetDenomination(d StandardDenomination) {
	f.m.buf[f.off] = byte(d) & 0x7f
}

func (f *omnibusFields) OperationalMode() OperationalMode {
	return OperationalMode(f.m.buf[f.off+1] & 0x7f)
}

func (f *omnibusFields) SetOperationalMode(m OperationalMode) {
	f.m.buf[f.off+1] = byte(m) & 0x7f
}

func (f *omnibusFields) Configuration() Configuration {
	return Configuration(f.m.buf[f.off+2] & 0x7f)
}

func (f *omnibusFields) SetConfiguration(c Configuration) {
	f.m.buf[f.off+2] = byte(c) & 0x7f
}

// OmnibusCommand 常规命令（Type 1）。
// 主机的周期轮询报文，同时下发面额、工作模式与配置。
type OmnibusCommand struct {
	message
	omnibusFields
}

// NewOmnibusCommand 创建常规命令报文（各数据字节为零值）
func NewOmnibusCommand() *OmnibusCommand {
	c := &OmnibusCommand{message: newMessage(LenOmnibusCommand, MessageTypeOmnibusCommand)}
	c.omnibusFields = omnibusFields{m: &c.message, off: idxDenomination}
	return c
}

// ParseOmnibusCommand 从原始字节解析常规命令
func ParseOmnibusCommand(raw []byte) (*OmnibusCommand, error) {
	c := NewOmnibusCommand()
	if err := c.FromBytes(raw); err != nil {
		return nil, err
	}
	return c, nil
}
