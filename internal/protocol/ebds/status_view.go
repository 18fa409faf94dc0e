package ebds

// StatusView 应答状态的归一化投影：把不同应答类型的位域字节
// 解码成命名标志集合。每次调用都从缓冲区现算，不做缓存，
// 缓冲区是唯一事实来源。
type StatusView struct {
	// 设备状态（数据字节 0）
	Idling    bool `json:"idling"`
	Accepting bool `json:"accepting"`
	Escrowed  bool `json:"escrowed"`
	Stacking  bool `json:"stacking"`
	Stacked   bool `json:"stacked"`
	Returning bool `json:"returning"`
	Returned  bool `json:"returned"`
	// 七个状态位全零
	OutOfService bool `json:"outOfService"`

	// 设备状况（数据字节 1）
	Cheated          bool          `json:"cheated"`
	Rejected         bool          `json:"rejected"`
	Jammed           bool          `json:"jammed"`
	StackerFull      bool          `json:"stackerFull"`
	CassetteAttached bool          `json:"cassetteAttached"`
	Paused           bool          `json:"paused"`
	Calibration      bool          `json:"calibration"`
	CashBox          CashBoxStatus `json:"cashBox"`

	// 异常状况（数据字节 2）
	PowerUp        bool `json:"powerUp"`
	InvalidCommand bool `json:"invalidCommand"`
	Failure        bool `json:"failure"`
	TransportOpen  bool `json:"transportOpen"`
	// 非扩展模式面额编码（0 = 无）
	NoteValueCode byte `json:"noteValueCode"`

	// 杂项状态（数据字节 3）
	Stalled       bool `json:"stalled"`
	FlashDownload bool `json:"flashDownload"`
	Disabled      bool `json:"disabled"`

	// 设备标识（数据字节 4、5）
	ModelNumber  byte `json:"modelNumber"`
	CodeRevision byte `json:"codeRevision"`

	// 各字节保留位中被置位的部分。协议新版本可能启用这些位，
	// 解码时原样上报，绝不吞掉或映射到相近标志。
	Unrecognized UnrecognizedBits `json:"unrecognized"`
}

// UnrecognizedBits 按字节分组的未识别位
type UnrecognizedBits struct {
	State     byte `json:"state"`
	Status    byte `json:"status"`
	Exception byte `json:"exception"`
	Misc      byte `json:"misc"`
}

// Any 是否存在任何未识别位
func (u UnrecognizedBits) Any() bool {
	return u.State|u.Status|u.Exception|u.Misc != 0
}

// DeviceStateFlag 设备主状态的语义归约，用于日志与展示
type DeviceStateFlag string

const (
	StateIdling       DeviceStateFlag = "idling"
	StateAccepting    DeviceStateFlag = "accepting"
	StateEscrowed     DeviceStateFlag = "escrowed"
	StateStacking     DeviceStateFlag = "stacking"
	StateStacked      DeviceStateFlag = "stacked"
	StateReturning    DeviceStateFlag = "returning"
	StateReturned     DeviceStateFlag = "returned"
	StateOutOfService DeviceStateFlag = "outOfService"
	// StateUnknown 仅保留位被置位时的兜底值
	StateUnknown DeviceStateFlag = "unknown"
)

func (f DeviceStateFlag) String() string { return string(f) }

// StateFlag 归约出当前的主状态。纸币流转位优先于空闲位：
// 压钞完成帧会同时携带 stacked 与 idling。
func (v StatusView) StateFlag() DeviceStateFlag {
	switch {
	case v.Escrowed:
		return StateEscrowed
	case v.Stacking:
		return StateStacking
	case v.Stacked:
		return StateStacked
	case v.Returning:
		return StateReturning
	case v.Returned:
		return StateReturned
	case v.Accepting:
		return StateAccepting
	case v.Idling:
		return StateIdling
	case v.OutOfService:
		return StateOutOfService
	}
	return StateUnknown
}

// HasError 错误组便捷归约：作弊、堵钞、钱箱满、钞道开、
// 故障、无效命令任一置位即为真。
func (v StatusView) HasError() bool {
	return v.Cheated || v.Jammed || v.StackerFull || v.TransportOpen ||
		v.Failure || v.InvalidCommand
}

// decodeStatusView 从六个应答数据字节解码归一化状态
func decodeStatusView(state DeviceState, status DeviceStatus, exc ExceptionStatus, misc MiscDeviceState, model, rev byte) StatusView {
	return StatusView{
		Idling:       state.Idling(),
		Accepting:    state.Accepting(),
		Escrowed:     state.Escrowed(),
		Stacking:     state.Stacking(),
		Stacked:      state.Stacked(),
		Returning:    state.Returning(),
		Returned:     state.Returned(),
		OutOfService: state.OutOfService(),

		Cheated:          status.Cheated(),
		Rejected:         status.Rejected(),
		Jammed:           status.Jammed(),
		StackerFull:      status.StackerFull(),
		CassetteAttached: status.CassetteAttached(),
		Paused:           status.Paused(),
		Calibration:      status.Calibration(),
		CashBox:          status.CashBox(),

		PowerUp:        exc.PowerUp(),
		InvalidCommand: exc.InvalidCommand(),
		Failure:        exc.Failure(),
		TransportOpen:  exc.TransportOpen(),
		NoteValueCode:  exc.NoteValueCode(),

		Stalled:       misc.Stalled(),
		FlashDownload: misc.FlashDownload(),
		Disabled:      misc.Disabled(),

		ModelNumber:  model,
		CodeRevision: rev,

		Unrecognized: UnrecognizedBits{
			State:     state.Unrecognized(),
			Status:    status.Unrecognized(),
			Exception: exc.Unrecognized(),
			Misc:      misc.Unrecognized(),
		},
	}
}
