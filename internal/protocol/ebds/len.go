package ebds

// 各报文种类的整帧长度。
// 注意：这里是帧总长，数据区长度需减去 MetadataLen。
const (
	LenOmnibusCommand = 8
	LenOmnibusReply   = 11

	LenCalibrateCommand = 8
	LenCalibrateReply   = 11

	LenAuxCommand = 8

	LenPartNumberReply              = 14
	LenQueryVariantNameReply        = 37
	LenQueryDeviceCapabilitiesReply = 11

	LenQueryExtendedNoteSpecification = 10
	LenExtendedNoteReply              = 30

	LenSetEscrowTimeoutCommand = 11
	LenSetEscrowTimeoutReply   = 12

	// LenSetNoteInhibitsBase 禁用表命令的固定部分，总长还需加使能区字节数
	LenSetNoteInhibitsBase  = 9
	LenSetNoteInhibitsCFSC  = LenSetNoteInhibitsBase + NoteInhibitsEnableLenCFSC
	LenSetNoteInhibitsSC    = LenSetNoteInhibitsBase + NoteInhibitsEnableLenSC
	LenSetNoteInhibitsReply = 12

	LenNoteRetrievedCommand = 10
	// LenNoteRetrievedReply 开关确认与取走事件共用同一帧长
	LenNoteRetrievedReply = 13

	LenSoftReset = 8
)
