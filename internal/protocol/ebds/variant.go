package ebds

import "fmt"

// ParseReply 按控制字节（必要时再按长度或子类型）把设备侧原始帧
// 分发到具体应答类型。返回值可再按需断言为 OmnibusReplyOps 等能力接口。
func ParseReply(raw []byte) (MessageOps, error) {
	if err := ValidateShape(raw); err != nil {
		return nil, err
	}
	declared := FrameLength(raw)
	if err := VerifyChecksum(raw[:declared]); err != nil {
		return nil, err
	}

	switch Control(raw[idxCtrl]).MessageType() {
	case MessageTypeOmnibusReply:
		return ParseOmnibusReply(raw)

	case MessageTypeCalibrate:
		return ParseCalibrateReply(raw)

	case MessageTypeAuxCommand:
		// 辅助应答不回显子类型，按帧长区分布局
		switch declared {
		case LenPartNumberReply:
			return ParsePartNumberReply(raw)
		case LenQueryVariantNameReply:
			return ParseQueryVariantNameReply(raw)
		case LenQueryDeviceCapabilitiesReply:
			return ParseQueryDeviceCapabilitiesReply(raw)
		default:
			return nil, fmt.Errorf("%w: aux reply length %d", ErrUnknownType, declared)
		}

	case MessageTypeExtended:
		switch sub := ExtendedSubtypeOf(raw); sub {
		case ExtNoteSpecification:
			return ParseExtendedNoteReply(raw)
		case ExtSetNoteInhibits:
			return ParseSetNoteInhibitsReply(raw)
		case ExtSetEscrowTimeout:
			return ParseSetEscrowTimeoutReply(raw)
		case ExtNoteRetrieved:
			// 开关确认与取走事件同长，按结果字节区分
			if declared == LenNoteRetrievedReply && raw[idxRetrievedResult] == noteRetrievedEventMarker {
				return ParseNoteRetrievedEvent(raw)
			}
			return ParseNoteRetrievedReply(raw)
		default:
			return nil, fmt.Errorf("%w: extended subtype %s", ErrUnknownType, sub)
		}

	default:
		return nil, fmt.Errorf("%w: reply type %s", ErrUnknownType, Control(raw[idxCtrl]).MessageType())
	}
}

// ReplyStatus 若应答携带状态字节则返回其状态视图
func ReplyStatus(m MessageOps) (StatusView, bool) {
	r, ok := m.(OmnibusReplyOps)
	if !ok {
		return StatusView{}, false
	}
	return r.StatusFlags(), true
}
