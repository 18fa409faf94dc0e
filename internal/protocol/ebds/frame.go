package ebds

import "fmt"

// 帧格式：STX(1) + LEN(1) + CTRL(1) + DATA(var) + ETX(1) + CHK(1)
// LEN 为整帧长度（含 STX 与 CHK），CHK 为 LEN 字节到最后一个数据字节的异或。
const (
	// STX 帧起始标记
	STX = 0x02
	// ETX 帧结束标记
	ETX = 0x03
	// ENQ 特殊中断模式魔术字节（不支持，仅用于识别后丢弃）
	ENQ = 0x05
)

// 固定字节位置
const (
	idxSTX  = 0
	idxLen  = 1
	idxCtrl = 2
	idxData = 3
)

const (
	// MinMessageLen 最小帧长：STX + LEN + CTRL + ETX + CHK
	MinMessageLen = 5
	// MaxMessageLen 最大帧长（LEN 为单字节）
	MaxMessageLen = 255
	// MetadataLen 帧开销字节数，总长减去它即数据区长度
	MetadataLen = 5
)

// FrameLength 读取帧声明的总长度字段
func FrameLength(buf []byte) int {
	if len(buf) <= idxLen {
		return 0
	}
	return int(buf[idxLen])
}

// ValidateShape 校验帧的结构合法性：长度、起止标记、报文类型。
// 形状校验必须先于校验和：校验和覆盖范围取决于声明长度。
func ValidateShape(buf []byte) error {
	if len(buf) > MaxMessageLen {
		return fmt.Errorf("%w: %d bytes, maximum %d", ErrOversizedFrame, len(buf), MaxMessageLen)
	}
	if len(buf) < MinMessageLen {
		return fmt.Errorf("%w: %d bytes, minimum %d", ErrTruncatedFrame, len(buf), MinMessageLen)
	}

	declared := FrameLength(buf)
	if declared < MinMessageLen {
		return fmt.Errorf("%w: declared length %d, minimum %d", ErrTruncatedFrame, declared, MinMessageLen)
	}
	if len(buf) < declared {
		return fmt.Errorf("%w: have %d bytes, declared %d", ErrTruncatedFrame, len(buf), declared)
	}

	if buf[idxSTX] != STX {
		return fmt.Errorf("%w: expected STX 0x%02x, have 0x%02x", ErrFraming, STX, buf[idxSTX])
	}
	if buf[declared-2] != ETX {
		return fmt.Errorf("%w: expected ETX 0x%02x, have 0x%02x", ErrFraming, ETX, buf[declared-2])
	}

	if mt := Control(buf[idxCtrl]).MessageType(); !mt.Known() {
		return fmt.Errorf("%w: control byte 0x%02x", ErrUnknownType, buf[idxCtrl])
	}
	return nil
}

// StreamDecoder 流式切帧：按 STX+LEN 从字节流中切出完整帧，
// 坏字节逐字节跳过，直到重新同步到 STX。
type StreamDecoder struct {
	buf []byte
}

// NewStreamDecoder 创建流式解码器
func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{}
}

// Feed 追加收到的字节并返回其中所有完整帧（只保证形状与校验和合法）
func (d *StreamDecoder) Feed(p []byte) [][]byte {
	d.buf = append(d.buf, p...)
	var out [][]byte
	for {
		// 重新同步到 STX
		for len(d.buf) > 0 && d.buf[0] != STX {
			d.buf = d.buf[1:]
		}
		if len(d.buf) < MinMessageLen {
			return out
		}
		declared := FrameLength(d.buf)
		if declared < MinMessageLen {
			d.buf = d.buf[1:]
			continue
		}
		if len(d.buf) < declared {
			return out
		}
		frame := d.buf[:declared]
		if ValidateShape(frame) != nil || VerifyChecksum(frame) != nil {
			d.buf = d.buf[1:]
			continue
		}
		out = append(out, append([]byte(nil), frame...))
		d.buf = d.buf[declared:]
	}
}
