package ebds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 真实总线上抓到的参考帧
var (
	// 常规命令：启用全部面额，其余字节为零
	rawOmnibusCommand = []byte{0x02, 0x08, 0x10, 0x7f, 0x00, 0x00, 0x03, 0x67}
	// 常规应答：全部状态位为零（停止服务）
	rawOmnibusReply = []byte{0x02, 0x0b, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x2b}
)

// TestValidateShape_OK 测试合法帧通过形状校验
func TestValidateShape_OK(t *testing.T) {
	require.NoError(t, ValidateShape(rawOmnibusCommand))
	require.NoError(t, ValidateShape(rawOmnibusReply))
}

// TestValidateShape_Truncated 测试各个长度的截断帧都报截断错误
func TestValidateShape_Truncated(t *testing.T) {
	for n := 0; n < len(rawOmnibusReply); n++ {
		err := ValidateShape(rawOmnibusReply[:n])
		require.Error(t, err, "len=%d", n)
		assert.ErrorIs(t, err, ErrTruncatedFrame, "len=%d", n)
	}
}

// TestValidateShape_DeclaredTooShort 测试声明长度小于最小帧长
func TestValidateShape_DeclaredTooShort(t *testing.T) {
	raw := append([]byte(nil), rawOmnibusCommand...)
	raw[idxLen] = 4
	assert.ErrorIs(t, ValidateShape(raw), ErrTruncatedFrame)
}

// TestValidateShape_Oversized 测试超过单字节长度上限的输入
func TestValidateShape_Oversized(t *testing.T) {
	raw := make([]byte, MaxMessageLen+1)
	assert.ErrorIs(t, ValidateShape(raw), ErrOversizedFrame)
}

// TestValidateShape_BadMarkers 测试起止标记错误
func TestValidateShape_BadMarkers(t *testing.T) {
	// 1. STX 错误
	raw := append([]byte(nil), rawOmnibusCommand...)
	raw[idxSTX] = 0x00
	assert.ErrorIs(t, ValidateShape(raw), ErrFraming)

	// 2. ETX 错误
	raw = append([]byte(nil), rawOmnibusCommand...)
	raw[len(raw)-2] = 0x00
	assert.ErrorIs(t, ValidateShape(raw), ErrFraming)
}

// TestValidateShape_UnknownType 测试控制字节类型位为保留值
func TestValidateShape_UnknownType(t *testing.T) {
	raw := append([]byte(nil), rawOmnibusCommand...)
	raw[idxCtrl] = 0x00 // 类型位 0b000 为保留
	assert.ErrorIs(t, ValidateShape(raw), ErrUnknownType)
}

// TestStreamDecoder_Resync 测试带垃圾字节的流重新同步
func TestStreamDecoder_Resync(t *testing.T) {
	d := NewStreamDecoder()

	var stream []byte
	stream = append(stream, 0xff, 0x00, ENQ) // 噪声
	stream = append(stream, rawOmnibusCommand...)
	stream = append(stream, 0x02, 0x07) // 假 STX 后接坏帧头
	stream = append(stream, rawOmnibusReply...)

	frames := d.Feed(stream)
	require.Len(t, frames, 2)
	assert.Equal(t, rawOmnibusCommand, frames[0])
	assert.Equal(t, rawOmnibusReply, frames[1])
}

// TestStreamDecoder_SplitFeed 测试帧被任意切分到多次 Feed
func TestStreamDecoder_SplitFeed(t *testing.T) {
	for cut := 1; cut < len(rawOmnibusReply); cut++ {
		d := NewStreamDecoder()
		frames := d.Feed(rawOmnibusReply[:cut])
		require.Empty(t, frames, "cut=%d", cut)
		frames = d.Feed(rawOmnibusReply[cut:])
		require.Len(t, frames, 1, "cut=%d", cut)
		assert.Equal(t, rawOmnibusReply, frames[0])
	}
}

// TestStreamDecoder_ChecksumGarbage 测试校验和错误的帧被跳过
func TestStreamDecoder_ChecksumGarbage(t *testing.T) {
	bad := append([]byte(nil), rawOmnibusCommand...)
	bad[len(bad)-1] ^= 0x01

	d := NewStreamDecoder()
	frames := d.Feed(append(bad, rawOmnibusReply...))
	require.Len(t, frames, 1)
	assert.Equal(t, rawOmnibusReply, frames[0])
}
