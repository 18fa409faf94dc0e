package ebds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAuxCommand_Subtypes 测试各查询子类型的命令构造
func TestAuxCommand_Subtypes(t *testing.T) {
	for _, sub := range []AuxSubtype{
		AuxQuerySoftwareCRC,
		AuxQueryBootPartNumber,
		AuxQueryApplicationPartNumber,
		AuxQueryVariantName,
		AuxQueryVariantPartNumber,
		AuxQueryDeviceCapabilities,
		AuxQueryApplicationID,
		AuxQueryVariantID,
	} {
		cmd := NewAuxCommand(sub)
		got, err := ParseAuxCommand(cmd.Bytes())
		require.NoError(t, err, "subtype=%s", sub)
		assert.Equal(t, sub, got.Subtype())
		d0, d1 := got.Data()
		assert.Zero(t, d0, "查询类子命令参数字节为零")
		assert.Zero(t, d1)
	}
}

// TestSoftReset 测试软复位命令布局
func TestSoftReset(t *testing.T) {
	cmd := NewSoftReset()
	raw := cmd.Bytes()
	assert.Equal(t, LenSoftReset, len(raw))
	assert.Equal(t, byte(AuxSoftReset), raw[idxAuxSubtype])
	assert.Equal(t, MessageTypeAuxCommand, cmd.MessageType())
}

// TestPartNumberReply_RoundTrip 测试件号应答读写
func TestPartNumberReply_RoundTrip(t *testing.T) {
	r := NewPartNumberReply()
	r.SetPartNumber("286123456")

	got, err := ParsePartNumberReply(r.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "286123456", got.PartNumber())
}

// TestPartNumberReply_Padding 测试短件号补空格且读取时去除
func TestPartNumberReply_Padding(t *testing.T) {
	r := NewPartNumberReply()
	r.SetPartNumber("V27")
	assert.Equal(t, "V27", r.PartNumber())

	// 超长截断到九字节
	r.SetPartNumber("0123456789ABC")
	assert.Equal(t, "012345678", r.PartNumber())
}

// TestQueryVariantNameReply 测试变体名称应答读写
func TestQueryVariantNameReply(t *testing.T) {
	r := NewQueryVariantNameReply()
	r.SetVariantName("SCN8322 US")

	got, err := ParseQueryVariantNameReply(r.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "SCN8322 US", got.VariantName())
	assert.Equal(t, LenQueryVariantNameReply, got.Len())
}

// TestQueryDeviceCapabilitiesReply 测试能力应答字节透出
func TestQueryDeviceCapabilitiesReply(t *testing.T) {
	r := NewQueryDeviceCapabilitiesReply()
	r.SetCapabilities([6]byte{0x11, 0x02, 0x00, 0x08, 0x00, 0x01})

	got, err := ParseQueryDeviceCapabilitiesReply(r.Bytes())
	require.NoError(t, err)
	assert.Equal(t, [6]byte{0x11, 0x02, 0x00, 0x08, 0x00, 0x01}, got.Capabilities())
	assert.Equal(t, byte(0x11), got.Capability(0))
	assert.Zero(t, got.Capability(6), "越界返回 0")
	assert.Zero(t, got.Capability(-1))
}

// TestAuxReply_LengthMismatch 测试帧长与类型不符被拒收
func TestAuxReply_LengthMismatch(t *testing.T) {
	r := NewQueryVariantNameReply()
	_, err := ParsePartNumberReply(r.Bytes())
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
