package ebds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNoteRetrievedCommand_WireFormat 测试开关命令的帧布局与校验和
func TestNoteRetrievedCommand_WireFormat(t *testing.T) {
	enable := NewNoteRetrievedCommand(true)
	assert.Equal(t,
		[]byte{0x02, 0x0a, 0x70, 0x0b, 0x00, 0x00, 0x00, 0x01, 0x03, 0x70},
		enable.Bytes())

	disable := NewNoteRetrievedCommand(false)
	assert.Equal(t,
		[]byte{0x02, 0x0a, 0x70, 0x0b, 0x00, 0x00, 0x00, 0x00, 0x03, 0x71},
		disable.Bytes())
}

// TestNoteRetrievedCommand_RoundTrip 测试开关命令往返
func TestNoteRetrievedCommand_RoundTrip(t *testing.T) {
	cmd := NewNoteRetrievedCommand(true)
	cmd.SetDenomination(DenomAll)

	got, err := ParseNoteRetrievedCommand(cmd.Bytes())
	require.NoError(t, err)
	assert.True(t, got.Enable())
	assert.Equal(t, ExtNoteRetrieved, got.Subtype())
	assert.Equal(t, DenomAll, got.Denomination())
}

// TestNoteRetrievedReply_Acknowledged 测试开关确认帧解析
func TestNoteRetrievedReply_Acknowledged(t *testing.T) {
	raw := []byte{
		0x02, 0x0d, 0x70, 0x0b, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x03, 0x77,
	}

	reply, err := ParseReply(raw)
	require.NoError(t, err)

	got, ok := reply.(*NoteRetrievedReply)
	require.True(t, ok)
	assert.True(t, got.Acknowledged())

	// 确认字节为 0 表示当前配置不支持
	nak := NewNoteRetrievedReply()
	nak.SetAcknowledged(false)
	gotNak, err := ParseNoteRetrievedReply(nak.Bytes())
	require.NoError(t, err)
	assert.False(t, gotNak.Acknowledged())
}

// TestNoteRetrievedEvent_Dispatch 测试事件帧按结果字节分发
func TestNoteRetrievedEvent_Dispatch(t *testing.T) {
	raw := []byte{
		0x02, 0x0d, 0x70, 0x0b, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x7f, 0x03, 0x09,
	}

	reply, err := ParseReply(raw)
	require.NoError(t, err)

	ev, ok := reply.(*NoteRetrievedEvent)
	require.True(t, ok)
	assert.True(t, ev.Retrieved())

	// 事件帧同样携带状态字节
	_, ok = ReplyStatus(reply)
	assert.True(t, ok)
}

// TestNoteRetrievedEvent_RoundTrip 测试事件帧状态字节往返
func TestNoteRetrievedEvent_RoundTrip(t *testing.T) {
	ev := NewNoteRetrievedEvent()
	var state DeviceState
	state.SetIdling(true)
	ev.SetDeviceState(state)

	got, err := ParseNoteRetrievedEvent(ev.Bytes())
	require.NoError(t, err)
	assert.True(t, got.Retrieved())
	assert.True(t, got.StatusFlags().Idling)
}
