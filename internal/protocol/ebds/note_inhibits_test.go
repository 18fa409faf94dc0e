package ebds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSetNoteInhibits_WireFormat 测试禁用表命令的帧布局与校验和
func TestSetNoteInhibits_WireFormat(t *testing.T) {
	cmd := NewSetNoteInhibitsCommand(NoteInhibitsEnableLenCFSC)
	require.NoError(t, cmd.EnableNoteIndex(1))

	want := []byte{
		0x02, 0x11, 0x70, 0x03, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x63,
	}
	assert.Equal(t, want, cmd.Bytes())
}

// TestSetNoteInhibits_EnableNoteIndex 测试按表索引逐张使能
func TestSetNoteInhibits_EnableNoteIndex(t *testing.T) {
	cmd := NewSetNoteInhibitsCommand(NoteInhibitsEnableLenCFSC)

	// 1. 索引 1 起，第 8 张落在第二个使能字节的 bit0
	require.NoError(t, cmd.EnableNoteIndex(8))
	assert.True(t, cmd.NoteEnabled(8))
	assert.False(t, cmd.NoteEnabled(7))
	notes := cmd.EnabledNotes()
	assert.Equal(t, EnableNote(0x01), notes[1])

	// 2. 越界索引被拒绝
	assert.Error(t, cmd.EnableNoteIndex(0))
	assert.Error(t, cmd.EnableNoteIndex(NoteInhibitsEnableLenCFSC*7+1))
}

// TestSetNoteInhibits_Variants 测试两种使能区长度
func TestSetNoteInhibits_Variants(t *testing.T) {
	cfsc := NewSetNoteInhibitsCommand(NoteInhibitsEnableLenCFSC)
	assert.Equal(t, LenSetNoteInhibitsCFSC, cfsc.Len())

	sc := NewSetNoteInhibitsCommand(NoteInhibitsEnableLenSC)
	assert.Equal(t, LenSetNoteInhibitsSC, sc.Len())
	assert.Equal(t, NoteInhibitsEnableLenSC, sc.EnableLen())

	// 非法长度回落到 CFSC
	assert.Equal(t, LenSetNoteInhibitsCFSC, NewSetNoteInhibitsCommand(3).Len())
}

// TestParseSetNoteInhibitsCommand 测试命令按帧长还原使能区
func TestParseSetNoteInhibitsCommand(t *testing.T) {
	src := NewSetNoteInhibitsCommand(NoteInhibitsEnableLenSC)
	src.SetEnabledNotes([]EnableNote{EnableNoteAll(), 0x05})

	got, err := ParseSetNoteInhibitsCommand(src.Bytes())
	require.NoError(t, err)
	assert.Equal(t, NoteInhibitsEnableLenSC, got.EnableLen())
	assert.Equal(t, EnableNoteAll(), got.EnabledNotes()[0])
	assert.True(t, got.NoteEnabled(8))
	assert.True(t, got.NoteEnabled(10))
	assert.False(t, got.NoteEnabled(9))

	// 长度不在两种变体之内的帧被拒收
	_, err = ParseSetNoteInhibitsCommand(NewSetEscrowTimeoutCommand(1, 2).Bytes())
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

// TestSetNoteInhibitsReply_WireFormat 测试替代应答的捕获帧
func TestSetNoteInhibitsReply_WireFormat(t *testing.T) {
	raw := []byte{
		0x02, 0x0c, 0x70, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x7f,
	}

	reply, err := ParseReply(raw)
	require.NoError(t, err)

	got, ok := reply.(*SetNoteInhibitsReply)
	require.True(t, ok)
	assert.Equal(t, ExtSetNoteInhibits, got.Subtype())

	view, ok := ReplyStatus(reply)
	require.True(t, ok)
	assert.True(t, view.OutOfService)
}

// TestSetNoteInhibitsReply_RoundTrip 测试应答状态字节往返
func TestSetNoteInhibitsReply_RoundTrip(t *testing.T) {
	reply := NewSetNoteInhibitsReply()
	var state DeviceState
	state.SetIdling(true)
	reply.SetDeviceState(state)

	got, err := ParseSetNoteInhibitsReply(reply.Bytes())
	require.NoError(t, err)
	assert.True(t, got.StatusFlags().Idling)

	// 子类型不符被拒收
	_, err = ParseSetNoteInhibitsReply(NewSetEscrowTimeoutReply().Bytes())
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
