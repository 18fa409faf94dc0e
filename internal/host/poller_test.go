package host

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/bau-server/internal/config"
	"github.com/taoyao-code/bau-server/internal/metrics"
	"github.com/taoyao-code/bau-server/internal/protocol/ebds"
)

// fakeDevice 脚本化的接收器模拟：每收到一条命令，
// 调用脚本生成应答并放入读缓冲。
type fakeDevice struct {
	mu     sync.Mutex
	out    []byte
	script func(cmd []byte) []byte
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if reply := d.script(append([]byte(nil), p...)); reply != nil {
		d.out = append(d.out, reply...)
	}
	return len(p), nil
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.out) == 0 {
		time.Sleep(time.Millisecond)
		return 0, io.EOF
	}
	n := copy(p, d.out)
	d.out = d.out[n:]
	return n, nil
}

func (d *fakeDevice) Flush() error { return nil }
func (d *fakeDevice) Close() error { return nil }

// echoAck 把命令帧的翻转位回显到应答上
func echoAck(cmd []byte, reply ebds.MessageOps) []byte {
	reply.SetAckNak(ebds.Control(cmd[2]).AckNak())
	return append([]byte(nil), reply.Bytes()...)
}

func testAcceptorConfig() cfgpkg.AcceptorConfig {
	return cfgpkg.AcceptorConfig{
		Currency:      "USD",
		Denominations: 0x7f,
		EscrowMode:    true,
		PollInterval:  10 * time.Millisecond,
		ReplyTimeout:  200 * time.Millisecond,
	}
}

func newTestPoller(t *testing.T, dev *fakeDevice) *Poller {
	t.Helper()
	am := metrics.NewAppMetrics(metrics.NewRegistry())
	return NewPoller(dev, testAcceptorConfig(), zap.NewNop(), am)
}

// drainEvents 取走当前事件通道里的全部事件
func drainEvents(p *Poller) []Event {
	var out []Event
	for {
		select {
		case ev := <-p.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// TestPoller_EscrowThenStack 测试一张纸币从暂存到入账的完整轮询流程
func TestPoller_EscrowThenStack(t *testing.T) {
	ctx := context.Background()
	step := 0

	dev := &fakeDevice{}
	dev.script = func(cmd []byte) []byte {
		r := ebds.NewOmnibusReply()
		var state ebds.DeviceState
		var status ebds.DeviceStatus
		status.SetCassetteAttached(true)

		switch step {
		case 0: // 空闲
			state.SetIdling(true)
		case 1: // 暂存一张面额编码 5 的纸币
			state.SetEscrowed(true)
			var exc ebds.ExceptionStatus
			exc.SetNoteValueCode(5)
			r.SetExceptionStatus(exc)
		default: // 压钞完成
			mode := ebds.OperationalMode(cmd[4])
			if !mode.DocumentStack() {
				state.SetEscrowed(true)
				var exc ebds.ExceptionStatus
				exc.SetNoteValueCode(5)
				r.SetExceptionStatus(exc)
				break
			}
			state.SetStacked(true)
			state.SetIdling(true)
			var exc ebds.ExceptionStatus
			exc.SetNoteValueCode(5)
			r.SetExceptionStatus(exc)
		}
		step++
		r.SetDeviceState(state)
		r.SetDeviceStatus(status)
		return echoAck(cmd, r)
	}

	p := newTestPoller(t, dev)

	// 1. 空闲轮询无事件
	require.NoError(t, p.pollOnce(ctx))
	assert.Empty(t, drainEvents(p))

	// 2. 暂存事件，币值按 USD 表折算为 20
	require.NoError(t, p.pollOnce(ctx))
	events := drainEvents(p)
	require.Len(t, events, 1)
	assert.Equal(t, EventEscrowed, events[0].Type)
	assert.Equal(t, 20.0, events[0].Value)
	assert.NotEmpty(t, events[0].ID)

	// 3. 主机指示压钞，产生入账事件
	p.Stack()
	require.NoError(t, p.pollOnce(ctx))
	events = drainEvents(p)
	require.Len(t, events, 1)
	assert.Equal(t, EventStacked, events[0].Type)
	assert.Equal(t, 20.0, events[0].Value)
	assert.Equal(t, ebds.CurrencyUSD, events[0].Currency)

	// 4. 入账指标同步增长
	assert.Equal(t, 1.0, testutil.ToFloat64(p.am.CreditTotal.WithLabelValues("USD")))
	assert.Equal(t, 20.0, testutil.ToFloat64(p.am.CreditAmountTotal.WithLabelValues("USD")))
}

// TestPoller_ExtendedNoteCredit 测试扩展上报的入账携带完整纸币描述
func TestPoller_ExtendedNoteCredit(t *testing.T) {
	dev := &fakeDevice{}
	dev.script = func(cmd []byte) []byte {
		r := ebds.NewExtendedNoteReply()
		var state ebds.DeviceState
		state.SetStacked(true)
		state.SetIdling(true)
		r.SetDeviceState(state)
		r.SetNoteIndex(5)
		r.SetISOCode(ebds.CurrencyUSD)
		r.SetBaseValue(2)
		r.SetSign('+')
		r.SetExponent(1)
		r.SetClassification(ebds.ClassificationGenuine)
		return echoAck(cmd, r)
	}

	p := newTestPoller(t, dev)
	require.NoError(t, p.pollOnce(context.Background()))

	events := drainEvents(p)
	require.Len(t, events, 1)
	assert.Equal(t, EventStacked, events[0].Type)
	assert.Equal(t, 20.0, events[0].Value)
	require.NotNil(t, events[0].Banknote)
	assert.Equal(t, ebds.ClassificationGenuine, events[0].Banknote.Classification)

	// 面额表索引随入账事件透出
	require.NotNil(t, events[0].NoteIndex)
	assert.Equal(t, int16(5), *events[0].NoteIndex)
}

// TestPoller_StaleReply 测试回显过期翻转位的应答不产生事件也不推进序号
func TestPoller_StaleReply(t *testing.T) {
	dev := &fakeDevice{}
	dev.script = func(cmd []byte) []byte {
		r := ebds.NewOmnibusReply()
		var state ebds.DeviceState
		state.SetStacked(true)
		r.SetDeviceState(state)
		// 故意回显错误的翻转位
		r.SetAckNak(ebds.Control(cmd[2]).AckNak().Toggle())
		return append([]byte(nil), r.Bytes()...)
	}

	p := newTestPoller(t, dev)
	before := p.seq.Current()

	require.NoError(t, p.pollOnce(context.Background()))
	assert.Empty(t, drainEvents(p), "过期应答不得产生事件")
	assert.Equal(t, before, p.seq.Current(), "翻转位不推进")
	assert.Equal(t, 1.0, testutil.ToFloat64(p.am.SequenceMismatch))
}

// TestPoller_ReplyTimeout 测试设备不应答时报超时
func TestPoller_ReplyTimeout(t *testing.T) {
	dev := &fakeDevice{}
	dev.script = func(cmd []byte) []byte { return nil }

	p := newTestPoller(t, dev)
	p.cfg.ReplyTimeout = 20 * time.Millisecond

	err := p.pollOnce(context.Background())
	assert.ErrorIs(t, err, ErrReplyTimeout)
}

// TestPoller_ToggleAlternates 测试连续轮询时命令翻转位交替
func TestPoller_ToggleAlternates(t *testing.T) {
	var acks []ebds.AckNak

	dev := &fakeDevice{}
	dev.script = func(cmd []byte) []byte {
		acks = append(acks, ebds.Control(cmd[2]).AckNak())
		r := ebds.NewOmnibusReply()
		var state ebds.DeviceState
		state.SetIdling(true)
		r.SetDeviceState(state)
		return echoAck(cmd, r)
	}

	p := newTestPoller(t, dev)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, p.pollOnce(ctx))
	}

	require.Len(t, acks, 4)
	assert.Equal(t, []ebds.AckNak{ebds.Ack, ebds.Nak, ebds.Ack, ebds.Nak}, acks)
}

// setupDevice 应答启动阶段全部配置命令与标识查询的模拟设备。
// 捕获收到的禁用表命令供测试检查。
func setupDevice(inhibits *[][]byte) *fakeDevice {
	dev := &fakeDevice{}
	dev.script = func(cmd []byte) []byte {
		idle := func(r interface {
			ebds.MessageOps
			SetDeviceState(ebds.DeviceState)
		}) []byte {
			var state ebds.DeviceState
			state.SetIdling(true)
			r.SetDeviceState(state)
			return echoAck(cmd, r)
		}

		switch ebds.Control(cmd[2]).MessageType() {
		case ebds.MessageTypeAuxCommand:
			switch ebds.AuxSubtype(cmd[5]) {
			case ebds.AuxQueryApplicationPartNumber:
				r := ebds.NewPartNumberReply()
				r.SetPartNumber("286123456")
				return echoAck(cmd, r)
			case ebds.AuxQueryVariantName:
				r := ebds.NewQueryVariantNameReply()
				r.SetVariantName("US DOLLAR")
				return echoAck(cmd, r)
			}
			return nil

		case ebds.MessageTypeExtended:
			switch ebds.ExtendedSubtypeOf(cmd) {
			case ebds.ExtSetEscrowTimeout:
				return idle(ebds.NewSetEscrowTimeoutReply())
			case ebds.ExtSetNoteInhibits:
				if inhibits != nil {
					*inhibits = append(*inhibits, append([]byte(nil), cmd...))
				}
				return idle(ebds.NewSetNoteInhibitsReply())
			case ebds.ExtNoteRetrieved:
				r := ebds.NewNoteRetrievedReply()
				r.SetAcknowledged(true)
				return idle(r)
			}
			return nil

		default:
			r := ebds.NewOmnibusReply()
			r.SetModelNumber('T')
			r.SetCodeRevision(0x15)
			return idle(r)
		}
	}
	return dev
}

// TestPoller_InitializeIdentity 测试启动配置与标识事件的发布
func TestPoller_InitializeIdentity(t *testing.T) {
	ctx := context.Background()
	var inhibits [][]byte
	dev := setupDevice(&inhibits)

	cfg := testAcceptorConfig()
	cfg.ExtendedNoteReporting = true
	cfg.NoteRetrievedEvents = true
	cfg.EscrowTimeoutSec = 20

	am := metrics.NewAppMetrics(metrics.NewRegistry())
	p := NewPoller(dev, cfg, zap.NewNop(), am)

	p.initialize(ctx)

	// 1. 未配置条目索引时禁用表放开全表
	require.Len(t, inhibits, 1)
	gotCmd, err := ebds.ParseSetNoteInhibitsCommand(inhibits[0])
	require.NoError(t, err)
	for _, n := range gotCmd.EnabledNotes() {
		assert.Equal(t, ebds.EnableNoteAll(), n)
	}

	// 2. 首帧常规应答补齐型号/版本并发布一次标识事件
	require.NoError(t, p.pollOnce(ctx))
	events := drainEvents(p)
	require.Len(t, events, 1)
	assert.Equal(t, EventIdentity, events[0].Type)
	require.NotNil(t, events[0].Identity)
	assert.Equal(t, "286123456", events[0].Identity.PartNumber)
	assert.Equal(t, "US DOLLAR", events[0].Identity.VariantName)
	assert.Equal(t, byte('T'), events[0].Identity.ModelNumber)
	assert.Equal(t, byte(0x15), events[0].Identity.CodeRevision)

	// 3. 标识事件只发布一次
	require.NoError(t, p.pollOnce(ctx))
	assert.Empty(t, drainEvents(p))
}

// TestPoller_InhibitsFromIndexes 测试按配置的条目索引下发禁用表
func TestPoller_InhibitsFromIndexes(t *testing.T) {
	var inhibits [][]byte
	dev := setupDevice(&inhibits)

	cfg := testAcceptorConfig()
	cfg.ExtendedNoteReporting = true
	cfg.EnabledNoteIndexes = []int{1, 8}

	am := metrics.NewAppMetrics(metrics.NewRegistry())
	p := NewPoller(dev, cfg, zap.NewNop(), am)
	p.initialize(context.Background())

	require.Len(t, inhibits, 1)
	gotCmd, err := ebds.ParseSetNoteInhibitsCommand(inhibits[0])
	require.NoError(t, err)
	assert.True(t, gotCmd.NoteEnabled(1))
	assert.True(t, gotCmd.NoteEnabled(8))
	assert.False(t, gotCmd.NoteEnabled(2))
	assert.False(t, gotCmd.NoteEnabled(9))
}

// TestPoller_NoteRetrievedEvent 测试纸币取走事件帧转换成业务事件
func TestPoller_NoteRetrievedEvent(t *testing.T) {
	dev := &fakeDevice{}
	dev.script = func(cmd []byte) []byte {
		ev := ebds.NewNoteRetrievedEvent()
		var state ebds.DeviceState
		state.SetIdling(true)
		ev.SetDeviceState(state)
		return echoAck(cmd, ev)
	}

	p := newTestPoller(t, dev)
	require.NoError(t, p.pollOnce(context.Background()))

	events := drainEvents(p)
	require.Len(t, events, 1)
	assert.Equal(t, EventNoteRetrieved, events[0].Type)
	assert.True(t, events[0].Status.Idling)
}

// TestPoller_GarbageBeforeReply 测试应答前的噪声字节被流解码器丢弃
func TestPoller_GarbageBeforeReply(t *testing.T) {
	dev := &fakeDevice{}
	dev.script = func(cmd []byte) []byte {
		r := ebds.NewOmnibusReply()
		var state ebds.DeviceState
		state.SetIdling(true)
		r.SetDeviceState(state)
		return append([]byte{0xff, 0x00, 0x02}, echoAck(cmd, r)...)
	}

	p := newTestPoller(t, dev)
	require.NoError(t, p.pollOnce(context.Background()))
}
