package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	cfgpkg "github.com/taoyao-code/bau-server/internal/config"
	"github.com/taoyao-code/bau-server/internal/metrics"
	"github.com/taoyao-code/bau-server/internal/protocol/ebds"
	"github.com/taoyao-code/bau-server/internal/transport/serialport"
)

// ErrReplyTimeout 等待设备应答超时
var ErrReplyTimeout = errors.New("reply timeout")

// Poller 主机侧轮询协程。
// 以固定节奏向接收器发送常规命令，解析应答、维护翻转位会话，
// 并把状态边沿转换成业务事件发布到事件通道。
type Poller struct {
	tr  serialport.Transport
	cfg cfgpkg.AcceptorConfig
	log *zap.Logger
	am  *metrics.AppMetrics

	seq     *ebds.Sequencer
	dec     *ebds.StreamDecoder
	limiter *rate.Limiter

	events chan Event

	mu            sync.Mutex
	pendingStack  bool
	pendingReturn bool
	prev          ebds.StatusView
	havePrev      bool
	online        bool

	// 标识信息仅轮询协程访问
	identity        DeviceIdentity
	identityPending bool
}

// NewPoller 创建轮询器
func NewPoller(tr serialport.Transport, cfg cfgpkg.AcceptorConfig, log *zap.Logger, am *metrics.AppMetrics) *Poller {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &Poller{
		tr:      tr,
		cfg:     cfg,
		log:     log,
		am:      am,
		seq:     ebds.NewSequencer(),
		dec:     ebds.NewStreamDecoder(),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		events:  make(chan Event, 64),
	}
}

// Events 返回业务事件通道
func (p *Poller) Events() <-chan Event { return p.events }

// Online 最近一次轮询交换是否成功
func (p *Poller) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

func (p *Poller) setOnline(v bool) {
	p.mu.Lock()
	p.online = v
	p.mu.Unlock()
}

// Stack 指示暂存位上的纸币压钞。仅暂存模式下有效，
// 指令随下一次轮询下发，压钞完成后自动清除。
func (p *Poller) Stack() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingStack = true
	p.pendingReturn = false
}

// Return 指示暂存位上的纸币退钞
func (p *Poller) Return() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingReturn = true
	p.pendingStack = false
}

// Run 运行轮询循环直到 ctx 取消。
// 单次交换失败只记录并继续，链路由下一轮轮询自愈。
func (p *Poller) Run(ctx context.Context) error {
	defer close(p.events)

	p.initialize(ctx)

	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		start := time.Now()
		err := p.pollOnce(ctx)
		switch {
		case err == nil:
			p.am.PollTotal.WithLabelValues("ok").Inc()
			p.am.DeviceOnline.Set(1)
			p.setOnline(true)
			p.am.PollLatency.Observe(time.Since(start).Seconds())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case errors.Is(err, ErrReplyTimeout):
			p.am.PollTotal.WithLabelValues("timeout").Inc()
			p.am.DeviceOnline.Set(0)
			p.setOnline(false)
			p.log.Warn("poll timeout", zap.Duration("timeout", p.cfg.ReplyTimeout))
		default:
			p.am.PollTotal.WithLabelValues("error").Inc()
			p.am.DeviceOnline.Set(0)
			p.setOnline(false)
			p.log.Error("poll failed", zap.Error(err))
		}
	}
}

// pollOnce 执行一次命令/应答交换并处理结果
func (p *Poller) pollOnce(ctx context.Context) error {
	cmd := p.buildCommand()
	reply, err := p.exchange(ctx, cmd)
	if err != nil {
		return err
	}

	p.am.ReplyTotal.WithLabelValues(reply.MessageType().String()).Inc()

	if err := p.seq.Complete(reply); err != nil {
		// 过期应答：翻转位不推进，下一轮重发同一序号
		p.am.SequenceMismatch.Inc()
		p.log.Warn("stale reply", zap.Error(err))
		return nil
	}

	if view, ok := ebds.ReplyStatus(reply); ok {
		p.applyStatus(view, reply)
	}
	return nil
}

// exchange 发送命令并等待一帧合法应答
func (p *Poller) exchange(ctx context.Context, cmd ebds.MessageOps) (ebds.MessageOps, error) {
	p.seq.Stamp(cmd)
	if _, err := p.tr.Write(cmd.Bytes()); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	timeout := p.cfg.ReplyTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 64)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := p.tr.Read(buf)
		if n > 0 {
			for _, frame := range p.dec.Feed(buf[:n]) {
				reply, perr := ebds.ParseReply(frame)
				if perr != nil {
					p.countDecodeError(perr)
					p.log.Warn("undecodable reply", zap.Error(perr))
					continue
				}
				return reply, nil
			}
		}
		// 串口读超时表现为 io.EOF，由整体应答超时兜底
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read reply: %w", err)
		}
		if time.Now().After(deadline) {
			return nil, ErrReplyTimeout
		}
	}
}

func (p *Poller) countDecodeError(err error) {
	switch {
	case errors.Is(err, ebds.ErrChecksumMismatch):
		p.am.DecodeErrorTotal.WithLabelValues("checksum").Inc()
	case errors.Is(err, ebds.ErrTruncatedFrame), errors.Is(err, ebds.ErrOversizedFrame):
		p.am.DecodeErrorTotal.WithLabelValues("truncated").Inc()
	case errors.Is(err, ebds.ErrFraming):
		p.am.DecodeErrorTotal.WithLabelValues("framing").Inc()
	default:
		p.am.DecodeErrorTotal.WithLabelValues("unknown").Inc()
	}
}

// buildCommand 按配置与待执行的暂存指令构造本轮常规命令
func (p *Poller) buildCommand() *ebds.OmnibusCommand {
	p.mu.Lock()
	defer p.mu.Unlock()

	cmd := ebds.NewOmnibusCommand()
	cmd.SetDenomination(ebds.StandardDenomination(p.cfg.Denominations))

	var mode ebds.OperationalMode
	mode.SetOrientation(ebds.OrientationFourWay)
	mode.SetEscrowMode(p.cfg.EscrowMode)
	if p.pendingStack {
		mode.SetDocumentStack(true)
	}
	if p.pendingReturn {
		mode.SetDocumentReturn(true)
	}
	cmd.SetOperationalMode(mode)

	var conf ebds.Configuration
	conf.SetExtendedNoteReporting(p.cfg.ExtendedNoteReporting)
	cmd.SetConfiguration(conf)
	return cmd
}

// initialize 启动阶段的一次性设备配置与标识查询。
// 单项失败只告警，轮询照常进行，链路恢复后由运维重启补齐。
func (p *Poller) initialize(ctx context.Context) {
	if p.cfg.EscrowTimeoutSec > 0 {
		if err := p.configureEscrowTimeout(ctx); err != nil {
			p.log.Warn("configure escrow timeout failed", zap.Error(err))
		}
	}
	if p.cfg.ExtendedNoteReporting {
		if err := p.configureNoteInhibits(ctx); err != nil {
			p.log.Warn("configure note inhibits failed", zap.Error(err))
		}
	}
	if p.cfg.NoteRetrievedEvents {
		if err := p.enableNoteRetrieved(ctx); err != nil {
			p.log.Warn("enable note retrieved reporting failed", zap.Error(err))
		}
	}
	p.queryIdentity(ctx)
}

// exchangeOnce 一次带翻转位推进的命令/应答交换
func (p *Poller) exchangeOnce(ctx context.Context, cmd ebds.MessageOps) (ebds.MessageOps, error) {
	reply, err := p.exchange(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := p.seq.Complete(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// configureEscrowTimeout 启动时下发暂存超时设置
func (p *Poller) configureEscrowTimeout(ctx context.Context) error {
	cmd := ebds.NewSetEscrowTimeoutCommand(p.cfg.EscrowTimeoutSec, 0)
	cmd.SetDenomination(ebds.StandardDenomination(p.cfg.Denominations))

	_, err := p.exchangeOnce(ctx, cmd)
	return err
}

// configureNoteInhibits 下发扩展禁用表：配置了条目索引则逐张放行，
// 否则放开全表。部分固件以常规应答确认，两种应答都视为成功。
func (p *Poller) configureNoteInhibits(ctx context.Context) error {
	cmd := ebds.NewSetNoteInhibitsCommand(ebds.NoteInhibitsEnableLenCFSC)
	cmd.SetDenomination(ebds.StandardDenomination(p.cfg.Denominations))

	var conf ebds.Configuration
	conf.SetExtendedNoteReporting(true)
	cmd.SetConfiguration(conf)

	if len(p.cfg.EnabledNoteIndexes) == 0 {
		all := make([]ebds.EnableNote, cmd.EnableLen())
		for i := range all {
			all[i] = ebds.EnableNoteAll()
		}
		cmd.SetEnabledNotes(all)
	} else {
		for _, idx := range p.cfg.EnabledNoteIndexes {
			if err := cmd.EnableNoteIndex(idx); err != nil {
				p.log.Warn("skip note index", zap.Int("index", idx), zap.Error(err))
			}
		}
	}

	_, err := p.exchangeOnce(ctx, cmd)
	return err
}

// enableNoteRetrieved 开启纸币取走上报。
// 设备上电后默认关闭，每次启动都要重新开启。
func (p *Poller) enableNoteRetrieved(ctx context.Context) error {
	cmd := ebds.NewNoteRetrievedCommand(true)
	cmd.SetDenomination(ebds.StandardDenomination(p.cfg.Denominations))

	reply, err := p.exchangeOnce(ctx, cmd)
	if err != nil {
		return err
	}
	if r, ok := reply.(*ebds.NoteRetrievedReply); ok && !r.Acknowledged() {
		return errors.New("device refused note retrieved reporting")
	}
	return nil
}

// queryIdentity 查询设备件号与变体名称，失败只告警。
// 型号与固件版本字节由首帧常规应答补齐。
func (p *Poller) queryIdentity(ctx context.Context) {
	if reply, err := p.exchangeOnce(ctx, ebds.NewAuxCommand(ebds.AuxQueryApplicationPartNumber)); err != nil {
		p.log.Warn("query part number failed", zap.Error(err))
	} else if r, ok := reply.(*ebds.PartNumberReply); ok {
		p.identity.PartNumber = r.PartNumber()
	}

	if reply, err := p.exchangeOnce(ctx, ebds.NewAuxCommand(ebds.AuxQueryVariantName)); err != nil {
		p.log.Warn("query variant name failed", zap.Error(err))
	} else if r, ok := reply.(*ebds.QueryVariantNameReply); ok {
		p.identity.VariantName = r.VariantName()
	}

	// 型号与固件版本要等首帧常规应答，标识事件随其发布
	p.identityPending = true
}

// applyStatus 对比前后状态视图，把边沿转换成业务事件
func (p *Poller) applyStatus(view ebds.StatusView, reply ebds.MessageOps) {
	p.mu.Lock()
	prev, havePrev := p.prev, p.havePrev
	p.prev, p.havePrev = view, true

	if view.Stacked {
		p.pendingStack = false
	}
	if view.Returned || view.Rejected {
		p.pendingReturn = false
	}
	p.mu.Unlock()

	currency := ebds.Currency(p.cfg.Currency)
	now := time.Now()

	var raw []byte
	if r, ok := reply.(ebds.OmnibusReplyOps); ok {
		raw = append([]byte(nil), r.RawEventBytes()...)
	}

	emit := func(ev Event) {
		ev.Status = view
		ev.Currency = currency
		ev.Raw = raw
		p.publish(ev, now)
	}

	// 首帧合法状态到达后补齐型号/版本并发布一次标识事件
	if p.identityPending {
		p.identityPending = false
		ident := p.identity
		ident.ModelNumber = view.ModelNumber
		ident.CodeRevision = view.CodeRevision
		emit(Event{Type: EventIdentity, Identity: &ident})
	}

	var noteIdx *int16
	if enr, ok := reply.(*ebds.ExtendedNoteReply); ok {
		if i := enr.NoteIndex(); i > 0 {
			idx := int16(i)
			noteIdx = &idx
		}
	}

	// Stacked/Returned 是事件位，设备只上报一帧；重发的同一帧
	// 由翻转位校验挡在前面，这里只看本帧。
	if view.Stacked {
		ev := Event{Type: EventStacked, NoteIndex: noteIdx}
		ev.Value, ev.Banknote = p.noteValue(view, reply, currency)
		emit(ev)
		p.am.CreditTotal.WithLabelValues(string(currency)).Inc()
		p.am.CreditAmountTotal.WithLabelValues(string(currency)).Add(ev.Value)
	}
	if view.Returned {
		emit(Event{Type: EventReturned})
	}
	if view.Rejected && (!havePrev || !prev.Rejected) {
		emit(Event{Type: EventRejected})
	}
	if view.Escrowed && (!havePrev || !prev.Escrowed) {
		ev := Event{Type: EventEscrowed, NoteIndex: noteIdx}
		ev.Value, ev.Banknote = p.noteValue(view, reply, currency)
		emit(ev)
	}
	if nre, ok := reply.(*ebds.NoteRetrievedEvent); ok && nre.Retrieved() {
		emit(Event{Type: EventNoteRetrieved})
	}
	if view.Cheated && (!havePrev || !prev.Cheated) {
		emit(Event{Type: EventCheated})
	}
	if havePrev && view.CashBox != prev.CashBox {
		emit(Event{Type: EventCashBoxChanged})
	}
	if havePrev && view.OutOfService != prev.OutOfService {
		emit(Event{Type: EventServiceChanged})
	}
}

// noteValue 求取本帧涉及的纸币币值：扩展上报直接携带完整描述，
// 常规应答用面额编码查货币表。
func (p *Poller) noteValue(view ebds.StatusView, reply ebds.MessageOps, currency ebds.Currency) (float64, *ebds.Banknote) {
	if enr, ok := reply.(*ebds.ExtendedNoteReply); ok {
		note := enr.Banknote()
		return note.Value, &note
	}
	return float64(currency.ValueOf(view.NoteValueCode)), nil
}

func (p *Poller) publish(ev Event, at time.Time) {
	ev.ID = uuid.NewString()
	ev.At = at
	select {
	case p.events <- ev:
	default:
		p.log.Warn("event channel full, dropping event", zap.String("type", string(ev.Type)))
	}
}
