package host

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/bau-server/internal/protocol/ebds"
	"github.com/taoyao-code/bau-server/internal/storage/models"
)

// EventStore 事件持久化需要的仓库能力
type EventStore interface {
	SaveCreditEvent(ctx context.Context, ev *models.CreditEvent) error
	SaveStatusLog(ctx context.Context, entry *models.StatusLog) error
	UpdateIdentity(ctx context.Context, id int64, model, revision int16, partNumber, variantName string) error
	TouchLastSeen(ctx context.Context, id int64, at time.Time) error
}

// StatusSetter 状态缓存写入能力
type StatusSetter interface {
	Set(ctx context.Context, acceptorID int64, view ebds.StatusView) error
}

// Recorder 消费轮询事件：入账与状态变化落库，最新状态写入缓存。
// 持久化失败只记录日志，不回压轮询协程。
type Recorder struct {
	acceptorID int64
	store      EventStore
	cache      StatusSetter
	log        *zap.Logger
}

// NewRecorder 创建事件记录器。cache 可为 nil（未启用 Redis）。
func NewRecorder(acceptorID int64, store EventStore, cache StatusSetter, log *zap.Logger) *Recorder {
	return &Recorder{acceptorID: acceptorID, store: store, cache: cache, log: log}
}

// Run 消费事件直到通道关闭或 ctx 取消
func (r *Recorder) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.handle(ctx, ev)
		}
	}
}

func (r *Recorder) handle(ctx context.Context, ev Event) {
	if r.cache != nil {
		if err := r.cache.Set(ctx, r.acceptorID, ev.Status); err != nil {
			r.log.Warn("cache status failed", zap.Error(err))
		}
	}

	// 任何事件都意味着设备在线
	if err := r.store.TouchLastSeen(ctx, r.acceptorID, ev.At); err != nil {
		r.log.Warn("touch last seen failed", zap.Error(err))
	}

	switch ev.Type {
	case EventIdentity:
		if ev.Identity == nil {
			return
		}
		err := r.store.UpdateIdentity(ctx, r.acceptorID,
			int16(ev.Identity.ModelNumber), int16(ev.Identity.CodeRevision),
			ev.Identity.PartNumber, ev.Identity.VariantName)
		if err != nil {
			r.log.Error("update identity failed", zap.Error(err))
			return
		}
		r.log.Info("identity recorded",
			zap.String("partNumber", ev.Identity.PartNumber),
			zap.String("variantName", ev.Identity.VariantName))

	case EventStacked:
		record := &models.CreditEvent{
			EventID:    ev.ID,
			AcceptorID: r.acceptorID,
			Currency:   string(ev.Currency),
			Value:      ev.Value,
			NoteIndex:  ev.NoteIndex,
			OccurredAt: ev.At,
		}
		if ev.Banknote != nil {
			cls := int16(ev.Banknote.Classification)
			record.Classification = &cls
		}
		if err := r.store.SaveCreditEvent(ctx, record); err != nil {
			r.log.Error("save credit event failed",
				zap.String("eventId", ev.ID), zap.Error(err))
			return
		}
		r.log.Info("credit recorded",
			zap.String("eventId", ev.ID),
			zap.String("currency", string(ev.Currency)),
			zap.Float64("value", ev.Value))

	case EventCashBoxChanged, EventServiceChanged, EventCheated:
		entry := &models.StatusLog{
			AcceptorID:   r.acceptorID,
			HasError:     ev.Status.HasError(),
			OutOfService: ev.Status.OutOfService,
			CashBox:      ev.Status.CashBox.String(),
			OccurredAt:   ev.At,
		}
		if len(ev.Raw) >= 4 {
			entry.RawState = int16(ev.Raw[0])
			entry.RawStatus = int16(ev.Raw[1])
			entry.RawException = int16(ev.Raw[2])
			entry.RawMisc = int16(ev.Raw[3])
		}
		if err := r.store.SaveStatusLog(ctx, entry); err != nil {
			r.log.Error("save status log failed", zap.Error(err))
			return
		}
		r.log.Info("status change recorded",
			zap.String("event", string(ev.Type)),
			zap.String("state", ev.Status.StateFlag().String()),
			zap.String("cashBox", ev.Status.CashBox.String()))

	case EventNoteRetrieved:
		r.log.Info("returned note retrieved", zap.String("eventId", ev.ID))
	}
}
