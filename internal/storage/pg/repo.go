package pg

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taoyao-code/bau-server/internal/storage/models"
)

// Repo 纸币接收器持久化仓库
type Repo struct {
	db *gorm.DB
}

// NewRepo 返回一个使用给定 *gorm.DB 的仓库实例
func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// EnsureAcceptor 若串口对应的接收器不存在则插入，存在则刷新 updated_at
func (r *Repo) EnsureAcceptor(ctx context.Context, port string) (*models.Acceptor, error) {
	now := time.Now()
	record := &models.Acceptor{
		Port:       port,
		LastSeenAt: &now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "port"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": gorm.Expr("NOW()")}),
		}).
		Create(record).Error
	if err != nil {
		return nil, err
	}

	return r.GetAcceptorByPort(ctx, port)
}

// GetAcceptorByPort 通过串口路径查询接收器
func (r *Repo) GetAcceptorByPort(ctx context.Context, port string) (*models.Acceptor, error) {
	var a models.Acceptor
	err := r.db.WithContext(ctx).Where("port = ?", port).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAcceptor 通过主键查询接收器
func (r *Repo) GetAcceptor(ctx context.Context, id int64) (*models.Acceptor, error) {
	var a models.Acceptor
	err := r.db.WithContext(ctx).First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// TouchLastSeen 刷新接收器 last_seen_at
func (r *Repo) TouchLastSeen(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Acceptor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_seen_at": at}).Error
}

// UpdateIdentity 写入设备上报的型号、版本与件号信息
func (r *Repo) UpdateIdentity(ctx context.Context, id int64, model, revision int16, partNumber, variantName string) error {
	updates := map[string]interface{}{
		"model_number":  model,
		"code_revision": revision,
	}
	if partNumber != "" {
		updates["part_number"] = partNumber
	}
	if variantName != "" {
		updates["variant_name"] = variantName
	}
	return r.db.WithContext(ctx).
		Model(&models.Acceptor{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SaveCreditEvent 记录一次入账。event_id 唯一，重复写入静默忽略，
// 轮询重试产生的重复事件由此去重。
func (r *Repo) SaveCreditEvent(ctx context.Context, ev *models.CreditEvent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(ev).Error
}

// ListCreditEvents 按时间倒序返回接收器最近的入账记录
func (r *Repo) ListCreditEvents(ctx context.Context, acceptorID int64, limit int) ([]models.CreditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var events []models.CreditEvent
	err := r.db.WithContext(ctx).
		Where("acceptor_id = ?", acceptorID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// SaveStatusLog 记录一次状态变化
func (r *Repo) SaveStatusLog(ctx context.Context, entry *models.StatusLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// LatestStatus 返回接收器最近一条状态记录
func (r *Repo) LatestStatus(ctx context.Context, acceptorID int64) (*models.StatusLog, error) {
	var entry models.StatusLog
	err := r.db.WithContext(ctx).
		Where("acceptor_id = ?", acceptorID).
		Order("occurred_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
