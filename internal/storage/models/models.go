package models

import (
	"time"
)

// 注意：
// - 不使用 gorm.Model，显式声明每个字段，避免隐式 DeletedAt

// Acceptor 映射 acceptors 表：一台纸币接收器
type Acceptor struct {
	// 主键
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// 串口路径，同一主机内唯一
	Port string `gorm:"column:port;type:text;not null;uniqueIndex"`
	// 设备上报的型号与固件版本，可空
	ModelNumber  *int16 `gorm:"column:model_number"`
	CodeRevision *int16 `gorm:"column:code_revision"`
	// 辅助查询得到的件号与变体名称，可空
	PartNumber  *string `gorm:"column:part_number;type:text"`
	VariantName *string `gorm:"column:variant_name;type:text"`
	// 最近一次轮询成功时间
	LastSeenAt *time.Time `gorm:"column:last_seen_at"`
	// 审计字段
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Acceptor) TableName() string { return "acceptors" }

// CreditEvent 映射 credit_events 表：一次压钞入账
type CreditEvent struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	EventID    string `gorm:"column:event_id;type:text;not null;uniqueIndex"`
	AcceptorID int64  `gorm:"column:acceptor_id;not null;index:idx_credit_acceptor_time,priority:1"`
	// 货币代码与折算后的币值
	Currency string  `gorm:"column:currency;type:varchar(3);not null"`
	Value    float64 `gorm:"column:value;not null"`
	// 扩展上报才有的字段，可空
	NoteIndex      *int16 `gorm:"column:note_index"`
	Classification *int16 `gorm:"column:classification"`
	// 事件发生时间
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index:idx_credit_acceptor_time,priority:2,sort:desc"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CreditEvent) TableName() string { return "credit_events" }

// StatusLog 映射 status_log 表：状态变化记录
type StatusLog struct {
	ID         int64 `gorm:"column:id;primaryKey;autoIncrement"`
	AcceptorID int64 `gorm:"column:acceptor_id;not null;index:idx_status_acceptor_time,priority:1"`
	// 原始状态字节，解码视图可随时重算
	RawState     int16 `gorm:"column:raw_state;not null"`
	RawStatus    int16 `gorm:"column:raw_status;not null"`
	RawException int16 `gorm:"column:raw_exception;not null"`
	RawMisc      int16 `gorm:"column:raw_misc;not null"`
	// 便于查询的归约字段
	HasError     bool      `gorm:"column:has_error;not null;default:false"`
	OutOfService bool      `gorm:"column:out_of_service;not null;default:false"`
	CashBox      string    `gorm:"column:cash_box;type:varchar(10);not null"`
	OccurredAt   time.Time `gorm:"column:occurred_at;not null;index:idx_status_acceptor_time,priority:2,sort:desc"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (StatusLog) TableName() string { return "status_log" }
