package host

import (
	"time"

	"github.com/taoyao-code/bau-server/internal/protocol/ebds"
)

// EventType 轮询过程中产生的业务事件类型
type EventType string

const (
	// EventEscrowed 纸币已验证并进入暂存位
	EventEscrowed EventType = "escrowed"
	// EventStacked 纸币已压入钱箱，产生入账
	EventStacked EventType = "stacked"
	// EventReturned 纸币已退还
	EventReturned EventType = "returned"
	// EventRejected 纸币无法验证并已退还
	EventRejected EventType = "rejected"
	// EventCheated 检测到疑似作弊
	EventCheated EventType = "cheated"
	// EventCashBoxChanged 钱箱状态变化（取下/装回/满）
	EventCashBoxChanged EventType = "cashBoxChanged"
	// EventServiceChanged 设备进入或离开停止服务状态
	EventServiceChanged EventType = "serviceChanged"
	// EventNoteRetrieved 退钞/拒钞的纸币已被用户从钞口取走
	EventNoteRetrieved EventType = "noteRetrieved"
	// EventIdentity 设备标识信息（型号、版本、件号、变体名称）就绪
	EventIdentity EventType = "identity"
)

// DeviceIdentity 启动阶段从设备取回的标识信息。
// 型号与固件版本来自常规应答，件号与变体名称来自辅助查询。
type DeviceIdentity struct {
	ModelNumber  byte
	CodeRevision byte
	PartNumber   string
	VariantName  string
}

// Event 轮询协程发布的业务事件。
// 入账类事件携带折算后的币值；ID 全局唯一，下游据此去重。
type Event struct {
	ID       string
	Type     EventType
	At       time.Time
	Status   ebds.StatusView
	Currency ebds.Currency
	// Value 入账/暂存事件的币值；其余事件为 0
	Value float64
	// Banknote 扩展上报才有的完整纸币描述
	Banknote *ebds.Banknote
	// NoteIndex 扩展上报中纸币在设备面额表的索引（1 起）
	NoteIndex *int16
	// Identity 仅 EventIdentity 携带
	Identity *DeviceIdentity
	// Raw 应答中的原始状态字节，落库留档用
	Raw []byte
}
