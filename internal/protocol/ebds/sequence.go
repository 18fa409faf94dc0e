package ebds

import (
	"fmt"
	"sync"
)

// Sequencer 维护主机侧的 ACK 翻转位会话状态。
// 每条命令盖上当前翻转位；设备应答回显同一位；只有收到
// 回显正确的应答后才推进翻转位。应答位不符时本层只报告
// ErrSequenceMismatch，重发与放弃由上层策略决定。
type Sequencer struct {
	mu      sync.Mutex
	current AckNak
}

// NewSequencer 创建初始翻转位为 Ack(0) 的序列器
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Current 返回当前翻转位
func (s *Sequencer) Current() AckNak {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Stamp 把当前翻转位写入待发送命令
func (s *Sequencer) Stamp(cmd MessageOps) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd.SetAckNak(s.current)
}

// Validate 比对应答回显的翻转位。位不符返回 ErrSequenceMismatch，
// 翻转位不推进（重发的命令必须沿用同一位）。
func (s *Sequencer) Validate(reply MessageOps) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if got := reply.AckNak(); got != s.current {
		return fmt.Errorf("%w: reply %s, expected %s", ErrSequenceMismatch, got, s.current)
	}
	return nil
}

// Advance 推进翻转位。仅在收到回显正确的应答后调用。
func (s *Sequencer) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.current.Toggle()
}

// Complete 校验应答并在通过时推进翻转位，合并常见的收尾动作
func (s *Sequencer) Complete(reply MessageOps) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if got := reply.AckNak(); got != s.current {
		return fmt.Errorf("%w: reply %s, expected %s", ErrSequenceMismatch, got, s.current)
	}
	s.current = s.current.Toggle()
	return nil
}

// Reset 复位到初始翻转位，用于设备复位或重新建链后
func (s *Sequencer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Ack
}
