package ebds

import "errors"

// 解码错误分类。串口线路上出现坏帧是常态，
// 所有错误只向调用方报告，由会话层决定重试或丢弃。
var (
	// ErrTruncatedFrame 缓冲区短于声明长度
	ErrTruncatedFrame = errors.New("truncated frame")
	// ErrOversizedFrame 缓冲区超过协议最大长度
	ErrOversizedFrame = errors.New("oversized frame")
	// ErrFraming STX/ETX 起止标记无效
	ErrFraming = errors.New("invalid frame marker")
	// ErrUnknownType 控制字节中的报文类型未注册
	ErrUnknownType = errors.New("unknown message type")
	// ErrTypeMismatch 帧类型与目标报文类型不符
	ErrTypeMismatch = errors.New("message type mismatch")
	// ErrChecksumMismatch checksum校验失败
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrSequenceMismatch ACK 翻转位与会话状态不一致
	ErrSequenceMismatch = errors.New("sequence mismatch")
)
