package ebds

import "fmt"

// Checksum 计算校验和：对字节区做异或折叠。
// 覆盖范围为 LEN 字节到最后一个数据字节（不含 ETX 与校验和本身）。
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// coveredRegion 返回帧内校验和覆盖的字节区
func coveredRegion(frame []byte) []byte {
	declared := FrameLength(frame)
	return frame[idxLen : declared-2]
}

// StampChecksum 计算并写入帧尾的校验和字节，返回写入值。
// 调用方需保证帧形状已合法。
func StampChecksum(frame []byte) byte {
	declared := FrameLength(frame)
	sum := Checksum(coveredRegion(frame))
	frame[declared-1] = sum
	return sum
}

// VerifyChecksum 重新计算校验和并与帧内存储值比对
func VerifyChecksum(frame []byte) error {
	declared := FrameLength(frame)
	if declared < MinMessageLen || len(frame) < declared {
		return fmt.Errorf("%w: frame too short for checksum", ErrTruncatedFrame)
	}
	expected := Checksum(coveredRegion(frame))
	current := frame[declared-1]
	if expected != current {
		return fmt.Errorf("%w: expected 0x%02x, have 0x%02x", ErrChecksumMismatch, expected, current)
	}
	return nil
}
