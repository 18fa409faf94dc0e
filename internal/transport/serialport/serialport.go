package serialport

import (
	"fmt"
	"io"

	"github.com/tarm/serial"

	cfgpkg "github.com/taoyao-code/bau-server/internal/config"
)

// Transport 主机与接收器之间的字节链路。
// 串口是生产形态，测试用内存实现替换。
type Transport interface {
	io.ReadWriteCloser
	// Flush 丢弃链路上未读的残留字节
	Flush() error
}

// Port 基于串口的 Transport 实现
type Port struct {
	port *serial.Port
}

// Open 按配置打开串口。接收器固定 8N1，波特率通常为 9600。
func Open(cfg cfgpkg.SerialConfig) (*Port, error) {
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	return &Port{port: p}, nil
}

func (p *Port) Read(b []byte) (int, error) { return p.port.Read(b) }

func (p *Port) Write(b []byte) (int, error) { return p.port.Write(b) }

func (p *Port) Flush() error { return p.port.Flush() }

func (p *Port) Close() error { return p.port.Close() }
