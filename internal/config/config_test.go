package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestLoad_Defaults 测试缺少配置文件时使用默认值
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "bau-server", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.Baud)
	assert.Equal(t, "USD", cfg.Acceptor.Currency)
	assert.Equal(t, byte(0x7f), cfg.Acceptor.Denominations)
	assert.True(t, cfg.Acceptor.EscrowMode)
	assert.Equal(t, 200*time.Millisecond, cfg.Acceptor.PollInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enable)
	assert.False(t, cfg.Redis.Enabled)
}

// TestLoad_File 测试从文件加载并覆盖默认值
func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	content, err := yaml.Marshal(map[string]any{
		"serial": map[string]any{
			"port": "/dev/ttyACM3",
			"baud": 115200,
		},
		"acceptor": map[string]any{
			"currency":   "EUR",
			"escrowMode": false,
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM3", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, "EUR", cfg.Acceptor.Currency)
	assert.False(t, cfg.Acceptor.EscrowMode)
	// 未覆盖的键保持默认
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

// TestLoad_EnvConfigPath 测试 path 为空时回退到 BAU_CONFIG 指定的文件
func TestLoad_EnvConfigPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	content, err := yaml.Marshal(map[string]any{
		"acceptor": map[string]any{"currency": "GBP"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("BAU_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "GBP", cfg.Acceptor.Currency)
}

// TestLoad_EnvOverride 测试环境变量覆盖
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BAU_ACCEPTOR_CURRENCY", "CNY")
	t.Setenv("BAU_HTTP_ADDR", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "CNY", cfg.Acceptor.Currency)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
}
