package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: test-secret
database:
  driver: memory
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, "client", cfg.Sale.PricePolicy)
	assert.Equal(t, time.Minute, cfg.Report.CacheTTL)
	assert.Equal(t, 2, cfg.Receipt.Workers)
	assert.Equal(t, "sale.receipt", cfg.RabbitMQ.ReceiptKey)

	loc, err := cfg.Report.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: from-file
sale:
  price_policy: client
`)
	t.Setenv("INVENTORY_JWT_SECRET", "from-env")
	t.Setenv("INVENTORY_SALE_PRICE_POLICY", "catalog")
	t.Setenv("INVENTORY_REPORT_TIMEZONE", "Asia/Shanghai")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "catalog", cfg.Sale.PricePolicy)
	assert.Equal(t, "Asia/Shanghai", cfg.Report.Timezone)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"缺少jwt密钥", "database:\n  driver: memory\n"},
		{"未知驱动", "jwt:\n  secret: s\ndatabase:\n  driver: sqlite\n"},
		{"无效价格策略", "jwt:\n  secret: s\nsale:\n  price_policy: free\n"},
		{"无效时区", "jwt:\n  secret: s\nreport:\n  timezone: Mars/Olympus\n"},
		{"端口冲突", "jwt:\n  secret: s\nserver:\n  port: 9000\ngrpc:\n  port: 9000\n"},
		{"生产环境默认密钥", "jwt:\n  secret: change-me-in-production\nserver:\n  mode: release\n"},
		{"启用MQ缺少URL", "jwt:\n  secret: s\nrabbitmq:\n  enabled: true\n"},
		{"worker数量为0", "jwt:\n  secret: s\nreceipt:\n  workers: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "db", Port: 3306, DBName: "pos",
		Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/pos?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}
