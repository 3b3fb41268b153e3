package sale

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSaleNo 生成销售单号
// 格式：S + 时间(秒) + 8位随机十六进制
// 示例：S20240315093012a1b2c3d4
func GenerateSaleNo() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "S" + time.Now().UTC().Format("20060102150405") + suffix
}
