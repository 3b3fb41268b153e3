package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("缺省为本月", func(t *testing.T) {
		r, err := ParseRange("", "", time.UTC, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.From)
		assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), r.To)
	})

	t.Run("结束日包含在内", func(t *testing.T) {
		r, err := ParseRange("2024-01-01", "2024-01-31", time.UTC, now)
		require.NoError(t, err)
		assert.True(t, r.Contains(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)))
		assert.False(t, r.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := ParseRange("2024/01/01", "", time.UTC, now)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("起止颠倒", func(t *testing.T) {
		_, err := ParseRange("2024-02-01", "2024-01-01", time.UTC, now)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestBuildTimeSeries_Day(t *testing.T) {
	r := Range{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
	}
	points := []SalePoint{
		{CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(10)},
		{CreatedAt: time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(15)},
		{CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(7)},
		{CreatedAt: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(99)}, // 区间外
	}

	series := BuildTimeSeries(points, r, BucketDay, time.UTC)
	require.Len(t, series, 3)

	assert.Equal(t, "2024-01-01", series[0].Bucket)
	assert.Equal(t, int64(2), series[0].SaleCount)
	assert.True(t, series[0].Revenue.Equal(decimal.NewFromInt(25)))

	assert.Equal(t, "2024-01-02", series[1].Bucket)
	assert.Equal(t, int64(0), series[1].SaleCount, "空桶也要输出")
	assert.True(t, series[1].Revenue.IsZero())

	assert.Equal(t, int64(1), series[2].SaleCount)
}

func TestBuildTimeSeries_Timezone(t *testing.T) {
	shanghai := time.FixedZone("UTC+8", 8*3600)
	r, err := ParseRange("2024-01-01", "2024-01-02", shanghai, time.Now())
	require.NoError(t, err)

	// UTC 1月1日 20:00 = 上海 1月2日 04:00
	points := []SalePoint{{CreatedAt: time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(5)}}

	series := BuildTimeSeries(points, r, BucketDay, shanghai)
	require.Len(t, series, 2)
	assert.Equal(t, int64(0), series[0].SaleCount)
	assert.Equal(t, int64(1), series[1].SaleCount)
}

func TestBuildTimeSeries_Month(t *testing.T) {
	r := Range{
		From: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	points := []SalePoint{
		{CreatedAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(1)},
		{CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(2)},
	}

	series := BuildTimeSeries(points, r, BucketMonth, time.UTC)
	require.Len(t, series, 3)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, []string{series[0].Bucket, series[1].Bucket, series[2].Bucket})
	assert.Equal(t, int64(1), series[0].SaleCount)
	assert.Equal(t, int64(0), series[1].SaleCount)
	assert.Equal(t, int64(1), series[2].SaleCount)
}

func TestParseBucket(t *testing.T) {
	b, err := ParseBucket("")
	require.NoError(t, err)
	assert.Equal(t, BucketDay, b)

	_, err = ParseBucket("week")
	assert.ErrorIs(t, err, ErrInvalidBucket)
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(3, decimal.NewFromInt(100), decimal.NewFromInt(7))
	assert.True(t, s.AverageTicket.Equal(decimal.RequireFromString("33.33")))

	s = NewSummary(0, decimal.Zero, decimal.Zero)
	assert.True(t, s.AverageTicket.IsZero())
}
