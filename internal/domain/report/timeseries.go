package report

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// Bucket 时间分桶粒度
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketMonth Bucket = "month"
)

var (
	ErrInvalidBucket = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的时间粒度（day、month）")
	ErrInvalidRange  = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的日期区间")
)

// maxRangeDays 单次查询最长跨度
const maxRangeDays = 366 * 5

const dateLayout = "2006-01-02"

// Range 时间区间，左闭右开[From, To)
type Range struct {
	From time.Time
	To   time.Time
}

// Contains t是否落在区间内
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// ParseRange 解析YYYY-MM-DD日期区间（to当天包含在内）
// 日期按loc解释；from缺省为本月1日，to缺省为今天
func ParseRange(from, to string, loc *time.Location, now time.Time) (Range, error) {
	now = now.In(loc)

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, loc)
		if err != nil {
			return Range{}, ErrInvalidRange
		}
		start = t
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, loc)
		if err != nil {
			return Range{}, ErrInvalidRange
		}
		end = t
	}
	end = end.AddDate(0, 0, 1)

	if !start.Before(end) || end.Sub(start) > maxRangeDays*24*time.Hour {
		return Range{}, ErrInvalidRange
	}
	return Range{From: start, To: end}, nil
}

// ParseBucket 解析分桶粒度，空字符串取day
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case "", BucketDay:
		return BucketDay, nil
	case BucketMonth:
		return BucketMonth, nil
	}
	return "", ErrInvalidBucket
}

// truncate 取t在loc时区所在桶的起点
func (b Bucket) truncate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	if b == BucketMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func (b Bucket) next(t time.Time) time.Time {
	if b == BucketMonth {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}

func (b Bucket) label(t time.Time) string {
	if b == BucketMonth {
		return t.Format("2006-01")
	}
	return t.Format(dateLayout)
}

// Point 时间序列的一个桶
type Point struct {
	Bucket    string          `json:"bucket"`
	Start     time.Time       `json:"start"`
	SaleCount int64           `json:"sale_count"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// BuildTimeSeries 按桶汇总销售，区间内没有销售的桶也输出0
// 桶边界按loc时区的自然日、自然月计算（夏令时切换日的桶长度不是24小时）
func BuildTimeSeries(points []SalePoint, r Range, bucket Bucket, loc *time.Location) []Point {
	var series []Point
	index := make(map[int64]int)

	for start := bucket.truncate(r.From, loc); start.Before(r.To); start = bucket.next(start) {
		index[start.Unix()] = len(series)
		series = append(series, Point{
			Bucket:  bucket.label(start),
			Start:   start,
			Revenue: decimal.Zero,
		})
	}

	for _, p := range points {
		if !r.Contains(p.CreatedAt) {
			continue
		}
		i, ok := index[bucket.truncate(p.CreatedAt, loc).Unix()]
		if !ok {
			continue
		}
		series[i].SaleCount++
		series[i].Revenue = series[i].Revenue.Add(p.Total)
	}
	return series
}
