package dto

// BestsellersRequest 畅销商品查询参数
type BestsellersRequest struct {
	RangeQuery
	Limit int `form:"limit" binding:"omitempty,min=1,max=100" example:"10"`
}

// TimeSeriesRequest 时间序列查询参数
type TimeSeriesRequest struct {
	RangeQuery
	Bucket string `form:"bucket" binding:"omitempty,oneof=day month" example:"day"`
}
