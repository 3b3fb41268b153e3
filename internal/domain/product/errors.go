package product

import (
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrPartNumberConflict 零件号已存在
	ErrPartNumberConflict = apperrors.New(apperrors.ErrCodePartNumberConflict, "零件号已存在")

	ErrNameRequired       = apperrors.New(apperrors.ErrCodeInvalidParams, "商品名称不能为空")
	ErrPartNumberRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "零件号不能为空")

	// ErrInvalidType 类别只能是accessories、merchandise或workshop
	ErrInvalidType = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的商品类别")

	// ErrInvalidLocation 位置只能是warehouse或store
	ErrInvalidLocation = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的商品位置")

	ErrInvalidValue     = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数，最多2位小数")
	ErrInvalidThreshold = apperrors.New(apperrors.ErrCodeInvalidParams, "库存上下限无效（不能为负，最多3位小数）")
)
