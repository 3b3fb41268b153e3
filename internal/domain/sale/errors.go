package sale

import (
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// 销售领域错误定义
var (
	ErrSaleNotFound    = apperrors.New(apperrors.ErrCodeSaleNotFound, "销售单不存在")
	ErrSaleNoDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "销售单号重复")

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车为空")

	ErrProductRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "明细必须指定商品")
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0，最多3位小数")
	ErrInvalidPrice    = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数，最多2位小数")

	// ErrPriceMismatch catalog策略下提交的单价与目录价不一致
	ErrPriceMismatch = apperrors.New(apperrors.ErrCodePriceMismatch, "售价与目录价不一致")
)
