package application

import (
	"errors"

	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// FailureReason 把错误归类为指标标签
// insufficient_stock | not_found | invalid | internal
func FailureReason(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return "internal"
	}

	switch {
	case appErr.Code == apperrors.ErrCodeInsufficientStock:
		return "insufficient_stock"
	case appErr.Code >= 40400 && appErr.Code < 40500:
		return "not_found"
	case appErr.Code >= 40000 && appErr.Code < 50000:
		return "invalid"
	default:
		return "internal"
	}
}
