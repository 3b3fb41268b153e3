package user

import (
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

var (
	ErrUserNotFound      = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")
	ErrUsernameDuplicate = apperrors.New(apperrors.ErrCodeUsernameDuplicate, "用户名已存在")
	ErrInvalidUsername   = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名需为3-32位字母、数字或下划线")
	ErrInvalidRole       = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的角色（admin、manager、cashier）")
)
