package site

import (
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

var (
	ErrSiteNotFound    = apperrors.New(apperrors.ErrCodeSiteNotFound, "存储点不存在")
	ErrNameDuplicate   = apperrors.New(apperrors.ErrCodeDuplicateEntry, "存储点名称已存在")
	ErrSiteInUse       = apperrors.New(apperrors.ErrCodeSiteInUse, "存储点仍有商品，无法删除")
	ErrSiteInactive    = apperrors.New(apperrors.ErrCodeSiteInactive, "存储点已停用")
	ErrNameRequired    = apperrors.New(apperrors.ErrCodeInvalidParams, "存储点名称不能为空")
	ErrInvalidCapacity = apperrors.New(apperrors.ErrCodeInvalidParams, "容量不能为负数")
)
