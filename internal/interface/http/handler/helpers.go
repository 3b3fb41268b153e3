package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

// pathID 解析路径参数:id，非法时直接写入400响应
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// bindFailed 参数绑定失败统一响应
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
}
