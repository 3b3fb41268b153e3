package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/inventory-pos/internal/application/report"
	"github.com/xiebiao/inventory-pos/internal/interface/http/dto"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 报表HTTP处理器
type ReportHandler struct {
	reportUseCase *appreport.UseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(reportUseCase *appreport.UseCase) *ReportHandler {
	return &ReportHandler{reportUseCase: reportUseCase}
}

func rangeRequest(q dto.RangeQuery) appreport.RangeRequest {
	return appreport.RangeRequest{From: q.From, To: q.To}
}

// SalesSummary 销售汇总
// @Summary      销售汇总
// @Description  区间内销售单数、销售额、销售件数、客单价；from缺省为本月1日，to缺省为今天
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "开始日期 YYYY-MM-DD"
// @Param        to   query string false "结束日期 YYYY-MM-DD（包含）"
// @Success      200 {object} response.Response{data=report.SummaryResponse}
// @Failure      400 {object} response.Response "日期区间无效"
// @Router       /api/v1/reports/sales-summary [get]
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	result, err := h.reportUseCase.Summary(c.Request.Context(), rangeRequest(q))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Bestsellers 畅销商品
// @Summary      畅销商品
// @Description  按销量降序，销量相同按销售额降序
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        from  query string false "开始日期 YYYY-MM-DD"
// @Param        to    query string false "结束日期 YYYY-MM-DD（包含）"
// @Param        limit query int    false "条数" default(10)
// @Success      200 {object} response.Response{data=[]report.Bestseller}
// @Router       /api/v1/reports/bestsellers [get]
func (h *ReportHandler) Bestsellers(c *gin.Context) {
	var q dto.BestsellersRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	list, err := h.reportUseCase.Bestsellers(c.Request.Context(), rangeRequest(q.RangeQuery), q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// SalesTimeSeries 销售时间序列
// @Summary      销售时间序列
// @Description  按日或按月汇总销售额，没有销售的桶也会返回
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        from   query string false "开始日期 YYYY-MM-DD"
// @Param        to     query string false "结束日期 YYYY-MM-DD（包含）"
// @Param        bucket query string false "粒度" Enums(day, month) default(day)
// @Success      200 {object} response.Response{data=report.TimeSeriesResponse}
// @Router       /api/v1/reports/sales-timeseries [get]
func (h *ReportHandler) SalesTimeSeries(c *gin.Context) {
	var q dto.TimeSeriesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	result, err := h.reportUseCase.TimeSeries(c.Request.Context(), rangeRequest(q.RangeQuery), q.Bucket)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// LowStock 低库存报表
// @Summary      低库存报表
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.ProductResponse}
// @Router       /api/v1/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *gin.Context) {
	list, err := h.reportUseCase.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewProductList(list))
}

// ExportSales 导出销售报表
// @Summary      导出销售报表
// @Description  XLSX文件：汇总、按日明细、畅销商品三个工作表
// @Tags         报表
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        from query string false "开始日期 YYYY-MM-DD"
// @Param        to   query string false "结束日期 YYYY-MM-DD（包含）"
// @Success      200 {file} file
// @Failure      400 {object} response.Response "日期区间无效"
// @Router       /api/v1/reports/sales/export [get]
func (h *ReportHandler) ExportSales(c *gin.Context) {
	var q dto.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	export, err := h.reportUseCase.ExportSales(c.Request.Context(), rangeRequest(q))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, xlsxContentType, export.Data)
}
