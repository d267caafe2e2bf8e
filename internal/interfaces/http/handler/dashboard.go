package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	dashboardapp "github.com/pyme/backend/internal/application/dashboard"
	"github.com/pyme/backend/internal/domain/analytics"
	"github.com/pyme/backend/internal/interfaces/http/dto"
)

// DashboardHandler exposes the analytics reports as API endpoints.
type DashboardHandler struct {
	BaseHandler
	service *dashboardapp.DashboardService
	now     func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *dashboardapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		now:     time.Now,
	}
}

// ===================== Request DTOs =====================

// PeriodRequest selects the reporting period. Both parameters are optional:
// period defaults to month, date to today.
type PeriodRequest struct {
	Period string `form:"period" binding:"omitempty,periodkind"`
	Date   string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// TopNRequest extends PeriodRequest with a ranking size.
type TopNRequest struct {
	PeriodRequest
	TopN int `form:"top_n" binding:"omitempty,min=1,max=100"`
}

// MonthlyTrendRequest selects the trailing window of the monthly series.
type MonthlyTrendRequest struct {
	Months int    `form:"months" binding:"omitempty,min=1,max=36"`
	Date   string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// GoalRequest carries the sales goal to measure against.
type GoalRequest struct {
	Goal   float64 `form:"goal" binding:"required,gt=0"`
	Period string  `form:"period" binding:"omitempty,periodkind"`
	Date   string  `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// DateRequest selects the as-of day for point-in-time reports.
type DateRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

func (h *DashboardHandler) resolveKind(period string) analytics.PeriodKind {
	if period == "" {
		return analytics.PeriodMonth
	}
	return analytics.PeriodKind(period)
}

// resolveDate parses an already-validated date parameter, defaulting to the
// current day.
func (h *DashboardHandler) resolveDate(date string) time.Time {
	if date == "" {
		return h.now()
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return h.now()
	}
	return t
}

// ===================== Endpoints =====================

// GetIncomeStatement handles GET /dashboard/income-statement
func (h *DashboardHandler) GetIncomeStatement(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidPeriod, err.Error())
		return
	}

	resp, err := h.service.GetIncomeStatement(c.Request.Context(), h.resolveKind(req.Period), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "income statement unavailable")
		return
	}
	h.Success(c, resp)
}

// GetCashFlow handles GET /dashboard/cash-flow
func (h *DashboardHandler) GetCashFlow(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidPeriod, err.Error())
		return
	}

	resp, err := h.service.GetCashFlowSummary(c.Request.Context(), h.resolveKind(req.Period), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "cash flow unavailable")
		return
	}
	h.Success(c, resp)
}

// GetLiquidity handles GET /dashboard/liquidity
func (h *DashboardHandler) GetLiquidity(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidPeriod, err.Error())
		return
	}

	resp, err := h.service.GetLiquidityKPIs(c.Request.Context(), h.resolveKind(req.Period), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "liquidity KPIs unavailable")
		return
	}
	h.Success(c, resp)
}

// GetInventory handles GET /dashboard/inventory
func (h *DashboardHandler) GetInventory(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidPeriod, err.Error())
		return
	}

	resp, err := h.service.GetInventoryKPIs(c.Request.Context(), h.resolveKind(req.Period), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "inventory KPIs unavailable")
		return
	}
	h.Success(c, resp)
}

// GetCashFlowProjection handles GET /dashboard/cash-flow/projection
func (h *DashboardHandler) GetCashFlowProjection(c *gin.Context) {
	var req DateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidDate, err.Error())
		return
	}

	resp, err := h.service.GetCashFlowProjection(c.Request.Context(), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "cash flow projection unavailable")
		return
	}
	h.Success(c, resp)
}

// GetReceivablesAging handles GET /dashboard/aging/receivables
func (h *DashboardHandler) GetReceivablesAging(c *gin.Context) {
	var req DateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidDate, err.Error())
		return
	}

	resp, err := h.service.GetReceivablesAging(c.Request.Context(), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "receivables aging unavailable")
		return
	}
	h.Success(c, resp)
}

// GetPayablesAging handles GET /dashboard/aging/payables
func (h *DashboardHandler) GetPayablesAging(c *gin.Context) {
	var req DateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidDate, err.Error())
		return
	}

	resp, err := h.service.GetPayablesAging(c.Request.Context(), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "payables aging unavailable")
		return
	}
	h.Success(c, resp)
}

// GetCustomerRFM handles GET /dashboard/customers/rfm
func (h *DashboardHandler) GetCustomerRFM(c *gin.Context) {
	var req DateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidDate, err.Error())
		return
	}

	resp, err := h.service.GetCustomerRFM(c.Request.Context(), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "customer analytics unavailable")
		return
	}
	h.Success(c, resp)
}

// GetMonthlyTrend handles GET /dashboard/trends/monthly
func (h *DashboardHandler) GetMonthlyTrend(c *gin.Context) {
	var req MonthlyTrendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}
	months := req.Months
	if months == 0 {
		months = 6
	}

	resp, err := h.service.GetMonthlyTrend(c.Request.Context(), months, h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "monthly trend unavailable")
		return
	}
	h.Success(c, resp)
}

// GetDailyTrend handles GET /dashboard/trends/daily
func (h *DashboardHandler) GetDailyTrend(c *gin.Context) {
	var req PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidPeriod, err.Error())
		return
	}

	resp, err := h.service.GetDailyTrend(c.Request.Context(), h.resolveKind(req.Period), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "daily trend unavailable")
		return
	}
	h.Success(c, resp)
}

// GetTopProducts handles GET /dashboard/top/products
func (h *DashboardHandler) GetTopProducts(c *gin.Context) {
	var req TopNRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	resp, err := h.service.GetTopProducts(c.Request.Context(), h.resolveKind(req.Period), h.resolveDate(req.Date), req.TopN)
	if err != nil {
		h.ServiceUnavailable(c, "product ranking unavailable")
		return
	}
	h.Success(c, resp)
}

// GetTopClients handles GET /dashboard/top/clients
func (h *DashboardHandler) GetTopClients(c *gin.Context) {
	var req TopNRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	resp, err := h.service.GetTopClients(c.Request.Context(), h.resolveKind(req.Period), h.resolveDate(req.Date), req.TopN)
	if err != nil {
		h.ServiceUnavailable(c, "client ranking unavailable")
		return
	}
	h.Success(c, resp)
}

// GetGoalProgress handles GET /dashboard/goal
func (h *DashboardHandler) GetGoalProgress(c *gin.Context) {
	var req GoalRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	goal := decimal.NewFromFloat(req.Goal)
	resp, err := h.service.GetGoalProgress(c.Request.Context(), goal, h.resolveKind(req.Period), h.resolveDate(req.Date))
	if err != nil {
		h.ServiceUnavailable(c, "goal progress unavailable")
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes mounts the dashboard endpoints on the API group.
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/dashboard")
	{
		g.GET("/income-statement", h.GetIncomeStatement)
		g.GET("/cash-flow", h.GetCashFlow)
		g.GET("/cash-flow/projection", h.GetCashFlowProjection)
		g.GET("/liquidity", h.GetLiquidity)
		g.GET("/inventory", h.GetInventory)
		g.GET("/aging/receivables", h.GetReceivablesAging)
		g.GET("/aging/payables", h.GetPayablesAging)
		g.GET("/customers/rfm", h.GetCustomerRFM)
		g.GET("/trends/monthly", h.GetMonthlyTrend)
		g.GET("/trends/daily", h.GetDailyTrend)
		g.GET("/top/products", h.GetTopProducts)
		g.GET("/top/clients", h.GetTopClients)
		g.GET("/goal", h.GetGoalProgress)
	}
}
