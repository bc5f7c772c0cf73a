package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/analytics"
	"github.com/subtrackhq/subtrack/internal/platform/cache"
	"github.com/subtrackhq/subtrack/internal/platform/clock"
	"github.com/subtrackhq/subtrack/pkg/billing"
	"github.com/subtrackhq/subtrack/pkg/errs"
	"github.com/subtrackhq/subtrack/pkg/logctx"
	"github.com/subtrackhq/subtrack/pkg/response"
)

// AnalyticsHandler serves aggregation results through a read-through cache.
// Cache keys embed the current month, so a month boundary invalidates
// without any explicit eviction; the TTL covers data edits inside a month.
type AnalyticsHandler struct {
	svc   *analytics.Service
	cache cache.Cache
	clock clock.Clock
}

func NewAnalyticsHandler(svc *analytics.Service, c cache.Cache, clk clock.Clock) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, cache: c, clock: clk}
}

// readThrough serves key from cache or computes, caches and returns fresh
// JSON. Aggregation failures abort the whole response; partial totals are
// never returned.
func (h *AnalyticsHandler) readThrough(c *gin.Context, key string, compute func() (any, error)) {
	if raw, ok := h.cache.Get(key); ok {
		c.Data(http.StatusOK, "application/json", wrapEnvelope(raw))
		return
	}
	result, err := compute()
	if err != nil {
		writeError(c, err)
		return
	}
	if raw, err := json.Marshal(result); err == nil {
		h.cache.Put(key, raw)
	} else {
		logctx.FromGin(c, nil).Errorf("failed to marshal cached aggregate: %v", err)
	}
	c.JSON(http.StatusOK, response.OKT(result))
}

// wrapEnvelope re-wraps a cached payload in the standard envelope without
// re-marshaling the data.
func wrapEnvelope(data json.RawMessage) []byte {
	return []byte(`{"code":0,"message":"ok","data":` + string(data) + `}`)
}

// @Summary      Monthly totals over a window
// @Tags         Analytics
// @Produce      json
// @Router       /api/v1/analytics/monthly-totals [get]
func (h *AnalyticsHandler) apiMonthlyTotals() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			writeError(c, errs.Invalid("user_id", "required"))
			return
		}
		today := h.clock.Now()

		// default window: trailing 12 months ending at the current month
		current := billing.MonthOf(today)
		winStart, winEnd := current, current
		for i := 0; i < 11; i++ {
			winStart = prevMonth(winStart)
		}
		if from := c.Query("from"); from != "" {
			m, err := billing.ParseMonth(from)
			if err != nil {
				writeError(c, errs.Invalid("from", "must be YYYY-MM"))
				return
			}
			winStart = m
		}
		if to := c.Query("to"); to != "" {
			m, err := billing.ParseMonth(to)
			if err != nil {
				writeError(c, errs.Invalid("to", "must be YYYY-MM"))
				return
			}
			winEnd = m
		}

		key := cache.Key(userID, fmt.Sprintf("monthly|%s|%s..%s", current, winStart, winEnd))
		h.readThrough(c, key, func() (any, error) {
			return h.svc.ComputeMonthlyTotals(c.Request.Context(), userID, winStart, winEnd, today)
		})
	}
}

// @Summary      Category totals for one month
// @Tags         Analytics
// @Produce      json
// @Router       /api/v1/analytics/category-totals [get]
func (h *AnalyticsHandler) apiCategoryTotals() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			writeError(c, errs.Invalid("user_id", "required"))
			return
		}
		today := h.clock.Now()
		target := billing.MonthOf(today)
		if m := c.Query("month"); m != "" {
			parsed, err := billing.ParseMonth(m)
			if err != nil {
				writeError(c, errs.Invalid("month", "must be YYYY-MM"))
				return
			}
			target = parsed
		}

		key := cache.Key(userID, fmt.Sprintf("category|%s|%s", billing.MonthOf(today), target))
		h.readThrough(c, key, func() (any, error) {
			return h.svc.ComputeCategoryTotals(c.Request.Context(), userID, target, today)
		})
	}
}

// @Summary      Annual spend estimate
// @Tags         Analytics
// @Produce      json
// @Router       /api/v1/analytics/annual-estimate [get]
func (h *AnalyticsHandler) apiAnnualEstimate() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			writeError(c, errs.Invalid("user_id", "required"))
			return
		}
		today := h.clock.Now()
		year := today.Year()
		if y := c.Query("year"); y != "" {
			n, err := strconv.Atoi(y)
			if err != nil {
				writeError(c, errs.Invalid("year", "must be an integer"))
				return
			}
			year = n
		}

		key := cache.Key(userID, fmt.Sprintf("annual|%s|%d", billing.MonthOf(today), year))
		h.readThrough(c, key, func() (any, error) {
			return h.svc.ComputeAnnualEstimate(c.Request.Context(), userID, year, today)
		})
	}
}

func prevMonth(m billing.Month) billing.Month {
	first := m.First().AddDate(0, -1, 0)
	return billing.MonthOf(first)
}

func RegisterAnalyticsRoutes(r gin.IRouter, h *AnalyticsHandler) {
	r.GET("/analytics/monthly-totals", h.apiMonthlyTotals())
	r.GET("/analytics/category-totals", h.apiCategoryTotals())
	r.GET("/analytics/annual-estimate", h.apiAnnualEstimate())
}
