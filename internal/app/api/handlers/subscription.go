package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	subsvc "github.com/subtrackhq/subtrack/internal/app/service/subscription"
	"github.com/subtrackhq/subtrack/pkg/billing"
	"github.com/subtrackhq/subtrack/pkg/errs"
	"github.com/subtrackhq/subtrack/pkg/response"
	"github.com/subtrackhq/subtrack/pkg/types"
)

// @Summary      Create subscription template
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Router       /api/v1/subscriptions [post]
func apiCreateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p subsvc.CreateParams
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		rec, err := svc.Create(c.Request.Context(), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rec))
	}
}

func apiUpdateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			writeError(c, errs.Invalid("user_id", "required"))
			return
		}
		var p subsvc.UpdateParams
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		rec, err := svc.Update(c.Request.Context(), userID, c.Param("id"), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rec))
	}
}

type terminateRequest struct {
	EndDate string `json:"end_date"`
}

// Terminate stops future charges: the template goes inactive and keeps its
// history. Nothing is deleted.
func apiTerminateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			writeError(c, errs.Invalid("user_id", "required"))
			return
		}
		var req terminateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		endDate, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			writeError(c, errs.Invalid("end_date", "must be YYYY-MM-DD"))
			return
		}
		rec, err := svc.Terminate(c.Request.Context(), userID, c.Param("id"), endDate)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rec))
	}
}

func apiListSubscriptions(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			writeError(c, errs.Invalid("user_id", "required"))
			return
		}
		var filters []*types.CommonFilter
		if cat := c.Query("category"); cat != "" {
			if !types.Category(cat).Valid() {
				writeError(c, errs.Invalid("category", "unknown category "+cat))
				return
			}
			filters = append(filters, &types.CommonFilter{
				Field: "category", Operator: types.CommonFilterOperatorEq, Values: []any{cat},
			})
		}
		if active := c.Query("is_active"); active != "" {
			filters = append(filters, &types.CommonFilter{
				Field: "is_active", Operator: types.CommonFilterOperatorEq, Values: []any{active == "true"},
			})
		}
		recs, err := svc.ListTemplates(c.Request.Context(), userID, filters)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(recs))
	}
}

func apiListSnapshots(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			writeError(c, errs.Invalid("user_id", "required"))
			return
		}
		monthKey := c.Query("month")
		if _, err := billing.ParseMonth(monthKey); err != nil {
			writeError(c, errs.Invalid("month", "must be YYYY-MM"))
			return
		}
		recs, err := svc.ListSnapshots(c.Request.Context(), userID, monthKey)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(recs))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subsvc.Service) {
	r.POST("/subscriptions", apiCreateSubscription(svc))
	r.PUT("/subscriptions/:id", apiUpdateSubscription(svc))
	r.POST("/subscriptions/:id/terminate", apiTerminateSubscription(svc))
	r.GET("/subscriptions", apiListSubscriptions(svc))
	r.GET("/subscriptions/snapshots", apiListSnapshots(svc))
}
