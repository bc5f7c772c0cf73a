package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/rollover"
	"github.com/subtrackhq/subtrack/internal/platform/clock"
	"github.com/subtrackhq/subtrack/pkg/errs"
	"github.com/subtrackhq/subtrack/pkg/response"
)

// RolloverHandler exposes the lazy trigger used by clients on app open.
// The scheduled worker covers users who never open the app; this endpoint
// just advances the ledger early for the ones who do.
type RolloverHandler struct {
	svc   *rollover.Service
	clock clock.Clock
}

func NewRolloverHandler(svc *rollover.Service, clk clock.Clock) *RolloverHandler {
	return &RolloverHandler{svc: svc, clock: clk}
}

// @Summary      Trigger ledger rollover
// @Description  Runs the rollover for the user unless it already ran today
// @Tags         Rollover
// @Produce      json
// @Router       /api/v1/rollover/run [post]
func (h *RolloverHandler) apiRunRollover() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			writeError(c, errs.Invalid("user_id", "required"))
			return
		}
		today := h.clock.Now()

		ok, err := h.svc.ShouldRun(c.Request.Context(), userID, today)
		if err != nil {
			writeError(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusOK, response.OKT(&rollover.Result{Skipped: []string{}}))
			return
		}

		result, err := h.svc.RunRollover(c.Request.Context(), userID, today)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(result))
	}
}

func RegisterRolloverRoutes(r gin.IRouter, h *RolloverHandler) {
	r.POST("/rollover/run", h.apiRunRollover())
}
