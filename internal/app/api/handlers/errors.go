package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/pkg/errs"
	"github.com/subtrackhq/subtrack/pkg/response"
)

// writeError maps the service error taxonomy onto the response envelope.
// Validation failures and missing records carry their detail to the client;
// everything else is reported as an internal error.
func writeError(c *gin.Context, err error) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
	default:
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}
