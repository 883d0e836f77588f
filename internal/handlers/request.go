package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// bindJSON decodes the body into dst and writes the error response itself.
// Domain decoding errors such as a malformed clock time keep their code.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		httperr.FromError(c, err)
		return false
	}

	httperr.BadRequest(c, "invalid_request", "Malformed request body.")
	return false
}
