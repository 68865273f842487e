package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, healthCheckTimeout)
	defer cancel()

	err := h.tasks.Ping(ctx)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("storage health check failed")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
