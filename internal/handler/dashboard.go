package handler

import (
	"net/http"

	"gimnasio/internal/service"

	"github.com/gin-gonic/gin"
)

// Dashboard GET /api/dashboard/admin/hoy
func Dashboard(svc service.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := svc.ResumenHoy(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
