package controller

import (
	"strconv"

	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/logger"
	"github.com/ku-unplugged/livelog/web/middleware"

	"github.com/gin-gonic/gin"
)

// StatusController exposes operational diagnostics to admins.
type StatusController struct {
	BaseController
}

func NewStatusController(g *gin.RouterGroup) *StatusController {
	a := &StatusController{}
	a.initRouter(g)
	return a
}

func (a *StatusController) initRouter(g *gin.RouterGroup) {
	status := g.Group("/status")
	status.Use(middleware.AuthRequired(), middleware.RequireRole(model.RoleAdmin))

	status.POST("/logs/:count", a.getLogs)
}

// getLogs returns recent log entries at or below the requested level.
func (a *StatusController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count <= 0 {
		count = 50
	}
	level := c.PostForm("level")
	if level == "" {
		level = "info"
	}
	logs := logger.GetLogs(count, level)
	jsonObj(c, logs, nil)
}
