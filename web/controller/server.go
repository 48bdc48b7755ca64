package controller

import (
	"net/http"
	"strconv"

	"github.com/arcadia-chat/arcadia/web/service"

	"github.com/gin-gonic/gin"
)

// ServerController serves runtime status and recent log lines.
type ServerController struct {
	BaseController

	serverService service.ServerService
}

func NewServerController(g *gin.RouterGroup) *ServerController {
	a := &ServerController{}
	a.initRouter(g)
	return a
}

func (a *ServerController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/server")
	g.Use(a.checkFullLogin)

	g.GET("/status", a.status)
	g.GET("/logs/:count", a.getLogs)
}

func (a *ServerController) status(c *gin.Context) {
	jsonObj(c, a.serverService.GetStatus(), nil)
}

func (a *ServerController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 1 {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "fail"))
		return
	}
	level := c.DefaultQuery("level", "info")

	logs := a.serverService.GetLogs(count, level)
	jsonObj(c, logs, nil)
}
