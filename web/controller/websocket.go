package controller

import (
	"github.com/arcadia-chat/arcadia/logger"
	"github.com/arcadia-chat/arcadia/web/service"
	"github.com/arcadia-chat/arcadia/web/token"

	"github.com/gin-gonic/gin"
)

// WebSocketController upgrades authenticated requests to live event streams.
type WebSocketController struct {
	BaseController

	wsService *service.WebSocketService
}

func NewWebSocketController(g *gin.RouterGroup, wsService *service.WebSocketService) *WebSocketController {
	a := &WebSocketController{wsService: wsService}
	a.initRouter(g)
	return a
}

func (a *WebSocketController) initRouter(g *gin.RouterGroup) {
	g.GET("/ws", a.checkFullLogin, a.serve)
}

func (a *WebSocketController) serve(c *gin.Context) {
	claims := token.GetClaims(c)

	conn, err := service.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already wrote the error response
		logger.Warning("websocket upgrade failed:", err)
		return
	}

	a.wsService.HandleConnection(conn, claims.UserId)
}
