package controller

import (
	"net/http"
	"strconv"

	"github.com/arcadia-chat/arcadia/database/model"
	"github.com/arcadia-chat/arcadia/web/entity"
	"github.com/arcadia-chat/arcadia/web/middleware"
	"github.com/arcadia-chat/arcadia/web/service"
	"github.com/arcadia-chat/arcadia/web/token"

	"github.com/gin-gonic/gin"
)

// CreateRoomForm creates a room of the given type; protected rooms require a
// password.
type CreateRoomForm struct {
	Name     string `json:"name" form:"name"`
	Type     string `json:"type" form:"type"`
	Password string `json:"password" form:"password"`
}

// JoinRoomForm joins the caller (or, for moderators, another user) to a room.
type JoinRoomForm struct {
	RoomId   int    `json:"roomId" form:"roomId"`
	Password string `json:"password" form:"password"`
	UserId   int    `json:"userId" form:"userId"`
}

// MuteUserForm sets a membership's mute flag.
type MuteUserForm struct {
	UserId int  `json:"userId" form:"userId"`
	RoomId int  `json:"roomId" form:"roomId"`
	Muted  bool `json:"muted" form:"muted"`
}

// BanFromRoomForm sets a membership's ban flag.
type BanFromRoomForm struct {
	UserId int  `json:"userId" form:"userId"`
	RoomId int  `json:"roomId" form:"roomId"`
	Banned bool `json:"banned" form:"banned"`
}

// KickoutForm removes a membership.
type KickoutForm struct {
	UserId int `json:"userId" form:"userId"`
	RoomId int `json:"roomId" form:"roomId"`
}

// UpdateRoomPasswordForm rotates a room password.
type UpdateRoomPasswordForm struct {
	RoomId          int    `json:"roomId" form:"roomId"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// PostMessageForm sends a message to a room.
type PostMessageForm struct {
	RoomId  int    `json:"roomId" form:"roomId"`
	Content string `json:"content" form:"content"`
}

// ChatController exposes room lifecycle, membership and moderation endpoints.
type ChatController struct {
	BaseController

	chatService service.ChatService
	wsService   *service.WebSocketService
}

// NewChatController creates the controller and initializes its routes.
func NewChatController(g *gin.RouterGroup, wsService *service.WebSocketService) *ChatController {
	a := &ChatController{wsService: wsService}
	a.initRouter(g)
	return a
}

func (a *ChatController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/chat")
	g.Use(a.checkFullLogin)

	g.POST("/room/create", a.createRoom)
	g.POST("/room/join", a.joinRoom)
	g.POST("/room/message", a.postMessage)
	g.POST("/room/mute", a.muteUser)
	g.POST("/room/ban", a.banUserFromRoom)
	g.POST("/room/kickout", a.kickout)
	g.POST("/room/change-password", a.changeRoomPassword)

	g.GET("/room/types/all", a.getAllRoomTypes)
	g.GET("/room/all", a.userRooms)
	g.GET("/room/search/:roomName", a.searchRoom)
	g.GET("/room/explore", a.exploreRooms)
	g.GET("/room/explore/:roomName", a.exploreRooms)
	g.GET("/room/info/:roomId", a.getRoomInfo)
	g.GET("/room/:roomId", a.getRoomById)
	g.GET("/room/:roomId/messages", a.getRoomMessages)
	g.GET("/room/:roomId/members", a.getRoomMembers)
	g.GET("/room/:roomId/members/:username", a.getRoomMembers)
}

func (a *ChatController) createRoom(c *gin.Context) {
	var form CreateRoomForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	kind, ok := model.ParseRoomKind(form.Type)
	if !ok {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}

	room, err := a.chatService.CreateRoom(claims.UserId, form.Name, kind, form.Password)
	jsonMsgObj(c, I18nWeb(c, "chat.roomCreated"), room, err)
}

// joinRoom applies the join policy: idempotent for existing members, password
// verification for protected rooms, and moderator-only third-party enrolment.
func (a *ChatController) joinRoom(c *gin.Context) {
	var form JoinRoomForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	err := a.chatService.JoinRoom(claims.UserId, form.RoomId, form.Password, form.UserId)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	a.wsService.NotifyRoomUpdated(form.RoomId)
	jsonMsg(c, I18nWeb(c, "chat.joined"), nil)
}

func (a *ChatController) postMessage(c *gin.Context) {
	var form PostMessageForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	message, err := a.chatService.PostMessage(claims.UserId, form.RoomId, form.Content)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	middleware.WsMessagesTotal.Inc()
	a.wsService.NotifyRoomUpdated(form.RoomId)
	jsonObj(c, message, nil)
}

func (a *ChatController) getAllRoomTypes(c *gin.Context) {
	types, err := a.chatService.GetAllRoomTypes()
	jsonObj(c, types, err)
}

func (a *ChatController) userRooms(c *gin.Context) {
	claims := token.GetClaims(c)

	rooms, err := a.chatService.GetUserRooms(claims.UserId, 0, "")
	jsonObj(c, rooms, err)
}

func (a *ChatController) searchRoom(c *gin.Context) {
	claims := token.GetClaims(c)

	rooms, err := a.chatService.GetUserRooms(claims.UserId, 0, c.Param("roomName"))
	jsonObj(c, rooms, err)
}

func (a *ChatController) exploreRooms(c *gin.Context) {
	claims := token.GetClaims(c)

	rooms, err := a.chatService.ExploreRooms(c.Param("roomName"), claims.UserId)
	jsonObj(c, rooms, err)
}

// getRoomById returns the caller's conversation entry for one room. A
// non-numeric id yields an empty list, matching the read-path convention of
// returning empty results instead of errors.
func (a *ChatController) getRoomById(c *gin.Context) {
	claims := token.GetClaims(c)

	roomId, err := strconv.Atoi(c.Param("roomId"))
	if err != nil {
		jsonObj(c, []service.RoomSummary{}, nil)
		return
	}
	rooms, err := a.chatService.GetUserRooms(claims.UserId, roomId, "")
	jsonObj(c, rooms, err)
}

func (a *ChatController) getRoomInfo(c *gin.Context) {
	roomId, err := strconv.Atoi(c.Param("roomId"))
	if err != nil {
		pureJsonMsg(c, http.StatusNotFound, false, I18nWeb(c, "chat.roomNotFound"))
		return
	}
	room, err := a.chatService.GetRoomInfo(roomId)
	jsonObj(c, room, err)
}

func (a *ChatController) getRoomMembers(c *gin.Context) {
	claims := token.GetClaims(c)

	roomId, err := strconv.Atoi(c.Param("roomId"))
	if err != nil {
		pureJsonMsg(c, http.StatusNotFound, false, I18nWeb(c, "chat.roomNotFound"))
		return
	}

	myRole, err := a.chatService.GetMyRole(claims.UserId, roomId)
	if err != nil && err != service.ErrNotFound {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	members, err := a.chatService.GetRoomMembers(roomId, c.Param("username"))
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	jsonObj(c, entity.RoomMembers{MyRole: string(myRole), Members: members}, nil)
}

// getRoomMessages marks the room read for the caller, then lists messages.
func (a *ChatController) getRoomMessages(c *gin.Context) {
	claims := token.GetClaims(c)

	roomId, err := strconv.Atoi(c.Param("roomId"))
	if err != nil {
		pureJsonMsg(c, http.StatusNotFound, false, I18nWeb(c, "chat.roomNotFound"))
		return
	}

	if err := a.chatService.SetRoomAsRead(roomId, claims.UserId); err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	messages, err := a.chatService.GetRoomMessages(roomId, claims.UserId)
	jsonObj(c, messages, err)
}

func (a *ChatController) muteUser(c *gin.Context) {
	var form MuteUserForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	err := a.chatService.MuteUser(claims.UserId, form.UserId, form.RoomId, form.Muted)
	jsonMsg(c, "", err)
}

func (a *ChatController) banUserFromRoom(c *gin.Context) {
	var form BanFromRoomForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	err := a.chatService.BanUserFromRoom(claims.UserId, form.UserId, form.RoomId, form.Banned)
	jsonMsg(c, "", err)
}

func (a *ChatController) kickout(c *gin.Context) {
	var form KickoutForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	err := a.chatService.Kickout(claims.UserId, form.UserId, form.RoomId)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	a.wsService.NotifyRoomUpdated(form.RoomId)
	jsonMsg(c, "", nil)
}

func (a *ChatController) changeRoomPassword(c *gin.Context) {
	var form UpdateRoomPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	err := a.chatService.ChangeRoomPassword(claims.UserId, form.RoomId, form.Password, form.ConfirmPassword)
	jsonMsg(c, I18nWeb(c, "chat.passwordChanged"), err)
}
