package service

import (
	"net/http"
	"time"

	"github.com/arcadia-chat/arcadia/logger"
	"github.com/arcadia-chat/arcadia/util/common"
	"github.com/arcadia-chat/arcadia/web/middleware"
	"github.com/arcadia-chat/arcadia/web/websocket"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Upgrader upgrades authenticated /ws requests.
var Upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is validated by the domain middleware when configured
	},
}

// inboundEvent is a client-emitted frame.
type inboundEvent struct {
	Event string `json:"event"`
	Data  struct {
		RoomId  int    `json:"roomId"`
		Content string `json:"content"`
	} `json:"data"`
}

// WebSocketService bridges the hub and the chat service: it pumps frames for
// one connection and translates client events into chat operations.
type WebSocketService struct {
	hub         *websocket.Hub
	chatService ChatService
}

// NewWebSocketService creates the service around a running hub.
func NewWebSocketService(hub *websocket.Hub) *WebSocketService {
	return &WebSocketService{hub: hub}
}

// Hub exposes the underlying hub.
func (s *WebSocketService) Hub() *websocket.Hub {
	return s.hub
}

// HandleConnection services one authenticated websocket connection until it
// closes. It blocks; the controller calls it from the request handler.
func (s *WebSocketService) HandleConnection(conn *gorillaws.Conn, userId int) {
	client := &websocket.Client{
		ID:     uuid.NewString(),
		UserId: userId,
		Send:   make(chan []byte, 64),
	}
	s.hub.Register(client)
	middleware.WsConnections.Inc()
	defer func() {
		s.hub.Unregister(client)
		middleware.WsConnections.Dec()
		_ = conn.Close()
	}()

	go s.writePump(conn, client)
	s.readPump(conn, userId)
}

func (s *WebSocketService) writePump(conn *gorillaws.Conn, client *websocket.Client) {
	defer common.Recover("websocket write pump")

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(gorillaws.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(gorillaws.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(gorillaws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *WebSocketService) readPump(conn *gorillaws.Conn, userId int) {
	defer common.Recover("websocket read pump")

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event inboundEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Debug("websocket: malformed client event:", err)
			continue
		}

		switch event.Event {
		case websocket.EventSetRead:
			if err := s.chatService.SetRoomAsRead(event.Data.RoomId, userId); err != nil {
				logger.Warning("websocket setRead failed:", err)
			}
		case websocket.EventMessage:
			message, err := s.chatService.PostMessage(userId, event.Data.RoomId, event.Data.Content)
			if err != nil {
				logger.Debug("websocket message rejected:", err)
				continue
			}
			middleware.WsMessagesTotal.Inc()
			s.NotifyRoomUpdated(message.RoomId)
		default:
			logger.Debugf("websocket: unknown client event %q", event.Event)
		}
	}
}

// NotifyRoomUpdated pushes updateListConversations with the room reference to
// every member of the room. Receiving clients refetch the room and re-sort
// their conversation list.
func (s *WebSocketService) NotifyRoomUpdated(roomId int) {
	memberIds, err := s.chatService.GetRoomMemberIds(roomId)
	if err != nil {
		logger.Warning("websocket: list room members failed:", err)
		return
	}
	s.hub.SendToUsers(memberIds, websocket.Event{
		Event: websocket.EventUpdateListConversations,
		Data:  map[string]any{"roomId": roomId},
	})
}
