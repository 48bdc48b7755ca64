package controller

import (
	"net"
	"net/http"
	"strings"

	"github.com/arcadia-chat/arcadia/logger"
	"github.com/arcadia-chat/arcadia/web/entity"
	"github.com/arcadia-chat/arcadia/web/service"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonMsg sends a JSON response with a message and error status.
func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

// jsonObj sends a JSON response with an object and error status.
func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

// jsonMsgObj sends a JSON response with a message, object, and error status.
// Service sentinel errors carry their HTTP status; everything else is a 200
// envelope with success=false.
func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		if msg != "" {
			m.Msg = msg
		}
	} else {
		if status, known := statusForErr(err); known {
			pureJsonMsg(c, status, false, msgForErr(c, err, msg))
			return
		}
		m.Success = false
		m.Msg = msg + " (" + err.Error() + ")"
		logger.Warning(msg+" "+I18nWeb(c, "fail")+": ", err)
	}
	c.JSON(http.StatusOK, m)
}

// pureJsonMsg sends a pure JSON message response with custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// statusForErr maps the service error taxonomy onto HTTP statuses.
func statusForErr(err error) (int, bool) {
	switch err {
	case service.ErrUnauthorized:
		return http.StatusUnauthorized, true
	case service.ErrForbidden:
		return http.StatusForbidden, true
	case service.ErrNotFound:
		return http.StatusNotFound, true
	}
	return 0, false
}

func msgForErr(c *gin.Context, err error, fallback string) string {
	switch err {
	case service.ErrUnauthorized:
		return I18nWeb(c, "chat.unauthorized")
	case service.ErrForbidden:
		return I18nWeb(c, "chat.forbidden")
	case service.ErrNotFound:
		if fallback != "" {
			return fallback
		}
		return I18nWeb(c, "chat.roomNotFound")
	}
	return fallback
}
