// Package controller provides the HTTP request handlers of the arcadia
// server: auth, two-factor, chat rooms, user profiles and the websocket
// upgrade endpoint.
package controller

import (
	"net/http"

	"github.com/arcadia-chat/arcadia/logger"
	"github.com/arcadia-chat/arcadia/web/token"

	"github.com/gin-gonic/gin"
)

// BaseController provides the auth guards shared by all controllers.
type BaseController struct{}

// checkLogin verifies the session token and stores its claims in the request
// context. Partial tokens (password passed, second factor pending) are
// accepted; handlers needing full access use checkFullLogin.
func (a *BaseController) checkLogin(c *gin.Context) {
	claims, err := token.FromRequest(c)
	if err != nil {
		pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "chat.unauthorized"))
		c.Abort()
		return
	}
	token.SetClaims(c, claims)
	c.Next()
}

// checkFullLogin additionally requires the second authentication factor when
// the account has two-factor enabled.
func (a *BaseController) checkFullLogin(c *gin.Context) {
	claims, err := token.FromRequest(c)
	if err != nil || !claims.IsFull() {
		pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "chat.unauthorized"))
		c.Abort()
		return
	}
	token.SetClaims(c, claims)
	c.Next()
}

// I18nWeb retrieves an internationalized message based on the current locale.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	anyfunc, funcExists := c.Get("I18n")
	if !funcExists {
		logger.Warning("I18n function not exists in gin context!")
		return name
	}
	i18nFunc, _ := anyfunc.(func(key string, keyParams ...string) string)
	if i18nFunc == nil {
		return name
	}
	return i18nFunc(name, params...)
}
