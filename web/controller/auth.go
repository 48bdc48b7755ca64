package controller

import (
	"net/http"

	"github.com/arcadia-chat/arcadia/logger"
	"github.com/arcadia-chat/arcadia/web/service"
	"github.com/arcadia-chat/arcadia/web/token"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterForm represents the registration request structure.
type RegisterForm struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthController handles registration, login and logout.
type AuthController struct {
	BaseController

	authService service.AuthService
}

// NewAuthController creates an AuthController and initializes its routes.
func NewAuthController(g *gin.RouterGroup) *AuthController {
	a := &AuthController{}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/auth")

	g.POST("/register", a.register)
	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
}

func (a *AuthController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}

	user, err := a.authService.Register(form.Username, form.Email, form.Password)
	if err == service.ErrForbidden {
		pureJsonMsg(c, http.StatusConflict, false, I18nWeb(c, "auth.toasts.usernameTaken"))
		return
	} else if err != nil {
		jsonMsg(c, I18nWeb(c, "auth.toasts.invalidFormData"), err)
		return
	}

	raw, err := token.Issue(user, false)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	token.SetCookie(c, raw)

	logger.Infof("%s registered, IP: %s", user.Username, getRemoteIp(c))
	jsonMsgObj(c, I18nWeb(c, "auth.toasts.registered"), user, nil)
}

// login verifies credentials and issues a session cookie. Accounts with
// two-factor enabled get a partial token that only grants the
// /2fa/authenticate endpoint.
func (a *AuthController) login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	if form.Username == "" {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.emptyUsername"))
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.emptyPassword"))
		return
	}

	user := a.authService.CheckUser(form.Username, form.Password)
	if user == nil {
		logger.Warningf("wrong credentials for %q, IP: %q", form.Username, getRemoteIp(c))
		pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "auth.toasts.wrongUsernameOrPassword"))
		return
	}

	raw, err := token.Issue(user, false)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	token.SetCookie(c, raw)

	logger.Infof("%s logged in successfully, IP: %s", user.Username, getRemoteIp(c))
	if user.TwoFactorEnabled {
		jsonMsgObj(c, I18nWeb(c, "auth.toasts.secondFactorRequired"),
			gin.H{"requiresTwoFactor": true}, nil)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "auth.toasts.successLogin"), user, nil)
}

func (a *AuthController) logout(c *gin.Context) {
	if claims := token.GetClaims(c); claims != nil {
		logger.Infof("user %d logged out", claims.UserId)
	}
	token.ClearCookie(c)
	jsonMsg(c, "", nil)
}
