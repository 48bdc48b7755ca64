package controller

import (
	"net/http"

	"github.com/arcadia-chat/arcadia/web/service"
	"github.com/arcadia-chat/arcadia/web/token"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// TwoFactorCodeForm carries a submitted authenticator code.
type TwoFactorCodeForm struct {
	Code string `json:"code" form:"code"`
}

// TwoFactorController handles the TOTP lifecycle:
// generate -> turn-on, turn-off, and the second login step.
type TwoFactorController struct {
	BaseController

	twoFactorService service.TwoFactorService
}

// NewTwoFactorController creates the controller and initializes its routes.
func NewTwoFactorController(g *gin.RouterGroup) *TwoFactorController {
	a := &TwoFactorController{}
	a.initRouter(g)
	return a
}

func (a *TwoFactorController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/2fa")

	// authenticate is the only endpoint reachable with a partial token
	g.POST("/authenticate", a.checkLogin, a.authenticate)

	full := g.Group("/")
	full.Use(a.checkFullLogin)
	full.GET("/generate", a.generate)
	full.POST("/turn-on", a.turnOn)
	full.POST("/turn-off", a.turnOff)
}

// generate creates a fresh secret for the caller and streams its provisioning
// URI as a PNG QR code. The secret is persisted in the pending state; a
// second call overwrites it.
func (a *TwoFactorController) generate(c *gin.Context) {
	claims := token.GetClaims(c)

	otpauthURL, err := a.twoFactorService.GenerateSecret(claims.UserId)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	png, err := qrcode.Encode(otpauthURL, qrcode.Medium, 256)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// turnOn validates the submitted code against the pending secret, enables
// two-factor and reissues a full session cookie.
func (a *TwoFactorController) turnOn(c *gin.Context) {
	var form TwoFactorCodeForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	user, err := a.twoFactorService.TurnOn(claims.UserId, form.Code)
	if err == service.ErrUnauthorized {
		pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "twoFactor.wrongCode"))
		return
	} else if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	raw, err := token.Issue(user, true)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	token.SetCookie(c, raw)
	jsonMsg(c, I18nWeb(c, "twoFactor.enabled"), nil)
}

// turnOff validates the code, disables two-factor and reissues a cookie
// reflecting the non-2FA state.
func (a *TwoFactorController) turnOff(c *gin.Context) {
	var form TwoFactorCodeForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	user, err := a.twoFactorService.TurnOff(claims.UserId, form.Code)
	if err == service.ErrUnauthorized {
		pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "twoFactor.wrongCode"))
		return
	} else if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	raw, err := token.Issue(user, false)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	token.SetCookie(c, raw)
	jsonMsg(c, I18nWeb(c, "twoFactor.disabled"), nil)
}

// authenticate is the second login step for a partial session: a valid code
// upgrades the cookie to full access.
func (a *TwoFactorController) authenticate(c *gin.Context) {
	var form TwoFactorCodeForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	user, err := a.twoFactorService.Authenticate(claims.UserId, form.Code)
	if err == service.ErrUnauthorized {
		pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "twoFactor.wrongCode"))
		return
	} else if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	raw, err := token.Issue(user, true)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	token.SetCookie(c, raw)
	jsonObj(c, user, nil)
}
