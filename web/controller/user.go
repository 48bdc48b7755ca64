package controller

import (
	"net/http"

	"github.com/arcadia-chat/arcadia/web/service"
	"github.com/arcadia-chat/arcadia/web/token"

	"github.com/gin-gonic/gin"
)

// UserController exposes profile lookup, username search, the follow graph
// and player statistics.
type UserController struct {
	BaseController

	userService service.UserService
	authService service.AuthService
}

// NewUserController creates the controller and initializes its routes.
func NewUserController(g *gin.RouterGroup) *UserController {
	a := &UserController{}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/users")
	g.Use(a.checkFullLogin)

	g.GET("/me", a.getMe)
	g.POST("/me", a.updateMe)
	g.GET("/search/:query", a.searchUser)
	g.GET("/stats/:username", a.getStats)
	g.GET("/followers/:username", a.getFollowers)
	g.GET("/following/:username", a.getFollowing)
	g.GET("/follow/:username", a.followUser)
	g.GET("/unfollow/:username", a.unfollowUser)
	g.GET("/follows/:username", a.followsUser)
	g.GET("/:username", a.getUser)
}

func (a *UserController) getMe(c *gin.Context) {
	claims := token.GetClaims(c)

	user, err := a.authService.GetMe(claims.UserId)
	jsonObj(c, user, err)
}

func (a *UserController) updateMe(c *gin.Context) {
	var form service.ProfileUpdate
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "auth.toasts.invalidFormData"))
		return
	}
	claims := token.GetClaims(c)

	user, err := a.userService.UpdateProfile(claims.UserId, form)
	jsonMsgObj(c, I18nWeb(c, "users.profileUpdated"), user, err)
}

func (a *UserController) getUser(c *gin.Context) {
	user, err := a.userService.GetByUsername(c.Param("username"))
	if err == service.ErrNotFound {
		pureJsonMsg(c, http.StatusNotFound, false, I18nWeb(c, "users.notFound"))
		return
	}
	jsonObj(c, user, err)
}

func (a *UserController) searchUser(c *gin.Context) {
	users, err := a.userService.SearchByUsername(c.Param("query"))
	jsonObj(c, users, err)
}

func (a *UserController) getStats(c *gin.Context) {
	stats, err := a.userService.GetStats(c.Param("username"))
	if err == service.ErrNotFound {
		pureJsonMsg(c, http.StatusNotFound, false, I18nWeb(c, "users.notFound"))
		return
	}
	jsonObj(c, stats, err)
}

func (a *UserController) getFollowers(c *gin.Context) {
	followers, err := a.userService.GetFollowers(c.Param("username"))
	jsonObj(c, followers, err)
}

func (a *UserController) getFollowing(c *gin.Context) {
	following, err := a.userService.GetFollowing(c.Param("username"))
	jsonObj(c, following, err)
}

func (a *UserController) followUser(c *gin.Context) {
	claims := token.GetClaims(c)

	err := a.userService.Follow(claims.UserId, c.Param("username"))
	jsonMsg(c, "", err)
}

func (a *UserController) unfollowUser(c *gin.Context) {
	claims := token.GetClaims(c)

	err := a.userService.Unfollow(claims.UserId, c.Param("username"))
	jsonMsg(c, "", err)
}

// followsUser answers with 204 when the caller follows the user and 404
// otherwise; no body either way.
func (a *UserController) followsUser(c *gin.Context) {
	claims := token.GetClaims(c)

	follows, err := a.userService.Follows(claims.UserId, c.Param("username"))
	if err != nil || !follows {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
