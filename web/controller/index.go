package controller

import (
	"net/http"

	"github.com/ku-unplugged/livelog/config"
	"github.com/ku-unplugged/livelog/logger"
	"github.com/ku-unplugged/livelog/web/entity"
	"github.com/ku-unplugged/livelog/web/middleware"
	"github.com/ku-unplugged/livelog/web/service"
	"github.com/ku-unplugged/livelog/web/session"

	"github.com/gin-gonic/gin"
)

// IndexController handles the landing page, login and logout.
type IndexController struct {
	BaseController

	accountService service.AccountService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/logout", a.logout)

	g.POST("/login", a.login)
}

// index redirects logged-in members to the song list; everyone else
// lands on the login page.
func (a *IndexController) index(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"songs")
		return
	}
	pureJsonMsg(c, http.StatusOK, true, "login")
}

// login authenticates by email and password, starts the session and,
// when asked, issues a rotated remember token in a persistent cookie.
func (a *IndexController) login(c *gin.Context) {
	var form entity.LoginForm

	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}
	if form.Email == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.emptyEmail"))
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.emptyPassword"))
		return
	}

	account := a.accountService.Authenticate(form.Email, form.Password)
	if account == nil {
		logger.Warningf("failed login for \"%s\", IP: \"%s\"", form.Email, getRemoteIp(c))
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.wrongEmailOrPassword"))
		return
	}
	if !account.Activated {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.notActivated"))
		return
	}

	if err := session.SetMaxAge(c, config.GetSessionMaxAge()); err != nil {
		logger.Warning("unable to set session max age:", err)
	}
	if err := session.SetLoginAccount(c, account.Id); err != nil {
		logger.Warning("unable to save session:", err)
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	if form.RememberMe {
		token, err := a.accountService.Remember(account)
		if err != nil {
			logger.Warning("unable to issue remember token:", err)
		} else {
			session.SetRememberCookie(c, account.Id, token)
		}
	} else {
		session.ClearRememberCookie(c)
	}

	logger.Infof("%s logged in successfully, IP: %s", account.Email, getRemoteIp(c))

	redirect := session.PullForwardingURL(c)
	if redirect == "" {
		redirect = c.GetString("base_path") + "songs"
	}
	jsonMsgObj(c, I18nWeb(c, "pages.login.successLogin"), gin.H{"redirect": redirect}, nil)
}

// logout invalidates the remember digest, clears the session and drops
// the cookies.
func (a *IndexController) logout(c *gin.Context) {
	if account := middleware.CurrentAccount(c); account != nil {
		if err := a.accountService.Forget(account); err != nil {
			logger.Warning("unable to forget account:", err)
		}
		logger.Infof("%s logged out", account.Email)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	session.ClearRememberCookie(c)
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}
