// Package controller provides the HTTP handlers for livelog: login and
// session management, accounts, lives, songs and song entries.
package controller

import (
	"net/http"

	"github.com/ku-unplugged/livelog/logger"
	"github.com/ku-unplugged/livelog/web/locale"
	"github.com/ku-unplugged/livelog/web/middleware"
	"github.com/ku-unplugged/livelog/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides the login guard shared by all controllers.
type BaseController struct{}

// checkLogin rejects unauthenticated requests, remembering the intended
// destination for browser requests so login can return there.
func (a *BaseController) checkLogin(c *gin.Context) {
	if middleware.CurrentAccount(c) != nil {
		c.Next()
		return
	}

	if isAjax(c) {
		pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.login.loginAgain"))
	} else {
		if c.Request.Method == http.MethodGet {
			_ = session.StoreLocation(c, c.Request.URL.RequestURI())
		}
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
	}
	c.Abort()
}

// I18nWeb resolves a localized message through the request's localizer.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	anyfunc, funcExists := c.Get("I18n")
	if !funcExists {
		logger.Warning("I18n function not exists in gin context!")
		return name
	}
	i18nFunc, _ := anyfunc.(func(i18nType locale.I18nType, key string, keyParams ...string) string)
	return i18nFunc(locale.Web, name, params...)
}
