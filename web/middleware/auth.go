// Package middleware implements the request guard layer: resolving the
// current account from session or remember cookie and enforcing route
// predicates before any handler runs.
package middleware

import (
	"net/http"

	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/logger"
	"github.com/ku-unplugged/livelog/web/entity"
	"github.com/ku-unplugged/livelog/web/locale"
	"github.com/ku-unplugged/livelog/web/service"
	"github.com/ku-unplugged/livelog/web/session"

	"github.com/gin-gonic/gin"
)

const currentAccountKey = "CURRENT_ACCOUNT"

// ResolveAccount resolves the current account once per request. The
// ephemeral session wins; otherwise the remember cookie is checked and
// its token must verify against the stored digest. A cookie that fails
// verification is dropped and the request continues unauthenticated.
func ResolveAccount(accountService *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := session.GetLoginAccountId(c); id > 0 {
			account, err := accountService.GetAccount(id)
			if err == nil {
				c.Set(currentAccountKey, account)
				c.Next()
				return
			}
			logger.Warning("session account not found:", err)
			_ = session.ClearSession(c)
		}

		if id, token, ok := session.GetRememberCookie(c); ok {
			account, err := accountService.GetAccount(id)
			if err == nil && accountService.Authenticated(account, service.KindRemember, token) {
				if err := session.SetLoginAccount(c, account.Id); err != nil {
					logger.Warning("unable to save session:", err)
				}
				c.Set(currentAccountKey, account)
				c.Next()
				return
			}
			session.ClearRememberCookie(c)
		}

		c.Next()
	}
}

// CurrentAccount returns the account resolved for this request, nil
// when unauthenticated.
func CurrentAccount(c *gin.Context) *model.Account {
	if obj, exists := c.Get(currentAccountKey); exists {
		if account, ok := obj.(*model.Account); ok {
			return account
		}
	}
	return nil
}

// AuthRequired rejects unauthenticated requests. Browser requests are
// redirected to the landing page with their destination stored for the
// post-login return; XHR gets a 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if service.IsLoggedIn(CurrentAccount(c)) {
			c.Next()
			return
		}

		if isAjax(c) {
			c.JSON(http.StatusUnauthorized, entity.Msg{
				Success: false,
				Msg:     locale.I18n(locale.Web, "pages.login.loginAgain"),
			})
		} else {
			if c.Request.Method == http.MethodGet {
				_ = session.StoreLocation(c, c.Request.URL.RequestURI())
			}
			c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		}
		c.Abort()
	}
}

func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest" ||
		c.ContentType() == "application/json"
}
