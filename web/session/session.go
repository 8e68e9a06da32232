// Package session holds the per-request session state: the current
// account id, the one-shot forwarding URL, and the persistent
// remember-me cookie.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ku-unplugged/livelog/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginAccountId = "LOGIN_ACCOUNT_ID"
	forwardingURL  = "FORWARDING_URL"

	// RememberCookie holds "accountId:token"; only the token's digest
	// is stored server side.
	RememberCookie = "livelog_remember"
)

func SetLoginAccount(c *gin.Context, accountId int) error {
	s := sessions.Default(c)
	s.Set(loginAccountId, accountId)
	return s.Save()
}

func GetLoginAccountId(c *gin.Context) int {
	s := sessions.Default(c)
	if obj := s.Get(loginAccountId); obj != nil {
		if id, ok := obj.(int); ok {
			return id
		}
	}
	return 0
}

func IsLogin(c *gin.Context) bool {
	return GetLoginAccountId(c) > 0
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	return s.Save()
}

// StoreLocation remembers the originally intended destination so the
// post-login flow can return there.
func StoreLocation(c *gin.Context, url string) error {
	if url == "" {
		return nil
	}
	s := sessions.Default(c)
	s.Set(forwardingURL, url)
	return s.Save()
}

// PullForwardingURL consumes the stored destination. Second call
// returns empty.
func PullForwardingURL(c *gin.Context) string {
	s := sessions.Default(c)
	obj := s.Get(forwardingURL)
	if obj == nil {
		return ""
	}
	s.Delete(forwardingURL)
	_ = s.Save()
	url, _ := obj.(string)
	return url
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}

// SetRememberCookie stores the persistent login credential client side.
func SetRememberCookie(c *gin.Context, accountId int, token string) {
	value := fmt.Sprintf("%d:%s", accountId, token)
	c.SetCookie(RememberCookie, value, config.GetRememberMaxAge(), "/", "", false, true)
}

func ClearRememberCookie(c *gin.Context) {
	c.SetCookie(RememberCookie, "", -1, "/", "", false, true)
}

// GetRememberCookie parses the remember cookie into its account id and
// token halves.
func GetRememberCookie(c *gin.Context) (accountId int, token string, ok bool) {
	value, err := c.Cookie(RememberCookie)
	if err != nil || value == "" {
		return 0, "", false
	}
	idStr, token, found := strings.Cut(value, ":")
	if !found || token == "" {
		return 0, "", false
	}
	accountId, err = strconv.Atoi(idStr)
	if err != nil || accountId <= 0 {
		return 0, "", false
	}
	return accountId, token, true
}
