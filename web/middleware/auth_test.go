package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/ku-unplugged/livelog/database"
	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/web/service"
	"github.com/ku-unplugged/livelog/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *service.AccountService {
	t.Helper()
	os.Setenv("LIVELOG_BCRYPT_MIN_COST", "true")

	dbPath := "test.db"
	os.Remove(dbPath)
	require.NoError(t, database.InitDB(dbPath))
	t.Cleanup(func() {
		db, _ := database.GetDB().DB()
		db.Close()
		os.Remove(dbPath)
	})
	return &service.AccountService{}
}

func newTestEngine(accountService *service.AccountService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	store := cookie.NewStore([]byte("test-secret"))
	engine.Use(sessions.Sessions("livelog", store))
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", "/")
		c.Next()
	})
	engine.Use(ResolveAccount(accountService))

	// Test-only login endpoint writing the session directly.
	engine.GET("/login-as/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		_ = session.SetLoginAccount(c, id)
		c.Status(http.StatusOK)
	})

	private := engine.Group("/private")
	private.Use(AuthRequired())
	private.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, strconv.Itoa(CurrentAccount(c).Id))
	})

	elderOnly := engine.Group("/elder")
	elderOnly.Use(AuthRequired(), RequireRole(model.RoleAdmin, model.RoleElder))
	elderOnly.GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return engine
}

func seedAccount(t *testing.T, accountService *service.AccountService, email, role string) *model.Account {
	t.Helper()
	account := &model.Account{
		FirstName: "太郎",
		LastName:  "京大",
		Furigana:  "きょうだい たろう",
		Email:     email,
		Joined:    2011,
		Role:      role,
		Activated: true,
	}
	require.NoError(t, database.GetDB().Create(account).Error)
	return account
}

func TestGuardRejectsUnauthenticated(t *testing.T) {
	accountService := setup(t)
	engine := newTestEngine(accountService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestGuardRejectsUnauthenticatedAjax(t *testing.T) {
	accountService := setup(t)
	engine := newTestEngine(accountService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuardSessionWins(t *testing.T) {
	accountService := setup(t)
	engine := newTestEngine(accountService)
	account := seedAccount(t, accountService, "sess@example.com", model.RoleMember)

	login := httptest.NewRecorder()
	engine.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login-as/"+strconv.Itoa(account.Id), nil))
	require.Equal(t, http.StatusOK, login.Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, strconv.Itoa(account.Id), w.Body.String())
}

func TestGuardRememberCookieFallback(t *testing.T) {
	accountService := setup(t)
	engine := newTestEngine(accountService)
	account := seedAccount(t, accountService, "cookie@example.com", model.RoleMember)

	token, err := accountService.Remember(account)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{
		Name:  session.RememberCookie,
		Value: strconv.Itoa(account.Id) + ":" + token,
	})
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, strconv.Itoa(account.Id), w.Body.String())
}

func TestGuardBadRememberTokenClearsCookie(t *testing.T) {
	accountService := setup(t)
	engine := newTestEngine(accountService)
	account := seedAccount(t, accountService, "forged@example.com", model.RoleMember)

	_, err := accountService.Remember(account)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{
		Name:  session.RememberCookie,
		Value: strconv.Itoa(account.Id) + ":not-the-token",
	})
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == session.RememberCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "expected the remember cookie to be dropped")
}

func TestGuardRoleRequired(t *testing.T) {
	accountService := setup(t)
	engine := newTestEngine(accountService)

	member := seedAccount(t, accountService, "member@example.com", model.RoleMember)
	elder := seedAccount(t, accountService, "elder@example.com", model.RoleElder)

	for _, tt := range []struct {
		account *model.Account
		want    int
	}{
		{member, http.StatusForbidden},
		{elder, http.StatusOK},
	} {
		token, err := accountService.Remember(tt.account)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/elder", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.AddCookie(&http.Cookie{
			Name:  session.RememberCookie,
			Value: strconv.Itoa(tt.account.Id) + ":" + token,
		})
		engine.ServeHTTP(w, req)

		assert.Equal(t, tt.want, w.Code)
	}
}
