package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ku-unplugged/livelog/database"
	"github.com/ku-unplugged/livelog/web/entity"
	"github.com/ku-unplugged/livelog/web/middleware"
	"github.com/ku-unplugged/livelog/web/service"

	"github.com/gin-gonic/gin"
)

// EntryController handles song entries for upcoming lives.
type EntryController struct {
	BaseController

	liveService  service.LiveService
	entryService service.EntryService
}

func NewEntryController(g *gin.RouterGroup) *EntryController {
	a := &EntryController{}
	a.initRouter(g)
	return a
}

func (a *EntryController) initRouter(g *gin.RouterGroup) {
	entries := g.Group("/lives/:id/entries")
	entries.Use(middleware.AuthRequired())
	entries.POST("", a.create)
}

// create saves the entry and reports the mail outcome. Past and
// same-day lives are closed to entries.
func (a *EntryController) create(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	live, err := a.liveService.GetLive(id)
	if database.IsNotFound(err) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	} else if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	if !service.IsFutureLive(live, time.Now()) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusForbidden, false, I18nWeb(c, "entry.liveClosed"))
			c.Abort()
		} else {
			c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
			c.Abort()
		}
		return
	}

	var form entity.EntryForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	song, errs, mailSent, err := a.entryService.CreateEntry(live, middleware.CurrentAccount(c), &form)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	if errs.Any() {
		jsonFieldErrors(c, errs)
		return
	}

	if mailSent {
		jsonMsgObj(c, I18nWeb(c, "entry.mailSent"), song, nil)
	} else {
		c.JSON(http.StatusOK, entity.Msg{
			Success: false,
			Msg:     I18nWeb(c, "entry.mailFailed"),
			Obj:     song,
		})
	}
}
