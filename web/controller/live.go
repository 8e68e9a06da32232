package controller

import (
	"net/http"
	"strconv"

	"github.com/ku-unplugged/livelog/database"
	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/web/entity"
	"github.com/ku-unplugged/livelog/web/middleware"
	"github.com/ku-unplugged/livelog/web/service"

	"github.com/gin-gonic/gin"
)

// LiveController handles the concert event listings.
type LiveController struct {
	BaseController

	liveService service.LiveService
}

func NewLiveController(g *gin.RouterGroup) *LiveController {
	a := &LiveController{}
	a.initRouter(g)
	return a
}

func (a *LiveController) initRouter(g *gin.RouterGroup) {
	lives := g.Group("/lives")
	lives.GET("", a.list)
	lives.GET("/first", a.first)
	lives.GET("/:id", a.show)

	elder := lives.Group("")
	elder.Use(middleware.AuthRequired(), middleware.RequireRole(model.RoleAdmin, model.RoleElder))
	{
		elder.POST("", a.create)
		elder.PUT("/:id", a.update)
		elder.DELETE("/:id", a.delete)
	}
}

func (a *LiveController) list(c *gin.Context) {
	lives, err := a.liveService.ListLives()
	jsonObj(c, lives, err)
}

// first returns the live the app opens on: the next upcoming one, or
// the latest past one when nothing is scheduled.
func (a *LiveController) first(c *gin.Context) {
	live, err := a.liveService.GetFirstLive()
	if database.IsNotFound(err) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	jsonObj(c, live, err)
}

func (a *LiveController) show(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	live, err := a.liveService.GetLive(id)
	if database.IsNotFound(err) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	jsonObj(c, live, err)
}

func (a *LiveController) create(c *gin.Context) {
	var form entity.LiveForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	live, errs, err := a.liveService.CreateLive(&form)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	if errs.Any() {
		jsonFieldErrors(c, errs)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "live.created"), live, nil)
}

func (a *LiveController) update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var form entity.LiveForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	live, errs, err := a.liveService.UpdateLive(id, &form)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	if errs.Any() {
		jsonFieldErrors(c, errs)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "live.updated"), live, nil)
}

func (a *LiveController) delete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	err := a.liveService.DeleteLive(id)
	jsonMsg(c, I18nWeb(c, "live.deleted"), err)
}
