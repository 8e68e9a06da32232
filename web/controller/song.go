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

// SongController handles the song listings. The index is public;
// everything else needs a login, with creation and deletion reserved
// for elders and admins and editing for members who play the song.
type SongController struct {
	BaseController

	songService service.SongService
}

func NewSongController(g *gin.RouterGroup) *SongController {
	a := &SongController{}
	a.initRouter(g)
	return a
}

func (a *SongController) initRouter(g *gin.RouterGroup) {
	songs := g.Group("/songs")
	songs.GET("", a.index)

	auth := songs.Group("")
	auth.Use(middleware.AuthRequired())
	auth.GET("/:id", a.show)
	auth.PUT("/:id", a.update)

	elder := songs.Group("")
	elder.Use(middleware.AuthRequired(), middleware.RequireRole(model.RoleAdmin, model.RoleElder))
	{
		elder.POST("", a.create)
		elder.DELETE("/:id", a.delete)
	}
}

// index searches songs by name or artist, paged.
func (a *SongController) index(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	result, err := a.songService.Search(c.Query("q"), page)
	jsonObj(c, result, err)
}

func (a *SongController) show(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	song, err := a.songService.GetSong(id)
	if database.IsNotFound(err) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	jsonObj(c, song, err)
}

func (a *SongController) create(c *gin.Context) {
	var form entity.SongForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	song, errs, err := a.songService.CreateSong(&form)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	if errs.Any() {
		jsonFieldErrors(c, errs)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "song.created"), song, nil)
}

// update is open to members who play the song, and to elders/admins.
func (a *SongController) update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	song, err := a.songService.GetSong(id)
	if database.IsNotFound(err) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	} else if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}

	if !service.IsCorrectUser(middleware.CurrentAccount(c), song) {
		if isAjax(c) {
			c.AbortWithStatus(http.StatusForbidden)
		} else {
			c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
			c.Abort()
		}
		return
	}

	var form entity.SongForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	song, errs, err := a.songService.UpdateSong(id, &form)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	if errs.Any() {
		jsonFieldErrors(c, errs)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "song.updated"), song, nil)
}

func (a *SongController) delete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	err := a.songService.DeleteSong(id)
	jsonMsg(c, I18nWeb(c, "song.deleted"), err)
}
