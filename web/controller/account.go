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

// AccountController handles member administration, invitations and
// account activation.
type AccountController struct {
	BaseController

	accountService service.AccountService
}

func NewAccountController(g *gin.RouterGroup) *AccountController {
	a := &AccountController{}
	a.initRouter(g)
	return a
}

func (a *AccountController) initRouter(g *gin.RouterGroup) {
	// Activation links arrive from mail, before any session exists.
	g.GET("/activate/:id/:token", a.activationValid)
	g.POST("/activate/:id/:token", a.activate)

	me := g.Group("/me")
	me.Use(middleware.AuthRequired())
	me.GET("", a.me)

	admin := g.Group("/accounts")
	admin.Use(middleware.AuthRequired(), middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", a.list)
		admin.POST("", a.create)
		admin.PUT("/:id", a.update)
		admin.POST("/:id/invite", a.invite)
		admin.PATCH("/:id/role", a.updateRole)
	}
}

// activationValid tells the activation form whether its link is usable.
func (a *AccountController) activationValid(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	account, err := a.accountService.GetAccount(id)
	if err != nil || account.Activated ||
		!a.accountService.Authenticated(account, service.KindActivation, c.Param("token")) {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "account.activationInvalid"))
		return
	}
	jsonObj(c, gin.H{"email": account.Email, "name": account.FullName()}, nil)
}

// activate consumes the activation token and sets the first password.
func (a *AccountController) activate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var form entity.ActivateForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	ok, errs, err := a.accountService.Activate(id, c.Param("token"), &form)
	if err != nil {
		if database.IsNotFound(err) {
			pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "account.activationInvalid"))
			return
		}
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	if errs.Any() {
		jsonFieldErrors(c, errs)
		return
	}
	if !ok {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "account.activationInvalid"))
		return
	}
	jsonMsg(c, I18nWeb(c, "account.activated"), nil)
}

func (a *AccountController) me(c *gin.Context) {
	jsonObj(c, middleware.CurrentAccount(c), nil)
}

func (a *AccountController) list(c *gin.Context) {
	accounts, err := a.accountService.ListAccounts()
	jsonObj(c, accounts, err)
}

func (a *AccountController) create(c *gin.Context) {
	var form entity.AccountForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	account, errs, err := a.accountService.CreateAccount(&form, model.RoleMember)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	if errs.Any() {
		jsonFieldErrors(c, errs)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "account.created"), account, nil)
}

func (a *AccountController) update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var form entity.AccountForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	account, errs, err := a.accountService.UpdateAccount(id, &form)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	if errs.Any() {
		jsonFieldErrors(c, errs)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "account.updated"), account, nil)
}

// invite stores the address and activation digest, then mails the
// activation link. The flash only reports the persisted invitation;
// a mail failure is logged server side.
func (a *AccountController) invite(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var form entity.InviteForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	_, errs, err := a.accountService.Invite(id, form.Email)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	if errs.Any() {
		jsonFieldErrors(c, errs)
		return
	}
	jsonMsg(c, I18nWeb(c, "account.invited"), nil)
}

func (a *AccountController) updateRole(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var form entity.RoleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "pages.login.invalidFormData"))
		return
	}

	account, err := a.accountService.UpdateRole(id, form.Role)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "fail"), err)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "account.roleUpdated"), account, nil)
}
