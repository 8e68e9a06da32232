// Package entity defines the response envelope and the typed input
// forms used by the web layer. Each form enumerates exactly the fields
// its endpoint may set; nothing is mass-assigned from raw params.
package entity

// Msg is the standard API response envelope.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// LoginForm carries a login attempt.
type LoginForm struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"rememberMe" form:"rememberMe"`
}

// ActivateForm sets the initial password during account activation.
type ActivateForm struct {
	Password             string `json:"password" form:"password"`
	PasswordConfirmation string `json:"passwordConfirmation" form:"passwordConfirmation"`
}

// InviteForm starts the invitation flow for an account.
type InviteForm struct {
	Email string `json:"email" form:"email" binding:"required"`
}

// AccountForm covers the profile fields an account create/update may touch.
// Credential and role changes go through their own endpoints.
type AccountForm struct {
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Furigana  string `json:"furigana" form:"furigana"`
	Nickname  string `json:"nickname" form:"nickname"`
	Email     string `json:"email" form:"email"`
	Joined    int    `json:"joined" form:"joined"`
}

// RoleForm changes an account's role.
type RoleForm struct {
	Role string `json:"role" binding:"required"`
}

// LiveForm covers live create/update.
type LiveForm struct {
	Name  string `json:"name" form:"name"`
	Date  string `json:"date" form:"date" time_format:"2006-01-02"`
	Place string `json:"place" form:"place"`
}

// PlayingForm assigns one account + instrument to a song.
type PlayingForm struct {
	AccountId int    `json:"accountId" form:"accountId"`
	Inst      string `json:"inst" form:"inst"`
}

// SongForm covers song create/update by elders and admins.
type SongForm struct {
	LiveId    int           `json:"liveId" form:"liveId"`
	Name      string        `json:"name" form:"name"`
	Artist    string        `json:"artist" form:"artist"`
	Status    string        `json:"status" form:"status"`
	Time      string        `json:"time" form:"time"`
	Order     int           `json:"order" form:"order"`
	YoutubeId string        `json:"youtubeId" form:"youtubeId"`
	Playings  []PlayingForm `json:"playings" form:"playings"`
}

// EntryForm is a member's song entry for a future live. Narrower than
// SongForm: no ordering or youtube id, plus free-text notes for the mail.
type EntryForm struct {
	Name     string        `json:"name" form:"name"`
	Artist   string        `json:"artist" form:"artist"`
	Notes    string        `json:"notes" form:"notes"`
	Playings []PlayingForm `json:"playings" form:"playings"`
}
