// Package model defines the gorm models for livelog: accounts, lives,
// songs and playings.
package model

import (
	"strings"
	"time"
)

// Account roles. Elder is a privileged non-admin role with most admin
// capabilities over songs.
const (
	RoleMember = "member"
	RoleElder  = "elder"
	RoleAdmin  = "admin"
)

// Song statuses.
const (
	SongDraft     = "draft"
	SongEntered   = "entered"
	SongConfirmed = "confirmed"
)

// Account is a circle member. Password digests are bcrypt hashes; the
// plaintext password, confirmation and tokens are never persisted.
type Account struct {
	Id        int    `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string `json:"firstName" gorm:"not null"`
	LastName  string `json:"lastName" gorm:"not null"`
	Furigana  string `json:"furigana" gorm:"not null"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Joined    int    `json:"joined" gorm:"not null"`
	Role      string `json:"role" gorm:"not null;default:member"`

	PasswordDigest   string `json:"-"`
	RememberDigest   string `json:"-"`
	ActivationDigest string `json:"-"`

	Activated    bool       `json:"activated"`
	ActivatedAt  *time.Time `json:"activatedAt"`
	RememberedAt *time.Time `json:"-"`

	// Ephemeral credential fields, set from request forms only.
	Password             string `json:"-" gorm:"-"`
	PasswordConfirmation string `json:"-" gorm:"-"`
	RememberToken        string `json:"-" gorm:"-"`
	ActivationToken      string `json:"-" gorm:"-"`

	Playings []Playing `json:"-" gorm:"foreignKey:AccountId"`
}

// FullName is "last first", the order the circle prints names in.
func (a *Account) FullName() string {
	return a.LastName + " " + a.FirstName
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsAdminOrElder reports the combined capability used for song
// administration.
func (a *Account) IsAdminOrElder() bool {
	return a.Role == RoleAdmin || a.Role == RoleElder
}

// DowncaseEmail folds the email before any save so that uniqueness is
// effectively case-insensitive under the unique index.
func (a *Account) DowncaseEmail() {
	a.Email = strings.ToLower(a.Email)
}

// Live is a concert event with a date and a set of songs.
type Live struct {
	Id    int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string    `json:"name" gorm:"not null"`
	Date  time.Time `json:"date" gorm:"not null"`
	Place string    `json:"place"`

	Songs []Song `json:"songs,omitempty" gorm:"foreignKey:LiveId"`
}

// IsFuture reports whether the live is still open for song entries,
// i.e. strictly after today. Past and same-day lives are closed.
func (l *Live) IsFuture(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	liveDay := time.Date(l.Date.Year(), l.Date.Month(), l.Date.Day(), 0, 0, 0, 0, now.Location())
	return liveDay.After(today)
}

// Song is a performance slot within a live.
type Song struct {
	Id        int    `json:"id" gorm:"primaryKey;autoIncrement"`
	LiveId    int    `json:"liveId" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null"`
	Artist    string `json:"artist"`
	Status    string `json:"status" gorm:"not null;default:draft"`
	Time      string `json:"time"`
	Order     int    `json:"order" gorm:"column:ordering"`
	YoutubeId string `json:"youtubeId"`

	Live     *Live     `json:"live,omitempty" gorm:"foreignKey:LiveId"`
	Playings []Playing `json:"playings,omitempty" gorm:"foreignKey:SongId"`
}

// PlayedBy reports whether the account has a playing on this song.
func (s *Song) PlayedBy(accountId int) bool {
	for _, p := range s.Playings {
		if p.AccountId == accountId {
			return true
		}
	}
	return false
}

// Playing assigns an account to a song with an instrument.
type Playing struct {
	Id        int    `json:"id" gorm:"primaryKey;autoIncrement"`
	SongId    int    `json:"songId" gorm:"not null;index;uniqueIndex:idx_playing"`
	AccountId int    `json:"accountId" gorm:"not null;index;uniqueIndex:idx_playing"`
	Inst      string `json:"inst" gorm:"not null;uniqueIndex:idx_playing"`

	Account *Account `json:"account,omitempty" gorm:"foreignKey:AccountId"`
}
