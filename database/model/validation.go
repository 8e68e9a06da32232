package model

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldErrors collects field -> messages for whole-record validity
// reporting. All validators run; nothing short-circuits.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// Messages flattens the set into "field: message" lines.
func (e FieldErrors) Messages() []string {
	var out []string
	for field, msgs := range e {
		for _, msg := range msgs {
			out = append(out, field+": "+msg)
		}
	}
	return out
}

var emailRegex = regexp.MustCompile(`^(?i)[\w+\-.]+@[a-z\d\-]+(\.[a-z\d\-]+)*\.[a-z]+$`)

const (
	maxNicknameLen = 50
	maxEmailLen    = 255
	minPasswordLen = 6
	maxPasswordLen = 72
	firstJoinYear  = 1994
)

type accountValidator func(*Account, time.Time, FieldErrors)

// accountValidators run in order on every Validate call.
var accountValidators = []accountValidator{
	validateNames,
	validateNickname,
	validateEmail,
	validateJoined,
	validatePassword,
}

// Validate runs every account validator and aggregates the failures.
func (a *Account) Validate(now time.Time) FieldErrors {
	errs := FieldErrors{}
	for _, v := range accountValidators {
		v(a, now, errs)
	}
	return errs
}

func validateNames(a *Account, _ time.Time, errs FieldErrors) {
	if strings.TrimSpace(a.FirstName) == "" {
		errs.Add("firstName", "can't be blank")
	}
	if strings.TrimSpace(a.LastName) == "" {
		errs.Add("lastName", "can't be blank")
	}
	if strings.TrimSpace(a.Furigana) == "" {
		errs.Add("furigana", "can't be blank")
	}
}

func validateNickname(a *Account, _ time.Time, errs FieldErrors) {
	if utf8.RuneCountInString(a.Nickname) > maxNicknameLen {
		errs.Add("nickname", "is too long (maximum is 50 characters)")
	}
}

func validateEmail(a *Account, _ time.Time, errs FieldErrors) {
	if strings.TrimSpace(a.Email) == "" {
		errs.Add("email", "can't be blank")
		return
	}
	if len(a.Email) > maxEmailLen {
		errs.Add("email", "is too long (maximum is 255 characters)")
	}
	if !emailRegex.MatchString(a.Email) {
		errs.Add("email", "is invalid")
	}
}

func validateJoined(a *Account, now time.Time, errs FieldErrors) {
	if a.Joined == 0 {
		errs.Add("joined", "can't be blank")
		return
	}
	if a.Joined <= firstJoinYear {
		errs.Add("joined", "must be greater than 1994")
	}
	if a.Joined > now.Year() {
		errs.Add("joined", "must be less than or equal to the current year")
	}
}

// validatePassword applies only when a credential change is present.
// Records loaded with an existing digest and no new password skip it.
func validatePassword(a *Account, _ time.Time, errs FieldErrors) {
	if a.Password == "" && a.PasswordConfirmation == "" {
		return
	}
	if strings.TrimSpace(a.Password) == "" {
		errs.Add("password", "can't be blank")
	}
	if n := len(a.Password); n > 0 && strings.TrimSpace(a.Password) != "" {
		if n < minPasswordLen {
			errs.Add("password", "is too short (minimum is 6 characters)")
		}
		if n > maxPasswordLen {
			errs.Add("password", "is too long (maximum is 72 characters)")
		}
	}
	if a.Password != a.PasswordConfirmation {
		errs.Add("passwordConfirmation", "doesn't match password")
	}
}

// Validate checks the fields a song needs before it can be saved.
func (s *Song) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(s.Name) == "" {
		errs.Add("name", "can't be blank")
	}
	if s.LiveId == 0 {
		errs.Add("live", "must exist")
	}
	switch s.Status {
	case "", SongDraft, SongEntered, SongConfirmed:
	default:
		errs.Add("status", "is not included in the list")
	}
	return errs
}
