package service

import (
	"time"

	"github.com/ku-unplugged/livelog/database/model"
)

// Authorization predicates. Pure reads over already-resolved records;
// no I/O, no mutation.

func IsLoggedIn(account *model.Account) bool {
	return account != nil
}

func IsAdminOrElder(account *model.Account) bool {
	return account != nil && account.IsAdminOrElder()
}

// IsCorrectUser allows a member to touch a song they play on; elders
// and admins may touch any song.
func IsCorrectUser(account *model.Account, song *model.Song) bool {
	if account == nil || song == nil {
		return false
	}
	return song.PlayedBy(account.Id) || account.IsAdminOrElder()
}

// IsFutureLive reports whether the live still accepts song entries.
func IsFutureLive(live *model.Live, now time.Time) bool {
	return live != nil && live.IsFuture(now)
}
