package service

import (
	"github.com/ku-unplugged/livelog/database"
	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/logger"
	"github.com/ku-unplugged/livelog/web/entity"
)

// EntryService handles song entries: a member proposes a song for a
// future live and the circle gets notified by mail.
type EntryService struct {
	songService SongService
	mailService MailService
}

// CreateEntry saves the proposed song, then attempts the entry mail.
// mailSent reports the mail outcome separately so the caller can flash
// the right message; the song stays saved either way.
func (s *EntryService) CreateEntry(live *model.Live, requester *model.Account, form *entity.EntryForm) (*model.Song, model.FieldErrors, bool, error) {
	song := &model.Song{
		LiveId: live.Id,
		Name:   form.Name,
		Artist: form.Artist,
		Status: model.SongEntered,
	}
	for _, p := range form.Playings {
		song.Playings = append(song.Playings, model.Playing{
			AccountId: p.AccountId,
			Inst:      p.Inst,
		})
	}
	// An entry with no playings is the requester performing solo.
	if len(song.Playings) == 0 {
		song.Playings = append(song.Playings, model.Playing{
			AccountId: requester.Id,
			Inst:      "vocal",
		})
	}

	if errs := song.Validate(); errs.Any() {
		return nil, errs, false, nil
	}

	db := database.GetDB()
	if err := db.Create(song).Error; err != nil {
		return nil, nil, false, err
	}

	saved, err := s.songService.GetSong(song.Id)
	if err == nil {
		song = saved
	}

	if err := s.mailService.SendEntry(song, requester, form.Notes); err != nil {
		logger.Warning("entry mail not sent:", err)
		return song, nil, false, nil
	}
	return song, nil, true, nil
}
