package service

import (
	"github.com/ku-unplugged/livelog/config"
	"github.com/ku-unplugged/livelog/database"
	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/web/entity"

	"gorm.io/gorm"
)

// SongService manages songs and their playings.
type SongService struct{}

// SongPage is one page of search results.
type SongPage struct {
	Songs    []model.Song `json:"songs"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

func (s *SongService) GetSong(id int) (*model.Song, error) {
	db := database.GetDB()

	song := &model.Song{}
	err := db.Model(model.Song{}).
		Preload("Live").
		Preload("Playings").
		Preload("Playings.Account").
		Where("id = ?", id).
		First(song).
		Error
	if err != nil {
		return nil, err
	}
	return song, nil
}

// Search pages through songs whose name or artist matches q. An empty
// query lists everything, newest first.
func (s *SongService) Search(q string, page int) (*SongPage, error) {
	db := database.GetDB()
	pageSize := config.GetPageSize()
	if page < 1 {
		page = 1
	}

	query := db.Model(model.Song{})
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR artist LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var songs []model.Song
	err := query.
		Preload("Live").
		Preload("Playings").
		Order("id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&songs).
		Error
	if err != nil {
		return nil, err
	}

	return &SongPage{
		Songs:    songs,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *SongService) CreateSong(form *entity.SongForm) (*model.Song, model.FieldErrors, error) {
	song := &model.Song{
		LiveId:    form.LiveId,
		Name:      form.Name,
		Artist:    form.Artist,
		Status:    form.Status,
		Time:      form.Time,
		Order:     form.Order,
		YoutubeId: form.YoutubeId,
	}
	if song.Status == "" {
		song.Status = model.SongDraft
	}
	for _, p := range form.Playings {
		song.Playings = append(song.Playings, model.Playing{
			AccountId: p.AccountId,
			Inst:      p.Inst,
		})
	}

	if errs := song.Validate(); errs.Any() {
		return nil, errs, nil
	}

	db := database.GetDB()
	if err := db.Create(song).Error; err != nil {
		return nil, nil, err
	}
	return song, nil, nil
}

// UpdateSong rewrites the song's fields and replaces its playings with
// the submitted set, in one transaction.
func (s *SongService) UpdateSong(id int, form *entity.SongForm) (*model.Song, model.FieldErrors, error) {
	song, err := s.GetSong(id)
	if err != nil {
		return nil, nil, err
	}

	song.Name = form.Name
	song.Artist = form.Artist
	song.Time = form.Time
	song.Order = form.Order
	song.YoutubeId = form.YoutubeId
	if form.LiveId > 0 {
		song.LiveId = form.LiveId
	}
	if form.Status != "" {
		song.Status = form.Status
	}

	if errs := song.Validate(); errs.Any() {
		return nil, errs, nil
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", id).Delete(&model.Playing{}).Error; err != nil {
			return err
		}
		song.Live = nil
		song.Playings = nil
		for _, p := range form.Playings {
			song.Playings = append(song.Playings, model.Playing{
				SongId:    id,
				AccountId: p.AccountId,
				Inst:      p.Inst,
			})
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(song).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return song, nil, nil
}

func (s *SongService) DeleteSong(id int) error {
	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", id).Delete(&model.Playing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Song{}, id).Error
	})
}
