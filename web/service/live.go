package service

import (
	"strings"
	"time"

	"github.com/ku-unplugged/livelog/database"
	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/web/entity"
)

// LiveService manages the concert events songs belong to.
type LiveService struct{}

func (s *LiveService) GetLive(id int) (*model.Live, error) {
	db := database.GetDB()

	live := &model.Live{}
	err := db.Model(model.Live{}).
		Preload("Songs").
		Where("id = ?", id).
		First(live).
		Error
	if err != nil {
		return nil, err
	}
	return live, nil
}

// GetFirstLive returns the upcoming live closest to today, or the most
// recent one when nothing is scheduled.
func (s *LiveService) GetFirstLive() (*model.Live, error) {
	db := database.GetDB()

	live := &model.Live{}
	err := db.Model(model.Live{}).
		Where("date >= ?", time.Now()).
		Order("date").
		First(live).
		Error
	if database.IsNotFound(err) {
		err = db.Model(model.Live{}).
			Order("date desc").
			First(live).
			Error
	}
	if err != nil {
		return nil, err
	}
	return live, nil
}

func (s *LiveService) ListLives() ([]model.Live, error) {
	db := database.GetDB()

	var lives []model.Live
	err := db.Model(model.Live{}).
		Order("date desc").
		Find(&lives).
		Error
	return lives, err
}

func (s *LiveService) CreateLive(form *entity.LiveForm) (*model.Live, model.FieldErrors, error) {
	live := &model.Live{
		Name:  form.Name,
		Place: form.Place,
	}
	errs := s.applyDate(live, form)
	if strings.TrimSpace(live.Name) == "" {
		errs.Add("name", "can't be blank")
	}
	if errs.Any() {
		return nil, errs, nil
	}

	db := database.GetDB()
	if err := db.Create(live).Error; err != nil {
		return nil, nil, err
	}
	return live, nil, nil
}

func (s *LiveService) UpdateLive(id int, form *entity.LiveForm) (*model.Live, model.FieldErrors, error) {
	live, err := s.GetLive(id)
	if err != nil {
		return nil, nil, err
	}

	live.Name = form.Name
	live.Place = form.Place
	errs := s.applyDate(live, form)
	if strings.TrimSpace(live.Name) == "" {
		errs.Add("name", "can't be blank")
	}
	if errs.Any() {
		return nil, errs, nil
	}

	db := database.GetDB()
	if err := db.Save(live).Error; err != nil {
		return nil, nil, err
	}
	return live, nil, nil
}

func (s *LiveService) DeleteLive(id int) error {
	db := database.GetDB()
	return db.Delete(&model.Live{}, id).Error
}

func (s *LiveService) applyDate(live *model.Live, form *entity.LiveForm) model.FieldErrors {
	errs := model.FieldErrors{}
	if form.Date == "" {
		errs.Add("date", "can't be blank")
		return errs
	}
	date, err := time.ParseInLocation("2006-01-02", form.Date, time.Local)
	if err != nil {
		errs.Add("date", "is invalid")
		return errs
	}
	live.Date = date
	return errs
}
