package service

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// ActivityService manages the homepage "recent activity" feed.
type ActivityService struct {
	db  *gorm.DB
	now Clock
}

// ActivityInput represents fields accepted when creating or updating an activity.
type ActivityInput struct {
	ActivityType string
	Title        string
	Description  string
	Link         string
	Date         time.Time
	SortOrder    int
	IsVisible    *bool
}

// NewActivityService creates an ActivityService instance.
func NewActivityService(gdb *gorm.DB) *ActivityService {
	return &ActivityService{db: gdb, now: systemClock}
}

const activityOrder = "date desc, sort_order asc, id desc"

// List returns every activity, newest first.
func (s *ActivityService) List() ([]db.RecentActivity, error) {
	var items []db.RecentActivity
	if err := s.db.Order(activityOrder).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Recent returns up to limit visible activities.
func (s *ActivityService) Recent(limit int) ([]db.RecentActivity, error) {
	var items []db.RecentActivity
	if err := s.db.Where("is_visible = ?", true).
		Order(activityOrder).
		Limit(normalizeLimit(limit, 5)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches an activity by id.
func (s *ActivityService) Get(id uint) (*db.RecentActivity, error) {
	var item db.RecentActivity
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create stores a new activity. A zero date defaults to today.
func (s *ActivityService) Create(input ActivityInput) (*db.RecentActivity, error) {
	input = s.normalizeActivityInput(input)
	if err := validateActivityInput(input); err != nil {
		return nil, err
	}

	item := db.RecentActivity{IsVisible: true}
	applyActivityInput(&item, input)
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing activity.
func (s *ActivityService) Update(id uint, input ActivityInput) (*db.RecentActivity, error) {
	input = s.normalizeActivityInput(input)
	if err := validateActivityInput(input); err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applyActivityInput(item, input)
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an activity.
func (s *ActivityService) Delete(id uint) error {
	result := s.db.Delete(&db.RecentActivity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func (s *ActivityService) normalizeActivityInput(input ActivityInput) ActivityInput {
	input.ActivityType = strings.ToLower(strings.TrimSpace(input.ActivityType))
	if input.ActivityType == "" {
		input.ActivityType = db.ActivityTypeOther
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Link = strings.TrimSpace(input.Link)
	if input.Date.IsZero() {
		now := s.now()
		input.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return input
}

func validateActivityInput(input ActivityInput) error {
	return validationError(validation.ValidateStruct(&input,
		validation.Field(&input.ActivityType, validation.In(anyOf(db.ActivityTypes)...)),
		validation.Field(&input.Title, validation.Required, validation.RuneLength(1, 200)),
	))
}

func applyActivityInput(item *db.RecentActivity, input ActivityInput) {
	item.ActivityType = input.ActivityType
	item.Title = input.Title
	item.Description = input.Description
	item.Link = input.Link
	item.Date = input.Date
	item.SortOrder = input.SortOrder
	if input.IsVisible != nil {
		item.IsVisible = *input.IsVisible
	}
}
