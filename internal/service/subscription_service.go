package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// SubscribeOutcome reports what Subscribe did with an address.
type SubscribeOutcome string

const (
	SubscribeCreated       SubscribeOutcome = "created"
	SubscribeAlreadyActive SubscribeOutcome = "already_active"
	SubscribeReactivated   SubscribeOutcome = "reactivated"
)

// Message returns the user facing text for the outcome.
func (o SubscribeOutcome) Message() string {
	switch o {
	case SubscribeCreated:
		return "Thanks for subscribing!"
	case SubscribeAlreadyActive:
		return "You're already subscribed."
	case SubscribeReactivated:
		return "Welcome back! Your subscription has been reactivated."
	default:
		return ""
	}
}

// SubscriptionService handles newsletter sign-ups.
type SubscriptionService struct {
	db  *gorm.DB
	now Clock
}

// NewSubscriptionService creates a SubscriptionService instance.
func NewSubscriptionService(gdb *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: gdb, now: systemClock}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	return validationError(validation.Validate(email, validation.Required, is.EmailFormat))
}

// Subscribe creates a subscriber, or reactivates an inactive one.
func (s *SubscriptionService) Subscribe(email string) (SubscribeOutcome, *db.NewsletterSubscriber, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return "", nil, err
	}

	var outcome SubscribeOutcome
	var subscriber db.NewsletterSubscriber
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&subscriber).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			subscriber = db.NewsletterSubscriber{
				Email:        email,
				SubscribedAt: s.now(),
				IsActive:     true,
			}
			outcome = SubscribeCreated
			return tx.Create(&subscriber).Error
		case err != nil:
			return err
		case subscriber.IsActive:
			outcome = SubscribeAlreadyActive
			return nil
		default:
			outcome = SubscribeReactivated
			subscriber.IsActive = true
			return tx.Model(&subscriber).Update("is_active", true).Error
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发注册同一邮箱时另一方已经写入
			return SubscribeAlreadyActive, nil, nil
		}
		return "", nil, err
	}
	return outcome, &subscriber, nil
}

// Unsubscribe deactivates a subscriber.
func (s *SubscriptionService) Unsubscribe(email string) error {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	result := s.db.Model(&db.NewsletterSubscriber{}).
		Where("email = ?", email).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

// List returns subscribers newest first, optionally only active ones.
func (s *SubscriptionService) List(activeOnly bool) ([]db.NewsletterSubscriber, error) {
	query := s.db.Model(&db.NewsletterSubscriber{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var subscribers []db.NewsletterSubscriber
	if err := query.Order("subscribed_at desc, id desc").Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}

// Delete removes a subscriber record.
func (s *SubscriptionService) Delete(id uint) error {
	result := s.db.Delete(&db.NewsletterSubscriber{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}
