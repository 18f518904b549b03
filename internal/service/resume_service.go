package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

const defaultResumeTitle = "Resume"

// ResumeService manages resume files and the active resume.
type ResumeService struct {
	db *gorm.DB
}

// ResumeInput represents fields accepted when creating or updating a resume.
type ResumeInput struct {
	Title      string
	ResumeFile string
	Summary    string
	IsActive   *bool
}

// NewResumeService creates a ResumeService instance.
func NewResumeService(gdb *gorm.DB) *ResumeService {
	return &ResumeService{db: gdb}
}

// EnforceSingleActiveResume clears is_active on every other resume when
// resume is active. It must run in the same transaction that saves resume.
func EnforceSingleActiveResume(tx *gorm.DB, resume *db.Resume) error {
	if !resume.IsActive {
		return nil
	}
	query := tx.Model(&db.Resume{}).Where("is_active = ?", true)
	if resume.ID != 0 {
		query = query.Where("id <> ?", resume.ID)
	}
	return query.UpdateColumn("is_active", false).Error
}

// List returns every resume, newest first.
func (s *ResumeService) List() ([]db.Resume, error) {
	var resumes []db.Resume
	if err := s.db.Order("updated_at desc, id desc").Find(&resumes).Error; err != nil {
		return nil, err
	}
	return resumes, nil
}

// Active returns the active resume, or nil when none is active.
func (s *ResumeService) Active() (*db.Resume, error) {
	var resume db.Resume
	err := s.db.Where("is_active = ?", true).Order("updated_at desc, id desc").First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resume, nil
}

// Get fetches a resume by id.
func (s *ResumeService) Get(id uint) (*db.Resume, error) {
	var resume db.Resume
	if err := s.db.First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}
	return &resume, nil
}

// Create stores a new resume. New resumes are active unless stated otherwise.
func (s *ResumeService) Create(input ResumeInput) (*db.Resume, error) {
	input = normalizeResumeInput(input)
	if err := validateResumeInput(input); err != nil {
		return nil, err
	}

	resume := db.Resume{IsActive: true}
	applyResumeInput(&resume, input)

	if err := s.save(&resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// Update modifies an existing resume.
func (s *ResumeService) Update(id uint, input ResumeInput) (*db.Resume, error) {
	input = normalizeResumeInput(input)
	if err := validateResumeInput(input); err != nil {
		return nil, err
	}

	resume, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applyResumeInput(resume, input)

	if err := s.save(resume); err != nil {
		return nil, err
	}
	return resume, nil
}

// Activate marks the resume as the active one.
func (s *ResumeService) Activate(id uint) (*db.Resume, error) {
	resume, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	resume.IsActive = true
	if err := s.save(resume); err != nil {
		return nil, err
	}
	return resume, nil
}

// Delete removes a resume record. The stored file is left in place.
func (s *ResumeService) Delete(id uint) error {
	result := s.db.Delete(&db.Resume{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResumeNotFound
	}
	return nil
}

func (s *ResumeService) save(resume *db.Resume) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(resume).Error; err != nil {
			return err
		}
		return EnforceSingleActiveResume(tx, resume)
	})
}

func normalizeResumeInput(input ResumeInput) ResumeInput {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		input.Title = defaultResumeTitle
	}
	input.ResumeFile = strings.TrimSpace(input.ResumeFile)
	input.Summary = strings.TrimSpace(input.Summary)
	return input
}

func validateResumeInput(input ResumeInput) error {
	return validationError(validation.ValidateStruct(&input,
		validation.Field(&input.Title, validation.RuneLength(1, 200)),
		validation.Field(&input.ResumeFile, validation.Required),
	))
}

func applyResumeInput(resume *db.Resume, input ResumeInput) {
	resume.Title = input.Title
	resume.ResumeFile = input.ResumeFile
	resume.Summary = input.Summary
	if input.IsActive != nil {
		resume.IsActive = *input.IsActive
	}
}
