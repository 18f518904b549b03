package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// CategoryAll selects every project when filtering by category.
const CategoryAll = "all"

// ExperienceService handles experience CRUD and project retrieval.
type ExperienceService struct {
	db *gorm.DB
}

// ExperienceInput represents fields accepted when creating or updating an experience.
type ExperienceInput struct {
	Type         string
	Title        string
	Organization string
	Location     string
	StartDate    time.Time
	EndDate      *time.Time
	IsCurrent    bool
	Description  string
	Achievements []string
	TechStack    []string
	Link         string
	SortOrder    int
}

// NewExperienceService creates an ExperienceService instance.
func NewExperienceService(gdb *gorm.DB) *ExperienceService {
	return &ExperienceService{db: gdb}
}

const experienceOrder = "start_date desc, sort_order asc, id asc"

// List returns experiences of the given type (all types when empty) in default order.
func (s *ExperienceService) List(experienceType string) ([]db.Experience, error) {
	query := s.db.Model(&db.Experience{})
	if t := strings.TrimSpace(experienceType); t != "" {
		query = query.Where("type = ?", t)
	}

	var items []db.Experience
	if err := query.Order(experienceOrder).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Recent returns up to limit experiences of a type, most recent start date first.
func (s *ExperienceService) Recent(experienceType string, limit int) ([]db.Experience, error) {
	var items []db.Experience
	if err := s.db.Where("type = ?", experienceType).
		Order(experienceOrder).
		Limit(normalizeLimit(limit, 3)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches an experience by id.
func (s *ExperienceService) Get(id uint) (*db.Experience, error) {
	var item db.Experience
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetProject fetches an experience by id and requires it to be a project.
func (s *ExperienceService) GetProject(id uint) (*db.Experience, error) {
	item, err := s.Get(id)
	if err != nil {
		if errors.Is(err, ErrExperienceNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if item.Type != db.ExperienceTypeProject {
		return nil, ErrProjectNotFound
	}
	return item, nil
}

// Create inserts a new experience.
func (s *ExperienceService) Create(input ExperienceInput) (*db.Experience, error) {
	input = normalizeExperienceInput(input)
	if err := validateExperienceInput(input); err != nil {
		return nil, err
	}

	var item db.Experience
	applyExperienceInput(&item, input)
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing experience.
func (s *ExperienceService) Update(id uint, input ExperienceInput) (*db.Experience, error) {
	input = normalizeExperienceInput(input)
	if err := validateExperienceInput(input); err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applyExperienceInput(item, input)
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an experience.
func (s *ExperienceService) Delete(id uint) error {
	result := s.db.Delete(&db.Experience{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

// RelatedProjects ranks the other projects by how many tech_stack entries
// they share with project (case-sensitive). Ties keep retrieval order.
// When project has no tech stack the first limit projects are returned as is.
func (s *ExperienceService) RelatedProjects(project *db.Experience, limit int) ([]db.Experience, error) {
	limit = normalizeLimit(limit, 3)

	var candidates []db.Experience
	if err := s.db.Where("type = ? AND id <> ?", db.ExperienceTypeProject, project.ID).
		Order(experienceOrder).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	if len(project.TechStack) > 0 {
		candidates = rankByOverlap(project.TechStack, candidates)
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// FilterProjectsByCategory returns projects whose tech stack contains
// category, compared case-insensitively. "all" or empty selects every project.
func (s *ExperienceService) FilterProjectsByCategory(category string) ([]db.Experience, error) {
	projects, err := s.List(db.ExperienceTypeProject)
	if err != nil {
		return nil, err
	}
	return filterByTech(projects, category), nil
}

func rankByOverlap(reference []string, candidates []db.Experience) []db.Experience {
	overlap := make(map[uint]int, len(candidates))
	for _, candidate := range candidates {
		overlap[candidate.ID] = countShared(reference, candidate.TechStack)
	}

	ranked := append([]db.Experience(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return overlap[ranked[i].ID] > overlap[ranked[j].ID]
	})
	return ranked
}

// countShared returns the size of the intersection of two lists.
func countShared(a, b []string) int {
	seen := make(map[string]struct{}, len(a))
	for _, value := range a {
		seen[value] = struct{}{}
	}
	shared := 0
	for _, value := range b {
		if _, ok := seen[value]; ok {
			shared++
			delete(seen, value)
		}
	}
	return shared
}

func filterByTech(projects []db.Experience, category string) []db.Experience {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return projects
	}

	filtered := make([]db.Experience, 0, len(projects))
	for _, project := range projects {
		for _, tech := range project.TechStack {
			if strings.EqualFold(strings.TrimSpace(tech), category) {
				filtered = append(filtered, project)
				break
			}
		}
	}
	return filtered
}

func normalizeExperienceInput(input ExperienceInput) ExperienceInput {
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	input.Title = strings.TrimSpace(input.Title)
	input.Organization = strings.TrimSpace(input.Organization)
	input.Location = strings.TrimSpace(input.Location)
	input.Link = strings.TrimSpace(input.Link)
	return input
}

func validateExperienceInput(input ExperienceInput) error {
	return validationError(validation.ValidateStruct(&input,
		validation.Field(&input.Type, validation.Required, validation.In(anyOf(db.ExperienceTypes)...)),
		validation.Field(&input.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&input.Organization, validation.RuneLength(0, 200)),
		validation.Field(&input.Location, validation.RuneLength(0, 200)),
		validation.Field(&input.StartDate, validation.Required),
	))
}

func applyExperienceInput(item *db.Experience, input ExperienceInput) {
	item.Type = input.Type
	item.Title = input.Title
	item.Organization = input.Organization
	item.Location = input.Location
	item.StartDate = input.StartDate
	item.EndDate = input.EndDate
	item.IsCurrent = input.IsCurrent
	item.Description = input.Description
	item.Achievements = cleanList(input.Achievements)
	item.TechStack = cleanList(input.TechStack)
	item.Link = input.Link
	item.SortOrder = input.SortOrder
}
