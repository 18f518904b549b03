package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// ProfileService 管理技能与 "Now" 条目。
type ProfileService struct {
	db *gorm.DB
}

// SkillInput 技能写入参数
type SkillInput struct {
	Category  string
	Name      string
	SortOrder int
}

// NowItemInput "Now" 条目写入参数
type NowItemInput struct {
	Title       string
	Icon        string
	Description string
	Link        string
	SortOrder   int
	IsActive    *bool
}

// SkillGroup 按分类聚合的技能列表
type SkillGroup struct {
	Category string     `json:"category"`
	Skills   []db.Skill `json:"skills"`
}

// NewProfileService 创建 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// ListSkills 按分类、排序值返回全部技能
func (s *ProfileService) ListSkills() ([]db.Skill, error) {
	var skills []db.Skill
	if err := s.db.Order("category asc, sort_order asc, id asc").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// GroupedSkills 按固定分类顺序分组，没有技能的分类会被省略
func (s *ProfileService) GroupedSkills() ([]SkillGroup, error) {
	skills, err := s.ListSkills()
	if err != nil {
		return nil, err
	}
	return groupSkills(skills), nil
}

func groupSkills(skills []db.Skill) []SkillGroup {
	byCategory := make(map[string][]db.Skill, len(db.SkillCategories))
	for _, skill := range skills {
		byCategory[skill.Category] = append(byCategory[skill.Category], skill)
	}

	groups := make([]SkillGroup, 0, len(byCategory))
	for _, category := range db.SkillCategories {
		if items := byCategory[category]; len(items) > 0 {
			groups = append(groups, SkillGroup{Category: category, Skills: items})
		}
	}
	return groups
}

// GetSkill 获取单个技能
func (s *ProfileService) GetSkill(id uint) (*db.Skill, error) {
	var skill db.Skill
	if err := s.db.First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return &skill, nil
}

// CreateSkill 新建技能
func (s *ProfileService) CreateSkill(input SkillInput) (*db.Skill, error) {
	input = normalizeSkillInput(input)
	if err := validateSkillInput(input); err != nil {
		return nil, err
	}

	skill := db.Skill{Category: input.Category, Name: input.Name, SortOrder: input.SortOrder}
	if err := s.db.Create(&skill).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

// UpdateSkill 更新技能
func (s *ProfileService) UpdateSkill(id uint, input SkillInput) (*db.Skill, error) {
	input = normalizeSkillInput(input)
	if err := validateSkillInput(input); err != nil {
		return nil, err
	}

	skill, err := s.GetSkill(id)
	if err != nil {
		return nil, err
	}
	skill.Category = input.Category
	skill.Name = input.Name
	skill.SortOrder = input.SortOrder

	if err := s.db.Save(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

// DeleteSkill 删除技能
func (s *ProfileService) DeleteSkill(id uint) error {
	result := s.db.Delete(&db.Skill{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

// ListNowItems 返回 "Now" 条目，activeOnly 为 true 时仅返回启用项
func (s *ProfileService) ListNowItems(activeOnly bool) ([]db.NowItem, error) {
	query := s.db.Model(&db.NowItem{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var items []db.NowItem
	if err := query.Order("sort_order asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ActiveNowItems 返回至多 limit 个启用的条目
func (s *ProfileService) ActiveNowItems(limit int) ([]db.NowItem, error) {
	var items []db.NowItem
	if err := s.db.Where("is_active = ?", true).
		Order("sort_order asc, id asc").
		Limit(normalizeLimit(limit, 3)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetNowItem 获取单个条目
func (s *ProfileService) GetNowItem(id uint) (*db.NowItem, error) {
	var item db.NowItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNowItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// CreateNowItem 新建条目，默认启用
func (s *ProfileService) CreateNowItem(input NowItemInput) (*db.NowItem, error) {
	input = normalizeNowItemInput(input)
	if err := validateNowItemInput(input); err != nil {
		return nil, err
	}

	item := db.NowItem{IsActive: true}
	applyNowItemInput(&item, input)
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateNowItem 更新条目
func (s *ProfileService) UpdateNowItem(id uint, input NowItemInput) (*db.NowItem, error) {
	input = normalizeNowItemInput(input)
	if err := validateNowItemInput(input); err != nil {
		return nil, err
	}

	item, err := s.GetNowItem(id)
	if err != nil {
		return nil, err
	}
	applyNowItemInput(item, input)
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteNowItem 删除条目
func (s *ProfileService) DeleteNowItem(id uint) error {
	result := s.db.Delete(&db.NowItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNowItemNotFound
	}
	return nil
}

func normalizeSkillInput(input SkillInput) SkillInput {
	input.Category = strings.ToLower(strings.TrimSpace(input.Category))
	input.Name = strings.TrimSpace(input.Name)
	return input
}

func validateSkillInput(input SkillInput) error {
	return validationError(validation.ValidateStruct(&input,
		validation.Field(&input.Category, validation.Required, validation.In(anyOf(db.SkillCategories)...)),
		validation.Field(&input.Name, validation.Required, validation.RuneLength(1, 100)),
	))
}

func normalizeNowItemInput(input NowItemInput) NowItemInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Icon = strings.TrimSpace(input.Icon)
	input.Description = strings.TrimSpace(input.Description)
	input.Link = strings.TrimSpace(input.Link)
	return input
}

func validateNowItemInput(input NowItemInput) error {
	return validationError(validation.ValidateStruct(&input,
		validation.Field(&input.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&input.Icon, validation.RuneLength(0, 50)),
	))
}

func applyNowItemInput(item *db.NowItem, input NowItemInput) {
	item.Title = input.Title
	item.Icon = input.Icon
	item.Description = input.Description
	item.Link = input.Link
	item.SortOrder = input.SortOrder
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
}
