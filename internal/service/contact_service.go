package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// ContactService 处理联系表单提交与后台查看
type ContactService struct {
	db  *gorm.DB
	now Clock
}

// ContactInput 联系表单字段
type ContactInput struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// NewContactService 创建 ContactService
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{db: gdb, now: systemClock}
}

// Submit 校验并保存一条留言，新留言总是未读
func (s *ContactService) Submit(input ContactInput) (*db.ContactMessage, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Message = strings.TrimSpace(input.Message)

	if err := validationError(validation.ValidateStruct(&input,
		validation.Field(&input.Name, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&input.Email, validation.Required, is.EmailFormat),
		validation.Field(&input.Message, validation.Required),
	)); err != nil {
		return nil, err
	}

	message := db.ContactMessage{
		Name:        input.Name,
		Email:       input.Email,
		Message:     input.Message,
		SubmittedAt: s.now(),
		IsRead:      false,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// List 按提交时间倒序返回留言
func (s *ContactService) List(unreadOnly bool) ([]db.ContactMessage, error) {
	query := s.db.Model(&db.ContactMessage{})
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var messages []db.ContactMessage
	if err := query.Order("submitted_at desc, id desc").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// UnreadCount 未读留言数量
func (s *ContactService) UnreadCount() (int64, error) {
	var count int64
	err := s.db.Model(&db.ContactMessage{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

// Get 获取单条留言
func (s *ContactService) Get(id uint) (*db.ContactMessage, error) {
	var message db.ContactMessage
	if err := s.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// MarkRead 批量设置已读状态，返回受影响的记录数
func (s *ContactService) MarkRead(ids []uint, read bool) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.Model(&db.ContactMessage{}).
		Where("id IN ?", ids).
		UpdateColumn("is_read", read)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// Delete 删除留言
func (s *ContactService) Delete(id uint) error {
	result := s.db.Delete(&db.ContactMessage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
