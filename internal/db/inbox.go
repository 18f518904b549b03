package db

import "time"

// ContactMessage 联系表单提交记录，提交后仅 IsRead 可被修改
type ContactMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Email       string    `gorm:"size:254;not null" json:"email"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	SubmittedAt time.Time `gorm:"index" json:"submitted_at"`
	IsRead      bool      `gorm:"index" json:"is_read"`
}

// NewsletterSubscriber 邮件订阅者，Email 归一化为小写后唯一
type NewsletterSubscriber struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
	IsActive     bool      `json:"is_active"`
	UpdatedAt    time.Time `json:"updated_at"`
}
