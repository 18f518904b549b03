package service

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// 错误分类：调用方通过 errors.Is 判断类别，具体实体错误均包装这些哨兵错误。
var (
	// ErrValidation 表示输入缺失或格式不合法。
	ErrValidation = errors.New("validation failed")
	// ErrConflict 表示唯一约束冲突，例如重复的 slug。
	ErrConflict = errors.New("conflict")
	// ErrNotFound 表示记录不存在。
	ErrNotFound = errors.New("not found")
	// ErrDerivation 表示派生资源（缩略图）生成失败，不影响原始写入。
	ErrDerivation = errors.New("derivation failed")
)

var (
	ErrArticleNotFound    = fmt.Errorf("%w: article", ErrNotFound)
	ErrArticleSlugTaken   = fmt.Errorf("%w: article slug already exists", ErrConflict)
	ErrGalleryNotFound    = fmt.Errorf("%w: gallery item", ErrNotFound)
	ErrExperienceNotFound = fmt.Errorf("%w: experience", ErrNotFound)
	ErrProjectNotFound    = fmt.Errorf("%w: project", ErrNotFound)
	ErrSkillNotFound      = fmt.Errorf("%w: skill", ErrNotFound)
	ErrNowItemNotFound    = fmt.Errorf("%w: now item", ErrNotFound)
	ErrActivityNotFound   = fmt.Errorf("%w: recent activity", ErrNotFound)
	ErrResumeNotFound     = fmt.Errorf("%w: resume", ErrNotFound)
	ErrMessageNotFound    = fmt.Errorf("%w: contact message", ErrNotFound)
	ErrSubscriberNotFound = fmt.Errorf("%w: newsletter subscriber", ErrNotFound)
)

// validationError 将 ozzo-validation 的字段错误转换为 ErrValidation。
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", ErrValidation, fieldErrs.Error())
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return internal
	}
	return fmt.Errorf("%w: %s", ErrValidation, err.Error())
}

// IsValidation 判断 err 是否属于输入校验错误。
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConflict 判断 err 是否属于唯一约束冲突。
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsNotFound 判断 err 是否属于记录不存在。
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
