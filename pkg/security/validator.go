package security

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"freedom_wall/pkg/apperr"
)

// suspiciousPatterns 原始输入命中任一模式即拒绝，与清洗互相独立
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)data:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)<object`),
	regexp.MustCompile(`(?i)<embed`),
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContainsSuspicious 检查原始文本是否包含危险模式
func ContainsSuspicious(text string) bool {
	for _, p := range suspiciousPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// StringValidator 字符串验证器
// MaxLength <= 0 表示不限制长度
type StringValidator struct {
	Field     string
	MaxLength int
	Required  bool
	Pattern   *regexp.Regexp
	// CheckSuspicious 是否执行危险模式检查
	CheckSuspicious bool
}

// NewStringValidator 创建字符串验证器
func NewStringValidator(field string, maxLength int, required bool) *StringValidator {
	return &StringValidator{
		Field:           field,
		MaxLength:       maxLength,
		Required:        required,
		CheckSuspicious: true,
	}
}

// Validate 验证字符串，返回 apperr.Validation
func (sv *StringValidator) Validate(value string) error {
	if strings.TrimSpace(value) == "" {
		if sv.Required {
			if value == "" {
				return apperr.Validation(fmt.Sprintf("%s is required", sv.Field))
			}
			return apperr.Validation(fmt.Sprintf("%s cannot be empty", sv.Field))
		}
		return nil
	}

	if sv.MaxLength > 0 && utf8.RuneCountInString(value) > sv.MaxLength {
		return apperr.Validation(fmt.Sprintf("%s must be %d characters or less", sv.Field, sv.MaxLength))
	}

	if sv.Pattern != nil && !sv.Pattern.MatchString(value) {
		return apperr.Validation(fmt.Sprintf("Invalid %s format", strings.ToLower(sv.Field)))
	}

	if sv.CheckSuspicious && ContainsSuspicious(value) {
		return apperr.Validation("Content contains suspicious patterns")
	}

	return nil
}

// NewEmailValidator 邮箱验证器
func NewEmailValidator(maxLength int) *StringValidator {
	sv := NewStringValidator("Email", maxLength, true)
	sv.Pattern = emailPattern
	return sv
}

// ValidationRule 字段与取值的组合
type ValidationRule struct {
	Validator *StringValidator
	Value     string
}

// ValidateAll 按顺序校验，返回第一个错误
func ValidateAll(rules ...ValidationRule) error {
	for _, r := range rules {
		if err := r.Validator.Validate(r.Value); err != nil {
			return err
		}
	}
	return nil
}
