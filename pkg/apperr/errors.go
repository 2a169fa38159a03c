package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误分类，决定最终的 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Error 业务错误
// Message 面向调用方，Reason 是可供机器判断的原因码（如 DEVICE_ALREADY_LIKED）
type Error struct {
	Kind       Kind
	Message    string
	Reason     string
	RetryAfter int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithReason 附加原因码
func (e *Error) WithReason(reason string) *Error {
	e.Reason = reason
	return e
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict 重复投票/举报/点赞等，对外表现为 400
func Conflict(msg, reason string) *Error {
	return &Error{Kind: KindConflict, Message: msg, Reason: reason}
}

func RateLimited(msg string, retryAfter int) *Error {
	return &Error{Kind: KindRateLimited, Message: msg, Reason: "RATE_LIMITED", RetryAfter: retryAfter}
}

// Internal 包装底层错误，Message 保持通用，细节只写日志
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// As 将任意错误归类为 *Error，未知错误视为 Internal
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("Internal server error", err)
}

// Is 判断错误是否属于指定分类
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
