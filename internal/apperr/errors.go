package apperr

import (
	"errors"
	"fmt"
)

// ValidationError 表示调用方输入不合法，修正输入即可恢复。
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// StorageError 表示持久化失败，Err 保留底层原因。
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage: %s", e.Op)
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrMalformedBody 请求体无法解析为 JSON 时返回。
var ErrMalformedBody = &ValidationError{Field: "body", Msg: "malformed JSON body"}

// Validation 构造字段校验错误。
func Validation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// Storage 包装存储层错误，err 为 nil 时返回 nil。
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}
