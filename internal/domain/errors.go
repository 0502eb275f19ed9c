package domain

import (
	"errors"
	"fmt"
)

// 错误分类：校验失败 / 唯一冲突 / 不存在
// handler 据此决定 400 / 409 / 404，其余落到 500

type ValidationError struct {
	Field Field
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func Invalid(field Field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	if e.Email == "" {
		return "duplicate email"
	}
	return "email already exists: " + e.Email
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return "employee not found"
	}
	return "employee not found: " + e.ID
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
