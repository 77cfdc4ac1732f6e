package domain

import "errors"

// 存储层统一错误，由 repo 负责把驱动错误翻译成这些值
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("duplicate record")
	ErrMissingReference   = errors.New("referenced record does not exist")
	ErrStillReferenced    = errors.New("record is still referenced")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
