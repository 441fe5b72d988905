package entity

import "errors"

// 领域错误。服务层返回，API 层统一映射为 HTTP 状态码与错误码。
var (
	ErrTeaNotFound    = errors.New("tea not found")
	ErrSchemaNotFound = errors.New("rating schema not found")
	ErrNoteNotFound   = errors.New("note not found")

	// ErrForbidden 请求者不是笔记作者，或试图操作他人的私有笔记。
	ErrForbidden = errors.New("forbidden")

	ErrInvalidAxisIDs      = errors.New("invalid axis ids")
	ErrAxisSchemaMismatch  = errors.New("axis does not belong to target schema")
	ErrAxisValueOutOfRange = errors.New("axis value out of range")
)
