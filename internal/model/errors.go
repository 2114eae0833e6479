package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// CodeはHTTPステータスへのマッピングに使う機械可読な種別、
// Messageはクライアントに返す短い説明文。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード。
// サービス層はストア層の失敗をこのいずれかに分類してから境界に返す。
// どれにも分類できない失敗はそのまま伝播し、ハンドラーで500として扱われる。
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// NewBadRequestError はリクエスト形状・識別子形式の不正エラーを生成する。
func NewBadRequestError(message string) *APIError {
	return &APIError{Code: ErrCodeBadRequest, Message: message}
}

// NewUnauthorizedError は認証エラーを生成する。
func NewUnauthorizedError(message string) *APIError {
	return &APIError{Code: ErrCodeUnauthorized, Message: message}
}

// NewForbiddenError は権限エラーを生成する。
func NewForbiddenError(message string) *APIError {
	return &APIError{Code: ErrCodeForbidden, Message: message}
}

// NewNotFoundError は対象未検出エラーを生成する。
func NewNotFoundError(message string) *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: message}
}

// NewConflictError は一意制約違反エラーを生成する。
func NewConflictError(message string) *APIError {
	return &APIError{Code: ErrCodeConflict, Message: message}
}
