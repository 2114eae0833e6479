// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/mesto/internal/auth"
	"github.com/hitoshi/mesto/internal/middleware"
	"github.com/hitoshi/mesto/internal/model"
	"github.com/hitoshi/mesto/internal/validation"
)

// sessionCookieMaxAge はセッションCookieの有効期間（秒）。ログインから7日間。
const sessionCookieMaxAge = 7 * 24 * 60 * 60

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを作成する。
	Register(ctx context.Context, input auth.RegisterInput) (*model.User, error)
	// Login は資格情報を検証し、セッショントークンを発行する。
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain string
}

// AuthHandler はユーザー登録・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// signupRequest はユーザー登録リクエストのボディ。
type signupRequest struct {
	Name     string `json:"name"`
	About    string `json:"about"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signinRequest はログインリクエストのボディ。
type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signupResponse はユーザー登録レスポンス。パスワードは含めない。
type signupResponse struct {
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
	ID     string `json:"_id"`
	Email  string `json:"email"`
}

// Signup はユーザー登録を処理する。
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Incorrect data during creating the user"))
		return
	}

	if !validSignup(&req) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Incorrect data during creating the user"))
		return
	}

	user, err := h.service.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		About:    req.About,
		Avatar:   req.Avatar,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, signupResponse{
		Name:   user.Name,
		About:  user.About,
		Avatar: user.Avatar,
		ID:     user.ID.Hex(),
		Email:  user.Email,
	})
}

// validSignup はユーザー登録リクエストの形状を検証する。
// name/about/avatarは省略可能だが、指定された場合は制約を満たすこと。
func validSignup(req *signupRequest) bool {
	if !validation.IsEmail(req.Email) {
		return false
	}
	if len(req.Password) < 8 {
		return false
	}
	if req.Name != "" && !validation.InLength(req.Name, 2, 30) {
		return false
	}
	if req.About != "" && !validation.InLength(req.About, 2, 30) {
		return false
	}
	if req.Avatar != "" && !validation.IsURL(req.Avatar) {
		return false
	}
	return true
}

// Signin は資格情報を検証し、セッションCookieを設定する。
// 成功時は200でボディなし。
// POST /signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Incorrect data during login"))
		return
	}

	tokenString, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    tokenString,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	w.WriteHeader(http.StatusOK)
}

// Logout はセッションCookieをクリアする。
// トークン自体の失効はしない（サーバー側の失効リストは持たない）。
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	w.WriteHeader(http.StatusOK)
}
