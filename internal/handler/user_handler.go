package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/mesto/internal/middleware"
	"github.com/hitoshi/mesto/internal/model"
	"github.com/hitoshi/mesto/internal/validation"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	GetAll(ctx context.Context) ([]*model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, about string) (*model.User, error)
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// userResponse はユーザー情報のAPIレスポンス。パスワードは決して含めない。
type userResponse struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
	Email  string `json:"email"`
}

// toUserResponse はmodel.UserをAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:     u.ID.Hex(),
		Name:   u.Name,
		About:  u.About,
		Avatar: u.Avatar,
		Email:  u.Email,
	}
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
type updateProfileRequest struct {
	Name  string `json:"name"`
	About string `json:"about"`
}

// updateAvatarRequest はアバター更新リクエストのボディ。
type updateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

// GetAll は全ユーザーの一覧を返す。
// GET /users
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	list := make([]userResponse, 0, len(users))
	for _, u := range users {
		list = append(list, toUserResponse(u))
	}

	writeJSONResponse(w, map[string]any{"users": list})
}

// GetMe は認証済みユーザー自身の情報を返す。
// GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError("Authorization required"))
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, map[string]any{"user": toUserResponse(user)})
}

// GetByID は指定IDのユーザーを返す。
// GET /users/{userId}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "userId")
	if !validation.IsHexID(param) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("An invalid user _id"))
		return
	}
	id, err := primitive.ObjectIDFromHex(param)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("An invalid user _id"))
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, map[string]any{"user": toUserResponse(user)})
}

// UpdateProfile は認証済みユーザー自身のnameとaboutを更新する。
// PATCH /users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError("Authorization required"))
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Incorrect data during updating the user"))
		return
	}
	if !validation.InLength(req.Name, 2, 30) || !validation.InLength(req.About, 2, 30) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Incorrect data during updating the user"))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req.Name, req.About)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, map[string]any{"user": toUserResponse(user)})
}

// UpdateAvatar は認証済みユーザー自身のavatarを更新する。
// PATCH /users/me/avatar
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError("Authorization required"))
		return
	}

	var req updateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Incorrect data during updating the avatar"))
		return
	}
	if !validation.IsURL(req.Avatar) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Incorrect data during updating the avatar"))
		return
	}

	user, err := h.service.UpdateAvatar(r.Context(), userID, req.Avatar)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, map[string]any{"user": toUserResponse(user)})
}
