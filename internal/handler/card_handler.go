package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/mesto/internal/card"
	"github.com/hitoshi/mesto/internal/middleware"
	"github.com/hitoshi/mesto/internal/model"
	"github.com/hitoshi/mesto/internal/validation"
)

// CardServiceInterface はカードハンドラーが必要とするサービスインターフェース。
type CardServiceInterface interface {
	List(ctx context.Context) ([]*card.CardWithUsers, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, name, link string) (*model.Card, error)
	Delete(ctx context.Context, cardID, requesterID primitive.ObjectID) (*model.Card, error)
	Like(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error)
	Unlike(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error)
}

// CardHandler はカード管理のHTTPハンドラー。
type CardHandler struct {
	service CardServiceInterface
}

// NewCardHandler はCardHandlerを生成する。
func NewCardHandler(service CardServiceInterface) *CardHandler {
	return &CardHandler{service: service}
}

// createCardRequest はカード作成リクエストのボディ。
type createCardRequest struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// cardResponse はカード情報のAPIレスポンス。所有者・ライクはIDで返す。
type cardResponse struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Link  string   `json:"link"`
	Owner string   `json:"owner"`
	Likes []string `json:"likes"`
}

// expandedCardResponse はカード一覧用のレスポンス。所有者・ライクをユーザーとして展開する。
// 所有者が削除済みの場合はnullになる。
type expandedCardResponse struct {
	ID    string         `json:"_id"`
	Name  string         `json:"name"`
	Link  string         `json:"link"`
	Owner *userResponse  `json:"owner"`
	Likes []userResponse `json:"likes"`
}

// toCardResponse はmodel.CardをAPIレスポンスに変換する。
func toCardResponse(c *model.Card) cardResponse {
	likes := make([]string, 0, len(c.Likes))
	for _, id := range c.Likes {
		likes = append(likes, id.Hex())
	}
	return cardResponse{
		ID:    c.ID.Hex(),
		Name:  c.Name,
		Link:  c.Link,
		Owner: c.Owner.Hex(),
		Likes: likes,
	}
}

// toExpandedCardResponse は展開済みカードをAPIレスポンスに変換する。
func toExpandedCardResponse(cw *card.CardWithUsers) expandedCardResponse {
	resp := expandedCardResponse{
		ID:    cw.Card.ID.Hex(),
		Name:  cw.Card.Name,
		Link:  cw.Card.Link,
		Likes: make([]userResponse, 0, len(cw.Likes)),
	}
	if cw.Owner != nil {
		owner := toUserResponse(cw.Owner)
		resp.Owner = &owner
	}
	for _, u := range cw.Likes {
		resp.Likes = append(resp.Likes, toUserResponse(u))
	}
	return resp
}

// List は全カードを所有者・ライクユーザーを展開して返す。
// GET /cards
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	list := make([]expandedCardResponse, 0, len(cards))
	for _, c := range cards {
		list = append(list, toExpandedCardResponse(c))
	}

	writeJSONResponse(w, map[string]any{"cards": list})
}

// Create は認証済みユーザーを所有者とするカードを作成する。
// POST /cards
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError("Authorization required"))
		return
	}

	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Incorrect data during creating the card"))
		return
	}
	if !validation.InLength(req.Name, 2, 30) || !validation.IsURL(req.Link) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("Incorrect data during creating the card"))
		return
	}

	created, err := h.service.Create(r.Context(), userID, req.Name, req.Link)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, map[string]any{"card": toCardResponse(created)})
}

// Delete は所有者本人によるカード削除を処理する。
// DELETE /cards/{cardId}
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError("Authorization required"))
		return
	}

	cardID, ok := cardIDFromRequest(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), cardID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, map[string]any{"deletedCard": toCardResponse(deleted)})
}

// Like は認証済みユーザーのライクを付与する。
// PUT /cards/{cardId}/likes
func (h *CardHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.updateLike(w, r, h.service.Like)
}

// Unlike は認証済みユーザーのライクを解除する。
// DELETE /cards/{cardId}/likes
func (h *CardHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.updateLike(w, r, h.service.Unlike)
}

// updateLike はライク付与・解除の共通処理。
func (h *CardHandler) updateLike(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error)) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError("Authorization required"))
		return
	}

	cardID, ok := cardIDFromRequest(w, r)
	if !ok {
		return
	}

	updated, err := op(r.Context(), cardID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, map[string]any{"card": toCardResponse(updated)})
}

// cardIDFromRequest はパスパラメータのカードIDを検証して返す。
// 形式不正の場合はBadRequestを書き込み、falseを返す。
func cardIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	param := chi.URLParam(r, "cardId")
	if !validation.IsHexID(param) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("An invalid card _id"))
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(param)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewBadRequestError("An invalid card _id"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// writeJSONResponse は200でJSONレスポンスを書き込む。
// 作成を含む全成功レスポンスが一律200を返す挙動は既存クライアントとの互換のため維持する。
func writeJSONResponse(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// 分類済みのAPIError以外は内部サーバーエラーとして扱い、詳細はログのみに記録する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeBadRequest:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
