package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/mesto/internal/card"
	"github.com/hitoshi/mesto/internal/model"
)

func newCardRouter(h *CardHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/cards", h.List)
	r.Post("/cards", h.Create)
	r.Delete("/cards/{cardId}", h.Delete)
	r.Put("/cards/{cardId}/likes", h.Like)
	r.Delete("/cards/{cardId}/likes", h.Unlike)
	return r
}

func TestCardHandler_List_ExpandsUsers(t *testing.T) {
	owner := &model.User{ID: primitive.NewObjectID(), Name: "Owner", Email: "o@example.com"}
	liker := &model.User{ID: primitive.NewObjectID(), Name: "Liker", Email: "l@example.com"}
	svc := &mockCardService{
		listFn: func(ctx context.Context) ([]*card.CardWithUsers, error) {
			return []*card.CardWithUsers{
				{
					Card:  &model.Card{ID: primitive.NewObjectID(), Name: "Sea", Link: "https://example.com/sea.png", Owner: owner.ID, Likes: []primitive.ObjectID{liker.ID}},
					Owner: owner,
					Likes: []*model.User{liker},
				},
			}, nil
		},
	}
	router := newCardRouter(NewCardHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	cards := body["cards"].([]any)
	if len(cards) != 1 {
		t.Fatalf("len(cards) = %d, want 1", len(cards))
	}

	c := cards[0].(map[string]any)
	ownerObj, ok := c["owner"].(map[string]any)
	if !ok {
		t.Fatalf("owner must be an expanded user object: %v", c["owner"])
	}
	if ownerObj["name"] != "Owner" {
		t.Errorf("owner.name = %v", ownerObj["name"])
	}
	likes := c["likes"].([]any)
	if len(likes) != 1 {
		t.Fatalf("len(likes) = %d, want 1", len(likes))
	}
	if likes[0].(map[string]any)["name"] != "Liker" {
		t.Errorf("likes[0] = %v", likes[0])
	}
}

// 所有者が削除済みの場合、ownerはnullで返る。
func TestCardHandler_List_DeletedOwnerIsNull(t *testing.T) {
	svc := &mockCardService{
		listFn: func(ctx context.Context) ([]*card.CardWithUsers, error) {
			return []*card.CardWithUsers{
				{
					Card:  &model.Card{ID: primitive.NewObjectID(), Name: "Sea", Owner: primitive.NewObjectID()},
					Owner: nil,
					Likes: []*model.User{},
				},
			}, nil
		},
	}
	router := newCardRouter(NewCardHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := decodeBody(t, rec)
	c := body["cards"].([]any)[0].(map[string]any)
	if c["owner"] != nil {
		t.Errorf("owner = %v, want null", c["owner"])
	}
	likes, ok := c["likes"].([]any)
	if !ok || len(likes) != 0 {
		t.Errorf("likes = %v, want empty array", c["likes"])
	}
}

func TestCardHandler_Create(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newCardRouter(NewCardHandler(&mockCardService{
		createFn: func(ctx context.Context, ownerID primitive.ObjectID, name, link string) (*model.Card, error) {
			if ownerID != userID {
				t.Errorf("owner = %s, want authenticated user %s", ownerID.Hex(), userID.Hex())
			}
			return &model.Card{ID: primitive.NewObjectID(), Name: name, Link: link, Owner: ownerID, Likes: []primitive.ObjectID{}}, nil
		},
	}))

	req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader(
		`{"name":"Sea","link":"https://example.com/sea.png"}`))
	req = req.WithContext(authedContext(userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// 作成も200を返す
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	c, ok := body["card"].(map[string]any)
	if !ok {
		t.Fatalf("card envelope missing: %v", body)
	}
	if c["name"] != "Sea" {
		t.Errorf("name = %v", c["name"])
	}
	if c["owner"] != userID.Hex() {
		t.Errorf("owner = %v", c["owner"])
	}
	likes, ok := c["likes"].([]any)
	if !ok || len(likes) != 0 {
		t.Errorf("likes = %v, want empty array", c["likes"])
	}
}

func TestCardHandler_Create_InvalidBody_Returns400(t *testing.T) {
	router := newCardRouter(NewCardHandler(&mockCardService{
		createFn: func(ctx context.Context, ownerID primitive.ObjectID, name, link string) (*model.Card, error) {
			t.Error("service must not be called for an invalid body")
			return nil, nil
		},
	}))

	cases := map[string]string{
		"malformed json": `{`,
		"short name":     `{"name":"a","link":"https://example.com/x.png"}`,
		"missing link":   `{"name":"Sea"}`,
		"malformed link": `{"name":"Sea","link":"notaurl"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader(payload))
			req = req.WithContext(authedContext(primitive.NewObjectID()))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["message"] != "Incorrect data during creating the card" {
				t.Errorf("message = %v", body["message"])
			}
		})
	}
}

func TestCardHandler_Delete_ReturnsDeletedCard(t *testing.T) {
	userID := primitive.NewObjectID()
	cardID := primitive.NewObjectID()
	router := newCardRouter(NewCardHandler(&mockCardService{
		deleteFn: func(ctx context.Context, gotCardID, requesterID primitive.ObjectID) (*model.Card, error) {
			if gotCardID != cardID || requesterID != userID {
				t.Errorf("Delete called with (%s, %s)", gotCardID.Hex(), requesterID.Hex())
			}
			return &model.Card{ID: cardID, Name: "Sea", Owner: userID, Likes: []primitive.ObjectID{}}, nil
		},
	}))

	req := httptest.NewRequest(http.MethodDelete, "/cards/"+cardID.Hex(), nil)
	req = req.WithContext(authedContext(userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	deleted, ok := body["deletedCard"].(map[string]any)
	if !ok {
		t.Fatalf("deletedCard envelope missing: %v", body)
	}
	if deleted["_id"] != cardID.Hex() {
		t.Errorf("_id = %v", deleted["_id"])
	}
}

func TestCardHandler_Delete_NotOwner_Returns403(t *testing.T) {
	router := newCardRouter(NewCardHandler(&mockCardService{
		deleteFn: func(ctx context.Context, cardID, requesterID primitive.ObjectID) (*model.Card, error) {
			return nil, model.NewForbiddenError("No rights to delete the card")
		},
	}))

	req := httptest.NewRequest(http.MethodDelete, "/cards/"+primitive.NewObjectID().Hex(), nil)
	req = req.WithContext(authedContext(primitive.NewObjectID()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "No rights to delete the card" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestCardHandler_InvalidCardID_Returns400(t *testing.T) {
	router := newCardRouter(NewCardHandler(&mockCardService{
		deleteFn: func(ctx context.Context, cardID, requesterID primitive.ObjectID) (*model.Card, error) {
			t.Error("service must not be called for a malformed id")
			return nil, nil
		},
		likeFn: func(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error) {
			t.Error("service must not be called for a malformed id")
			return nil, nil
		},
	}))

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/cards/short"},
		{http.MethodPut, "/cards/" + strings.Repeat("z", 24) + "/likes"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req = req.WithContext(authedContext(primitive.NewObjectID()))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: status = %d, want 400", tc.method, tc.path, rec.Code)
		}
		body := decodeBody(t, rec)
		if body["message"] != "An invalid card _id" {
			t.Errorf("%s %s: message = %v", tc.method, tc.path, body["message"])
		}
	}
}

func TestCardHandler_Like(t *testing.T) {
	userID := primitive.NewObjectID()
	cardID := primitive.NewObjectID()
	router := newCardRouter(NewCardHandler(&mockCardService{
		likeFn: func(ctx context.Context, gotCardID, gotUserID primitive.ObjectID) (*model.Card, error) {
			return &model.Card{ID: gotCardID, Likes: []primitive.ObjectID{gotUserID}}, nil
		},
	}))

	req := httptest.NewRequest(http.MethodPut, "/cards/"+cardID.Hex()+"/likes", nil)
	req = req.WithContext(authedContext(userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	c := body["card"].(map[string]any)
	likes := c["likes"].([]any)
	if len(likes) != 1 || likes[0] != userID.Hex() {
		t.Errorf("likes = %v", likes)
	}
}

func TestCardHandler_Like_MissingCard_Returns404(t *testing.T) {
	router := newCardRouter(NewCardHandler(&mockCardService{
		likeFn: func(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error) {
			return nil, model.NewNotFoundError("The card with _id was not found")
		},
	}))

	req := httptest.NewRequest(http.MethodPut, "/cards/"+primitive.NewObjectID().Hex()+"/likes", nil)
	req = req.WithContext(authedContext(primitive.NewObjectID()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "The card with _id was not found" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestCardHandler_Unlike(t *testing.T) {
	cardID := primitive.NewObjectID()
	router := newCardRouter(NewCardHandler(&mockCardService{}))

	req := httptest.NewRequest(http.MethodDelete, "/cards/"+cardID.Hex()+"/likes", nil)
	req = req.WithContext(authedContext(primitive.NewObjectID()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	c := body["card"].(map[string]any)
	likes, ok := c["likes"].([]any)
	if !ok || len(likes) != 0 {
		t.Errorf("likes = %v, want empty array", c["likes"])
	}
}

// --- handleServiceError ---

func TestHandleServiceError_MapsCodes(t *testing.T) {
	cases := []struct {
		err  *model.APIError
		want int
	}{
		{model.NewBadRequestError("x"), http.StatusBadRequest},
		{model.NewUnauthorizedError("x"), http.StatusUnauthorized},
		{model.NewForbiddenError("x"), http.StatusForbidden},
		{model.NewNotFoundError("x"), http.StatusNotFound},
		{model.NewConflictError("x"), http.StatusConflict},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handleServiceError(rec, tc.err)
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.err.Code, rec.Code, tc.want)
		}
	}
}

// 未分類のエラーは詳細を漏らさず500を返す。
func TestHandleServiceError_UnclassifiedBecomes500(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, context.DeadlineExceeded)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "An error occurred on the server" {
		t.Errorf("message = %v", body["message"])
	}
}
