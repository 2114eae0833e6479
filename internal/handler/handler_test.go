package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/mesto/internal/auth"
	"github.com/hitoshi/mesto/internal/card"
	"github.com/hitoshi/mesto/internal/middleware"
	"github.com/hitoshi/mesto/internal/model"
)

// --- 共通モック ---

type mockAuthService struct {
	registerFn func(ctx context.Context, input auth.RegisterInput) (*model.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, input auth.RegisterInput) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, input)
	}
	return &model.User{ID: primitive.NewObjectID(), Email: input.Email}, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return "session-token", nil
}

type mockUserService struct {
	getAllFn        func(ctx context.Context) ([]*model.User, error)
	getByIDFn       func(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	updateProfileFn func(ctx context.Context, id primitive.ObjectID, name, about string) (*model.User, error)
	updateAvatarFn  func(ctx context.Context, id primitive.ObjectID, avatar string) (*model.User, error)
}

func (m *mockUserService) GetAll(ctx context.Context) ([]*model.User, error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx)
	}
	return []*model.User{}, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.User{ID: id}, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, about string) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, name, about)
	}
	return &model.User{ID: id, Name: name, About: about}, nil
}

func (m *mockUserService) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) (*model.User, error) {
	if m.updateAvatarFn != nil {
		return m.updateAvatarFn(ctx, id, avatar)
	}
	return &model.User{ID: id, Avatar: avatar}, nil
}

type mockCardService struct {
	listFn   func(ctx context.Context) ([]*card.CardWithUsers, error)
	createFn func(ctx context.Context, ownerID primitive.ObjectID, name, link string) (*model.Card, error)
	deleteFn func(ctx context.Context, cardID, requesterID primitive.ObjectID) (*model.Card, error)
	likeFn   func(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error)
	unlikeFn func(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error)
}

func (m *mockCardService) List(ctx context.Context) ([]*card.CardWithUsers, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*card.CardWithUsers{}, nil
}

func (m *mockCardService) Create(ctx context.Context, ownerID primitive.ObjectID, name, link string) (*model.Card, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, name, link)
	}
	return &model.Card{ID: primitive.NewObjectID(), Name: name, Link: link, Owner: ownerID, Likes: []primitive.ObjectID{}}, nil
}

func (m *mockCardService) Delete(ctx context.Context, cardID, requesterID primitive.ObjectID) (*model.Card, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, cardID, requesterID)
	}
	return &model.Card{ID: cardID, Owner: requesterID, Likes: []primitive.ObjectID{}}, nil
}

func (m *mockCardService) Like(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error) {
	if m.likeFn != nil {
		return m.likeFn(ctx, cardID, userID)
	}
	return &model.Card{ID: cardID, Likes: []primitive.ObjectID{userID}}, nil
}

func (m *mockCardService) Unlike(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error) {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, cardID, userID)
	}
	return &model.Card{ID: cardID, Likes: []primitive.ObjectID{}}, nil
}

// --- ヘルパー ---

// decodeBody はレスポンスボディをマップにデコードする。
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

// authedContext は認証済みユーザーIDを持つコンテキストを返す。
func authedContext(userID primitive.ObjectID) context.Context {
	return middleware.ContextWithUserID(context.Background(), userID)
}

// インターフェース適合の確認
var (
	_ AuthServiceInterface = (*mockAuthService)(nil)
	_ UserServiceInterface = (*mockUserService)(nil)
	_ CardServiceInterface = (*mockCardService)(nil)
)
