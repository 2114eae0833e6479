// Package card はカードのビジネスロジックを提供する。
package card

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/mesto/internal/model"
	"github.com/hitoshi/mesto/internal/repository"
)

// CardWithUsers はカードとその所有者・ライクユーザーを展開した結果。
// カード一覧でのみ使用する。削除済みユーザーが所有者の場合、Ownerはnilになる。
type CardWithUsers struct {
	Card  *model.Card
	Owner *model.User
	Likes []*model.User
}

// Service はカードの参照・作成・削除・ライク操作を提供する。
type Service struct {
	cardRepo repository.CardRepository
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(cardRepo repository.CardRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		cardRepo: cardRepo,
		userRepo: userRepo,
	}
}

// List は全カードを所有者・ライクユーザーを展開して取得する。
// 展開はユーザーリポジトリへの一括取得によるアプリケーション側の結合で行う。
func (s *Service) List(ctx context.Context) ([]*CardWithUsers, error) {
	cards, err := s.cardRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	// 参照されている全ユーザーIDを集めて一括取得する
	idSet := map[primitive.ObjectID]struct{}{}
	for _, c := range cards {
		idSet[c.Owner] = struct{}{}
		for _, id := range c.Likes {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to expand card users: %w", err)
	}
	byID := make(map[primitive.ObjectID]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	result := make([]*CardWithUsers, 0, len(cards))
	for _, c := range cards {
		expanded := &CardWithUsers{
			Card:  c,
			Owner: byID[c.Owner],
			Likes: []*model.User{},
		}
		for _, id := range c.Likes {
			if u, ok := byID[id]; ok {
				expanded.Likes = append(expanded.Likes, u)
			}
		}
		result = append(result, expanded)
	}

	return result, nil
}

// Create は認証済みユーザーを所有者とするカードを作成する。
// 所有者は作成時に固定され、以後変更されない。
func (s *Service) Create(ctx context.Context, ownerID primitive.ObjectID, name, link string) (*model.Card, error) {
	card := &model.Card{
		Name:  name,
		Link:  link,
		Owner: ownerID,
	}

	created, err := s.cardRepo.Create(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	slog.Info("card created",
		slog.String("card_id", created.ID.Hex()),
		slog.String("owner_id", ownerID.Hex()),
	)

	return created, nil
}

// Delete は所有者本人によるカード削除を実行し、削除したカードを返す。
// 所有者以外が削除を試みた場合はForbiddenエラーを返す。
func (s *Service) Delete(ctx context.Context, cardID, requesterID primitive.ObjectID) (*model.Card, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	if card == nil {
		return nil, model.NewNotFoundError("The card with _id was not found")
	}

	if card.Owner != requesterID {
		return nil, model.NewForbiddenError("No rights to delete the card")
	}

	deleted, err := s.cardRepo.DeleteByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete card: %w", err)
	}
	if deleted == nil {
		// 所有権確認と削除の間に消えた場合
		return nil, model.NewNotFoundError("The card with _id was not found")
	}

	slog.Info("card deleted",
		slog.String("card_id", cardID.Hex()),
		slog.String("owner_id", requesterID.Hex()),
	)

	return deleted, nil
}

// Like は指定ユーザーのライクを冪等に付与し、更新後のカードを返す。
// 認証済みユーザーであれば誰でも任意のカードをライクできる。
func (s *Service) Like(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error) {
	card, err := s.cardRepo.AddLike(ctx, cardID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to like card: %w", err)
	}
	if card == nil {
		return nil, model.NewNotFoundError("The card with _id was not found")
	}
	return card, nil
}

// Unlike は指定ユーザーのライクを冪等に解除し、更新後のカードを返す。
// 未ライク状態での解除もエラーにならない。
func (s *Service) Unlike(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error) {
	card, err := s.cardRepo.RemoveLike(ctx, cardID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to unlike card: %w", err)
	}
	if card == nil {
		return nil, model.NewNotFoundError("The card with _id was not found")
	}
	return card, nil
}
