// Package user はユーザープロフィールのビジネスロジックを提供する。
package user

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/mesto/internal/model"
	"github.com/hitoshi/mesto/internal/repository"
)

// Service はユーザープロフィールの参照・更新ロジックを提供する。
// プロフィール更新は常に認証済みユーザー自身のみが対象で、
// 所有権の比較は行わない（構造上、他人のプロフィールに到達できない）。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// GetAll は全ユーザーを取得する。
func (s *Service) GetAll(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID は指定IDのユーザーを取得する。
// 見つからない場合はNotFoundエラーを返す。
func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("The user with _id was not found")
	}
	return user, nil
}

// UpdateProfile は認証済みユーザー自身のnameとaboutを更新する。
func (s *Service) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, about string) (*model.User, error) {
	user, err := s.userRepo.UpdateProfile(ctx, id, name, about)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("The user with _id was not found")
	}
	return user, nil
}

// UpdateAvatar は認証済みユーザー自身のavatarを更新する。
func (s *Service) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) (*model.User, error) {
	user, err := s.userRepo.UpdateAvatar(ctx, id, avatar)
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError("The user with _id was not found")
	}
	return user, nil
}
