// Package auth はユーザー登録・ログインの認証ロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/mesto/internal/model"
	"github.com/hitoshi/mesto/internal/repository"
)

// bcryptCost はパスワードハッシュの計算コスト。
const bcryptCost = 10

// TokenIssuer はセッショントークン発行のインターフェース。
// token.Codecの部分集合として定義する。
type TokenIssuer interface {
	Issue(userID primitive.ObjectID) (string, error)
}

// RegisterInput はユーザー登録の入力。
// Name/About/Avatarは省略可能で、空の場合はデフォルト値で埋める。
type RegisterInput struct {
	Name     string
	About    string
	Avatar   string
	Email    string
	Password string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, issuer TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// Register は新規ユーザーを作成する。
// パスワードは一方向ハッシュとしてのみ保存する。
// メールアドレスが重複している場合はConflictエラーを返す。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:     input.Name,
		About:    input.About,
		Avatar:   input.Avatar,
		Email:    input.Email,
		Password: string(hash),
	}
	if user.Name == "" {
		user.Name = model.DefaultUserName
	}
	if user.About == "" {
		user.About = model.DefaultUserAbout
	}
	if user.Avatar == "" {
		user.Avatar = model.DefaultUserAvatar
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if err == repository.ErrDuplicateKey {
			return nil, model.NewConflictError("A user with current email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", created.ID.Hex()),
	)

	return created, nil
}

// Login はメールアドレスとパスワードを検証し、セッショントークンを発行する。
// ユーザー不在とパスワード不一致はどちらも同一メッセージのUnauthorizedを返し、
// どちらが失敗したかをクライアントに漏らさない。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmailWithPassword(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return "", model.NewUnauthorizedError("Incorrect email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", model.NewUnauthorizedError("Incorrect email or password")
	}

	tokenString, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID.Hex()),
	)

	return tokenString, nil
}
