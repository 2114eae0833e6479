// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/mesto/internal/model"
)

// ErrDuplicateKey は一意制約違反（メールアドレス重複）を表す。
// ストアドライバーのエラーを文字列で判定せず、リポジトリ層で
// この列挙済みの種別に変換してから上位へ返す。
var ErrDuplicateKey = errors.New("duplicate key")

// UserRepository はユーザーデータの永続化インターフェース。
// Find系はパスワードハッシュを除外して返す。例外はFindByEmailWithPasswordのみ。
type UserRepository interface {
	// Create はユーザーを作成し、採番済みIDを設定して返す。
	// メールアドレスが重複している場合はErrDuplicateKeyを返す。
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)

	// FindByEmailWithPassword はメールアドレスでユーザーを検索する。
	// 認証用にパスワードハッシュを含めて返す。見つからない場合はnilを返す。
	FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error)

	// FindAll は全ユーザーを取得する。
	FindAll(ctx context.Context) ([]*model.User, error)

	// FindByIDs は指定ID集合のユーザーを取得する。
	// 存在しないIDは結果から抜け落ちる。
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)

	// UpdateProfile はnameとaboutを更新し、更新後のユーザーを返す。
	// 見つからない場合はnilを返す。
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, about string) (*model.User, error)

	// UpdateAvatar はavatarを更新し、更新後のユーザーを返す。
	// 見つからない場合はnilを返す。
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) (*model.User, error)
}

// CardRepository はカードデータの永続化インターフェース。
// ライクの付与・解除はストアの原子的な集合演算（add-to-set / pull）に委ね、
// 同一カードへの並行ライクでも重複エントリが生じないことを保証する。
type CardRepository interface {
	// Create はカードを作成し、採番済みIDを設定して返す。
	Create(ctx context.Context, card *model.Card) (*model.Card, error)

	// FindAll は全カードを取得する。
	FindAll(ctx context.Context) ([]*model.Card, error)

	// FindByID は指定IDのカードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Card, error)

	// DeleteByID は指定IDのカードを削除し、削除したカードを返す。
	// 見つからない場合はnilを返す。
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Card, error)

	// AddLike は指定ユーザーをライク集合に原子的に追加し、更新後のカードを返す。
	// すでにライク済みの場合は何も変えない（冪等）。見つからない場合はnilを返す。
	AddLike(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error)

	// RemoveLike は指定ユーザーをライク集合から原子的に除去し、更新後のカードを返す。
	// ライクしていない場合は何も変えない（冪等）。見つからない場合はnilを返す。
	RemoveLike(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error)
}
