// Package model はドメインモデルを定義する。
package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// ユーザーのデフォルト値。
// 未指定のフィールドは作成時にこの値で埋める。
const (
	DefaultUserName   = "Jacques-Yves Cousteau"
	DefaultUserAbout  = "Researcher"
	DefaultUserAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

// User はサービス利用ユーザーを表す。
// Passwordはbcryptハッシュとしてのみ保存し、平文は保持しない。
// APIレスポンスへのシリアライズはハンドラー層のレスポンス構造体で行い、
// Passwordは決して外部に返さない。
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	About    string             `bson:"about"`
	Avatar   string             `bson:"avatar"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}
