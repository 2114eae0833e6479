// Package token はセッショントークンの発行と検証を提供する。
package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidToken は署名不正・ペイロード不正を区別せずに返す単一のエラー。
// 失敗理由を呼び出し側（ひいてはクライアント）に漏らさない。
var ErrInvalidToken = errors.New("invalid session token")

// Claims はセッショントークンのペイロード。
// ユーザーIDを`_id`クレームとして埋め込む。
// 有効期限クレームは設定しない。秘密鍵がローテーションされるまで
// トークンは無期限に有効であり、これは既知の仕様として保存している。
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// Codec はHS256署名付きセッショントークンの発行・検証を行う。
// 署名鍵は起動時にConfigから一度だけ渡され、以後変更されない。
type Codec struct {
	secret []byte
}

// NewCodec はCodecを生成する。
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Issue は指定ユーザーIDを埋め込んだ署名付きトークンを発行する。
func (c *Codec) Issue(userID primitive.ObjectID) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.Hex(),
	})
	return t.SignedString(c.secret)
}

// Verify はトークンの署名とペイロードを検証し、ユーザーIDを返す。
// 署名不正、ペイロード不正、IDの形式不正はすべてErrInvalidTokenになる。
func (c *Codec) Verify(tokenString string) (primitive.ObjectID, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}

	return userID, nil
}
