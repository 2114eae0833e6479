package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Card は写真カードを表す。
// Ownerは作成時の認証済みユーザーに固定され、以後変更されない。
// Likesは重複なしのユーザーID集合で、順序に意味はない。
type Card struct {
	ID    primitive.ObjectID   `bson:"_id,omitempty"`
	Name  string               `bson:"name"`
	Link  string               `bson:"link"`
	Owner primitive.ObjectID   `bson:"owner"`
	Likes []primitive.ObjectID `bson:"likes"`
}

// HasLike は指定ユーザーがこのカードをライク済みかを返す。
func (c *Card) HasLike(userID primitive.ObjectID) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
