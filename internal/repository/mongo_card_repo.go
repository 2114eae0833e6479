package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hitoshi/mesto/internal/model"
)

const cardCollection = "cards"

// MongoCardRepo はMongoDBを使用したカードリポジトリ。
type MongoCardRepo struct {
	coll *mongo.Collection
}

// NewMongoCardRepo はMongoCardRepoを生成する。
func NewMongoCardRepo(db *mongo.Database) *MongoCardRepo {
	return &MongoCardRepo{coll: db.Collection(cardCollection)}
}

// Create はカードを作成し、採番済みIDを設定して返す。
func (r *MongoCardRepo) Create(ctx context.Context, card *model.Card) (*model.Card, error) {
	if card.Likes == nil {
		card.Likes = []primitive.ObjectID{}
	}

	res, err := r.coll.InsertOne(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("failed to insert card: %w", err)
	}

	card.ID = res.InsertedID.(primitive.ObjectID)
	return card, nil
}

// FindAll は全カードを取得する。
func (r *MongoCardRepo) FindAll(ctx context.Context) ([]*model.Card, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find cards: %w", err)
	}
	defer cursor.Close(ctx)

	cards := []*model.Card{}
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}

	return cards, nil
}

// FindByID は指定IDのカードを取得する。見つからない場合はnilを返す。
func (r *MongoCardRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Card, error) {
	card := &model.Card{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(card)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card by ID: %w", err)
	}

	return card, nil
}

// DeleteByID は指定IDのカードを削除し、削除したカードを返す。見つからない場合はnilを返す。
func (r *MongoCardRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Card, error) {
	card := &model.Card{}
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(card)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete card: %w", err)
	}

	return card, nil
}

// AddLike は指定ユーザーをライク集合に原子的に追加し、更新後のカードを返す。
// $addToSetにより並行リクエスト下でも重複エントリは生じない。
func (r *MongoCardRepo) AddLike(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error) {
	return r.findOneAndUpdate(ctx, cardID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike は指定ユーザーをライク集合から原子的に除去し、更新後のカードを返す。
func (r *MongoCardRepo) RemoveLike(ctx context.Context, cardID, userID primitive.ObjectID) (*model.Card, error) {
	return r.findOneAndUpdate(ctx, cardID, bson.M{"$pull": bson.M{"likes": userID}})
}

// findOneAndUpdate は更新を適用し、更新後のドキュメントを返す共通処理。
func (r *MongoCardRepo) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*model.Card, error) {
	card := &model.Card{}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(card)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	return card, nil
}
