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

const userCollection = "users"

// excludePassword はパスワードハッシュを結果から除外するプロジェクション。
// 認証以外の読み取りはすべてこれを適用する。
var excludePassword = bson.M{"password": 0}

// MongoUserRepo はMongoDBを使用したユーザーリポジトリ。
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo はMongoUserRepoを生成する。
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection(userCollection)}
}

// Create はユーザーを作成し、採番済みIDを設定して返す。
// メールアドレスの一意インデックス違反はErrDuplicateKeyに変換する。
func (r *MongoUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MongoUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user := &model.User{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(excludePassword),
	).Decode(user)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// FindByEmailWithPassword はメールアドレスでユーザーを検索する。
// 認証用にパスワードハッシュを含めて返す。見つからない場合はnilを返す。
func (r *MongoUserRepo) FindByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(user)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

// FindAll は全ユーザーを取得する。
func (r *MongoUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(excludePassword),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// FindByIDs は指定ID集合のユーザーを取得する。存在しないIDは結果から抜け落ちる。
func (r *MongoUserRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(excludePassword),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find users by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// UpdateProfile はnameとaboutを更新し、更新後のユーザーを返す。見つからない場合はnilを返す。
func (r *MongoUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, about string) (*model.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"name": name, "about": about}})
}

// UpdateAvatar はavatarを更新し、更新後のユーザーを返す。見つからない場合はnilを返す。
func (r *MongoUserRepo) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) (*model.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"avatar": avatar}})
}

// findOneAndUpdate は更新を適用し、更新後のドキュメントを返す共通処理。
func (r *MongoUserRepo) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*model.User, error) {
	user := &model.User{}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(excludePassword),
	).Decode(user)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
