// Package database はデータベース接続とマイグレーション管理を提供する。
package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Open はMongoDBクライアントを生成して接続する。
// uriはMongoDBの接続URIを指定する（例: "mongodb://localhost:27017/mestodb"）。
// 実際の疎通確認にはPing()を使用すること。
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return client, nil
}

// Ping はプライマリノードへの疎通を確認する。
func Ping(ctx context.Context, client *mongo.Client) error {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
