package config

import (
	"fmt"
	"os"
)

// DevelopmentJWTSecret は非production環境で使う固定の署名鍵。
// 既知の弱点だが、開発環境のセットアップを不要にするため意図的に残している。
// production環境ではJWT_SECRETの設定を必須とする。
const DevelopmentJWTSecret = "SecretNotProduction"

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// リクエスト処理中のコードは環境変数を直接参照せず、必ずこの構造体経由で設定を受け取る。
type Config struct {
	// Database
	MongoURI     string
	DatabaseName string

	// Auth
	AppEnv    string
	JWTSecret string

	// Server
	ServerPort  string
	MetricsPort string

	// Cookie
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// IsProduction はproductionモードで起動しているかを返す。
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load は環境変数からConfigを読み込む。
// MONGODB_URIは必須。JWT_SECRETはproduction環境でのみ必須で、
// それ以外の環境では固定の開発用フォールバック鍵にフォールバックする。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.MongoURI = os.Getenv("MONGODB_URI")
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("required environment variable is not set: MONGODB_URI")
	}

	cfg.AppEnv = getEnvString("APP_ENV", "development")

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET must be set when APP_ENV=production")
		}
		cfg.JWTSecret = DevelopmentJWTSecret
	}

	cfg.DatabaseName = getEnvString("DATABASE_NAME", "mestodb")
	cfg.ServerPort = getEnvString("SERVER_PORT", "3000")
	cfg.MetricsPort = getEnvString("METRICS_PORT", "9090")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
