package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mesto/internal/middleware"
	"github.com/hitoshi/mesto/internal/model"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// データベース接続への疎通確認を想定する。
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	Metrics           middleware.MetricsRecorder
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string

	// ヘルスチェック
	HealthChecker HealthChecker

	// サービス
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig
	UserService UserServiceInterface
	CardService CardServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → (保護ルートのみ) Auth
//
// /signupと/signinは意図的に公開ルート。それ以外のAPIルートは認証ゲートを通る。
// 未定義パスへのフォールバック404は認証ゲートを通らない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	cardHandler := NewCardHandler(deps.CardService)

	// --- 認証不要のルート ---

	if deps.HealthChecker != nil {
		r.Get("/health", newHealthHandler(deps.HealthChecker))
	}

	r.Post("/signup", authHandler.Signup)
	r.Post("/signin", authHandler.Signin)

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))

		r.Post("/logout", authHandler.Logout)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.GetAll)
			r.Get("/me", userHandler.GetMe)
			r.Get("/{userId}", userHandler.GetByID)
			r.Patch("/me", userHandler.UpdateProfile)
			r.Patch("/me/avatar", userHandler.UpdateAvatar)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.List)
			r.Post("/", cardHandler.Create)
			r.Delete("/{cardId}", cardHandler.Delete)
			r.Put("/{cardId}/likes", cardHandler.Like)
			r.Delete("/{cardId}/likes", cardHandler.Unlike)
		})
	})

	// 未定義パスはメソッドを問わず404を返す
	notFound := func(w http.ResponseWriter, r *http.Request) {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("Not found page"))
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

// newHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := checker.Ping(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
