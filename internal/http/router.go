package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterQuoteRoutes wires the quoting endpoints.
func (r *Router) RegisterQuoteRoutes(h *QuoteHandler) {
	r.Handle("/quote/api/v1/quotes", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.CreateQuote(w, req)
	})

	r.Handle("/quote/api/v1/quotes/accept", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.AcceptQuote(w, req)
	})

	r.Handle("/quote/api/v1/architectures", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.GetArchitectures(w, req)
	})

	// products/{sku}/compatibility
	r.Handle("/quote/api/v1/products/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/quote/api/v1/products/")
		sku, ok := strings.CutSuffix(rest, "/compatibility")
		if !ok || sku == "" || strings.Contains(sku, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.GetCompatibility(w, req, sku)
	})
}

// RegisterHealthRoutes wires the liveness endpoint. db and redisClient may
// be nil in degraded dev setups.
func (r *Router) RegisterHealthRoutes(db *sql.DB, redisClient *redis.Client) {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				r.logger.Warn("Health check: database unreachable", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, Fail("database unreachable"))
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				r.logger.Warn("Health check: redis unreachable", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, Fail("redis unreachable"))
				return
			}
		}
		writeJSON(w, http.StatusOK, Ok("healthy"))
	})
}
