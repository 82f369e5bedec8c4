package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/rsharma-dev/stock-notifier/internal/catalog"
	"github.com/rsharma-dev/stock-notifier/internal/service"
	"github.com/rsharma-dev/stock-notifier/internal/telegram"
)

type (
	StockChecker interface {
		Run(ctx context.Context, products []catalog.Product) []string
	}

	AlertBroadcaster interface {
		Broadcast(ctx context.Context, recipients []int64, msg string)
	}

	// Server exposes the check endpoint. One request runs one full check
	// cycle; nothing is shared between cycles, so overlapping requests are
	// independent.
	Server struct {
		secret      []byte
		catalog     *catalog.Catalog
		checker     StockChecker
		broadcaster AlertBroadcaster

		log *slog.Logger
	}
)

func New(secret string, cat *catalog.Catalog, checker StockChecker, broadcaster AlertBroadcaster, log *slog.Logger) *Server {
	return &Server{
		secret:      []byte(secret),
		catalog:     cat,
		checker:     checker,
		broadcaster: broadcaster,

		log: log.With("component", "server"),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/check", s.withRecover(s.handleCheck))
	return mux
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	secret := r.URL.Query().Get("secret")
	if subtle.ConstantTimeCompare([]byte(secret), s.secret) != 1 {
		s.log.WarnContext(ctx, "unauthorized check request", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	s.log.InfoContext(ctx, "starting stock check", "products", len(s.catalog.Products))

	inStock := s.checker.Run(ctx, s.catalog.Products)
	if len(inStock) > 0 {
		s.log.InfoContext(ctx, "products in stock, sending alert", "count", len(inStock))
		msg := telegram.EscapeMarkdownV2(service.ComposeAlert(inStock))
		s.broadcaster.Broadcast(ctx, s.catalog.Recipients, msg)
	} else {
		s.log.InfoContext(ctx, "no products currently in stock")
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Stock check complete."})
}

// withRecover turns a panic during the check cycle into a 500 response with
// the failure text in the body.
func (s *Server) withRecover(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.ErrorContext(r.Context(), "panic during check cycle", "panic", rec, "stack", string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprint(rec)})
			}
		}()

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
