package server_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma-dev/stock-notifier/internal/catalog"
	"github.com/rsharma-dev/stock-notifier/internal/server"
)

type stubChecker struct {
	calls int
	lines []string
	panic any
}

func (s *stubChecker) Run(_ context.Context, _ []catalog.Product) []string {
	s.calls++
	if s.panic != nil {
		panic(s.panic)
	}
	return s.lines
}

type stubBroadcaster struct {
	calls      int
	recipients []int64
	msg        string
}

func (s *stubBroadcaster) Broadcast(_ context.Context, recipients []int64, msg string) {
	s.calls++
	s.recipients = recipients
	s.msg = msg
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Products: []catalog.Product{
			{Name: "iPhone 17 Pro Max", URL: "https://www.amazon.in/dp/B0D123EXAMPLE", Source: catalog.SourceAmazon, ASIN: "B0D123EXAMPLE"},
		},
		Recipients: []int64{1301703380, 7500224400, 667911343},
	}
}

func doCheck(t *testing.T, srv *server.Server, secret string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/check?secret="+secret, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func newServer(t *testing.T, checker *stubChecker, broadcaster *stubBroadcaster) *server.Server {
	t.Helper()
	return server.New("s3cret", testCatalog(), checker, broadcaster, slog.New(slog.DiscardHandler))
}

func TestServer_HandleCheck_WrongSecret(t *testing.T) {
	checker := &stubChecker{}
	broadcaster := &stubBroadcaster{}

	rec := doCheck(t, newServer(t, checker, broadcaster), "wrong")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "Unauthorized"}`, rec.Body.String())
	assert.Zero(t, checker.calls, "no vendor calls on auth failure")
	assert.Zero(t, broadcaster.calls, "no messaging calls on auth failure")
}

func TestServer_HandleCheck_MissingSecret(t *testing.T) {
	checker := &stubChecker{}
	broadcaster := &stubBroadcaster{}

	rec := doCheck(t, newServer(t, checker, broadcaster), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, checker.calls)
	assert.Zero(t, broadcaster.calls)
}

func TestServer_HandleCheck_NothingInStock(t *testing.T) {
	checker := &stubChecker{lines: nil}
	broadcaster := &stubBroadcaster{}

	rec := doCheck(t, newServer(t, checker, broadcaster), "s3cret")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Stock check complete."}`, rec.Body.String())
	assert.Equal(t, 1, checker.calls)
	assert.Zero(t, broadcaster.calls, "no messaging calls when nothing is in stock")
}

func TestServer_HandleCheck_InStock(t *testing.T) {
	checker := &stubChecker{lines: []string{"🛒 *Amazon In Stock*\n[iPhone 17 Pro Max](https://amzn.to/3iphone17)"}}
	broadcaster := &stubBroadcaster{}

	rec := doCheck(t, newServer(t, checker, broadcaster), "s3cret")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Stock check complete."}`, rec.Body.String())

	require.Equal(t, 1, broadcaster.calls)
	assert.Equal(t, []int64{1301703380, 7500224400, 667911343}, broadcaster.recipients)
	assert.Equal(t, "🔥 \\*Stock Alert\\!\\*\n\n🛒 \\*Amazon In Stock\\*\n\\[iPhone 17 Pro Max\\]\\(https://amzn\\.to/3iphone17\\)", broadcaster.msg)
}

func TestServer_HandleCheck_PanicReturns500(t *testing.T) {
	checker := &stubChecker{panic: "catalog exploded"}
	broadcaster := &stubBroadcaster{}

	rec := doCheck(t, newServer(t, checker, broadcaster), "s3cret")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "catalog exploded"}`, rec.Body.String())
	assert.Zero(t, broadcaster.calls)
}
