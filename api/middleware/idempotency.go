package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/marcosalvarado/buildledger-backend/api/responses"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	pkgredis "github.com/marcosalvarado/buildledger-backend/pkg/redis"
)

type routeMatcher func(string) bool

type idempotencyRule struct {
	method  string
	matcher routeMatcher
}

// Money-moving decisions: replaying one silently must return the original
// outcome, never run twice.
var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/estimates/", "/versions")},
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/estimates/", "/contingency/allocations")},
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/quotes/", "/accept")},
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/quotes/", "/reject")},
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/quotes/", "/reopen")},
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/change-orders/", "/approve")},
	{method: http.MethodPost, matcher: matchPrefixSuffix("/api/v1/change-orders/", "/reject")},
}

type idempotencyStore interface {
	Lookup(ctx context.Context, method, path, idempotencyKey string) (*pkgredis.StoredResponse, bool, error)
	Reserve(ctx context.Context, method, path, idempotencyKey string) (bool, error)
	Store(ctx context.Context, method, path, idempotencyKey string, resp pkgredis.StoredResponse) error
	Release(ctx context.Context, method, path, idempotencyKey string) error
}

func Idempotency(store idempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || !ruleApplies(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if key == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			requestHash := hashBody(body)

			stored, found, err := store.Lookup(r.Context(), r.Method, r.URL.Path, key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if found {
				if stored == nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in flight"))
					return
				}
				if stored.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with a different request body"))
					return
				}
				replayResponse(w, stored)
				return
			}

			acquired, err := store.Reserve(r.Context(), r.Method, r.URL.Path, key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !acquired {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is still in flight"))
				return
			}

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}

			// Server faults are not outcomes worth replaying; free the key
			// so the caller can retry.
			if status >= http.StatusInternalServerError {
				if relErr := store.Release(r.Context(), r.Method, r.URL.Path, key); relErr != nil {
					logError(r.Context(), logg, "release idempotency key", relErr)
				}
				return
			}

			record := pkgredis.StoredResponse{
				Status:      status,
				Body:        bytes.Clone(rec.body.Bytes()),
				ContentType: rec.Header().Get("Content-Type"),
				RequestHash: requestHash,
			}
			if storeErr := store.Store(r.Context(), r.Method, r.URL.Path, key, record); storeErr != nil {
				logError(r.Context(), logg, "persist idempotency record", storeErr)
			}
		})
	}
}

func replayResponse(w http.ResponseWriter, stored *pkgredis.StoredResponse) {
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set("Idempotency-Replayed", "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func ruleApplies(method, path string) bool {
	if path == "" {
		return false
	}
	for _, rule := range idempotencyRules {
		if rule.method == method && rule.matcher(path) {
			return true
		}
	}
	return false
}

func matchPrefixSuffix(prefix, suffix string) routeMatcher {
	return func(path string) bool {
		return strings.HasPrefix(path, prefix) && strings.HasSuffix(path, suffix)
	}
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
