package web

import (
	"context"
	"net/http"
	"time"

	"github.com/willemschots/accounts/internal/i18n"
)

type ctxKey string

const translatorCtxKey ctxKey = "_translator"

// resolveLocale is a middleware that resolves the locale from the Accept-Language
// header and injects the matching translator in the context.
func resolveLocale(srv *Server) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := srv.deps.Locales.Match(r.Header.Get("Accept-Language"))
			w.Header().Set("Content-Language", tag.String())

			ctx := ctxWithTranslator(r.Context(), srv.deps.Locales.Translator(tag))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ctxWithTranslator(ctx context.Context, tr i18n.Translator) context.Context {
	return context.WithValue(ctx, translatorCtxKey, tr)
}

// translatorFromCtx returns the translator of the request. Keys are
// returned untranslated if none was resolved.
func translatorFromCtx(ctx context.Context) i18n.Translator {
	tr, ok := ctx.Value(translatorCtxKey).(i18n.Translator)
	if !ok {
		return func(key string) string { return key }
	}
	return tr
}

// logRequests is a middleware that logs every request once it was handled.
func logRequests(srv *Server) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			srv.deps.Logger.Info("handled request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
