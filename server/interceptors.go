package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/metrics"
	"github.com/patagonfinance/vault-service/utils"
)

// traceIDMiddleware stores the chi request id under the trace id key read by
// the storage and the logger.
func traceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := middleware.GetReqID(r.Context())
		if traceID == "" {
			traceID = utils.GenerateTraceID()
		}
		ctx := context.WithValue(r.Context(), utils.CtxTraceID, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogMiddleware logs every request with its status and process time.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(utils.TraceID, r.Context().Value(utils.CtxTraceID)).
			Infof("method[%v] path[%v] status[%v] bytes[%v] processTime[%v]",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(startTime).String())
	})
}

// requestMetricsMiddleware records the request metrics to prometheus, labelled
// by route pattern so path parameters do not explode the label set.
func requestMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		method := r.Method + " " + routePattern(r)
		isSuccess := ww.Status() < http.StatusBadRequest
		metrics.RecordRequest(method, isSuccess)
		metrics.RecordRequestLatency(method, time.Since(startTime), isSuccess)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// operatorAuth requires the bearer token when one is configured.
func operatorAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
				if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
					writeError(w, errUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func preflightHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Headers", "*")
	w.Header().Set("Access-Control-Allow-Methods", "*")
}

// allowCORS allows Cross Origin Resource Sharing from any origin.
func allowCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				preflightHandler(w, r)
				return
			}
		}
		h.ServeHTTP(w, r)
	})
}
