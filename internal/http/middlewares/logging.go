package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

// statusRecorder captura el status code y bytes escritos de la respuesta.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func recorderFor(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// WithEndpoint inyecta el nombre del endpoint para logs y labels de métricas.
func WithEndpoint(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxEndpointKey, name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLogging registra cada request usando el logger singleton con campos estructurados.
// También inyecta un logger "scoped" en el contexto con request_id, method, path.
// Los 5xx se loguean como error y los 4xx como warn.
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLog := logger.L().With(
				logger.RequestID(GetRequestID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			if ep := GetEndpoint(r.Context()); ep != "" {
				reqLog = reqLog.With(logger.String("endpoint", ep))
			}
			// Inyectar logger en contexto para uso en controllers/services
			ctx := logger.ToContext(r.Context(), reqLog)

			rec := recorderFor(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			fields := []logger.Field{
				logger.Status(rec.status),
				logger.Bytes(rec.bytes),
				logger.DurationMs(time.Since(start)),
			}
			switch {
			case rec.status >= 500:
				reqLog.Error("request failed", fields...)
			case rec.status >= 400:
				reqLog.Warn("request completed with client error", fields...)
			default:
				reqLog.Info("request completed", fields...)
			}
		})
	}
}

// WithMetrics registra http_requests_total y http_request_duration_seconds.
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := recorderFor(w)
			next.ServeHTTP(rec, r)

			ep := GetEndpoint(r.Context())
			if ep == "" {
				ep = "unknown"
			}
			metrics.RecordHTTP(r.Method, ep, rec.status, time.Since(start))
		})
	}
}

// Default es la cadena que envuelve a cada endpoint.
func Default(endpoint string) []Middleware {
	return []Middleware{
		WithRequestID(),
		WithNoStore(),
		WithEndpoint(endpoint),
		WithLogging(),
		WithMetrics(),
		WithRecover(),
	}
}
