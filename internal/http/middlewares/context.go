package middlewares

import "context"

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxEndpointKey  ctxKey = "endpoint"
)

func setRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, id)
}

// GetRequestID retorna el ID inyectado por WithRequestID, o "".
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}

// GetEndpoint retorna el nombre del endpoint inyectado por WithEndpoint, o "".
func GetEndpoint(ctx context.Context) string {
	s, _ := ctx.Value(ctxEndpointKey).(string)
	return s
}
