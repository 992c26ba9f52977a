// Package audit records administrative actions as structured entries on the
// "audit" child of the request logger.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

// Events.
const (
	EventUserCreate = "user.create"
	EventUserDelete = "user.delete"
)

// Log writes one audit entry at info level.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("event", event),
		zap.Time("ts", time.Now().UTC()),
	}
	logger.From(ctx).Named("audit").Info(event, append(base, fields...)...)
}
