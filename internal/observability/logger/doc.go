// Package logger provides a singleton zap logger with context-based scoping.
//
// Inicialización (una vez, en el CLI o en el cold start serverless):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// En controllers/services (con contexto, inyectado por WithLogging):
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Provision"))
//	log.Info("identity created", logger.UserID(id))
//
// Sin contexto (fallback a singleton):
//
//	logger.L().Info("server started")
package logger
