// Package scopedlog tags every log entry of a session with the identity of
// the acting user, without call sites passing that identity around.
//
// Key pieces
//   - ScopedLoggerFactory: one per owning scope (session, connection,
//     request). Resolves the principal once, shares a single in-flight
//     resolution between concurrent first callers and never caches a
//     failure.
//   - ScopedLogger: a Logger that wraps each Log call in a scope carrying
//     {username, aspNetId}. Code holding a plain Logger behaves the same
//     either way.
//   - Service: a thin, concurrency-safe wrapper over rs/zerolog with a
//     structured-first event API, file rotation via lumberjack and graceful
//     shutdown. Service.CreateLogger provides the category loggers that
//     scoped loggers decorate.
//   - SessionMiddleware and Component: wiring for HTTP handlers and UI
//     component initialization hooks.
//
// Typical usage
//
//	svc := scopedlog.NewService(wd, &cfg)
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//
//	factory, _ := scopedlog.NewScopedLoggerFactory(svc, scopedlog.ContextResolver{})
//	log, err := scopedlog.GetLogger[OrderPage](ctx, factory)
//	if err != nil { return err }
//	log.Info("order submitted")
package scopedlog
