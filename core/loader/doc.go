// Package loader registers the features mounted on the admin server.
//
// Each feature implements Feature: a name, an enabled switch and a Load hook
// that registers its routes. The Manager loads enabled features in
// registration order.
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(orchestrator.NewFeature(svc, true))
//	if err := mgr.LoadAll(app); err != nil {
//	    logger.Fatal("Failed to load features", zap.Error(err))
//	}
package loader
