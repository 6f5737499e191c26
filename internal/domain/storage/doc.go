// Package storage tracks configured storage locations, probes their
// health, and routes purpose-tagged requests to the best location.
//
// Components:
//   - Manager: registry CRUD, cached health statuses, periodic sweeps
//   - Prober: single-path existence/read/write check with a timeout
//   - Seeder: loads initial path entries from a YAML file on startup
//
// A path is classified healthy (readable and writable), degraded
// (readable only), or unavailable. Classification only changes as a
// result of a fresh probe: a synchronous one on add or path change, a
// manual CheckAll sweep, or the background timer.
//
// The selector reads cached statuses exclusively, so picking a path
// for a purpose stays fast even while a network share is hanging.
//
// Example Usage:
//
//	m := storage.NewManager(storage.Options{
//		Enabled:             true,
//		HealthCheckInterval: time.Minute,
//	}, logger)
//	m.Start()
//	defer m.Destroy()
//
//	m.AddPath(ctx, cfg)
//	if entry := m.SelectBestPath("backup"); entry != nil {
//		// write to entry.Path
//	}
package storage
