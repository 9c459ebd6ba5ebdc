// Package sources adapts the registry clients in pkg/integrations to the
// [crawl.Source] interface.
//
// Each adapter maps one registry's search results onto crawl items: a
// publication name, the people credited for it and the keywords it carries.
//
//	src, err := sources.New(model.SourceNPM, cfg, c)
//	if err != nil {
//	    return err // CONFIG_ERROR: skip this worker
//	}
//	engine := crawl.New(src, st)
//
// Transport failures are returned as coded errors (NETWORK_ERROR,
// RATE_LIMITED, NOT_FOUND) so the engine can log and absorb them.
package sources
