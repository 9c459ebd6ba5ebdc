// Package integrations provides HTTP clients for the registries the
// harvester crawls.
//
// # Overview
//
// Each registry has its own subpackage:
//
//   - [npm]: npm registry search
//   - [github]: GitHub repository search and user profiles
//   - [packagist]: Packagist search and package manifests
//
// The subpackages speak the registry's wire format and nothing else. The
// adapters in pkg/sources turn their results into crawl items.
//
// # Shared Infrastructure
//
// [Client] is embedded by every registry client. It provides:
//
//   - JSON GET with default headers and a harvester User-Agent
//   - retry with exponential backoff for network errors, 5xx and 429
//   - request pacing through a token bucket ([Client.SetRateLimit])
//   - a response cache for enrichment lookups ([Client.Cached])
//   - HTTP and cache events reported to pkg/observability
//
// Errors are classified with the sentinels [ErrNotFound], [ErrNetwork]
// and [ErrRateLimited]; use errors.Is to test for them.
//
// [npm]: github.com/matzehuels/harvester/pkg/integrations/npm
// [github]: github.com/matzehuels/harvester/pkg/integrations/github
// [packagist]: github.com/matzehuels/harvester/pkg/integrations/packagist
package integrations
