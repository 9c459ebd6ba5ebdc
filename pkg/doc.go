// Package pkg provides the libraries of the harvester, a crawler that
// collects package authors from public registries.
//
// # Overview
//
// The harvester expands a keyword pool: each keyword is searched on a
// registry, every credited person with an email becomes an author, and the
// keywords of every result are added back to the pool. Each registry keeps
// its own checkpoint so a restarted worker resumes where it stopped.
//
//  1. [crawl] - The engine: rounds, batch selection, checkpoints, reconciliation
//  2. [sources] - Registry adapters feeding the engine
//  3. [integrations] - HTTP clients for npm, GitHub and Packagist
//  4. [store] - Persistence of stages, authors and keywords
//  5. [config] - Process configuration
//
// # Data Flow
//
//	keyword pool ([store.Keywords])
//	         ↓
//	    [crawl.Engine] round
//	         ↓
//	    [sources] search + enrichment
//	         ↓
//	authors ([store.Authors]) and new keywords
//
// Supporting packages: [cache] for enrichment responses, [httputil] for
// retries, [observability] hooks with a [metrics] implementation, [errors]
// for coded failures and [buildinfo] for version data.
package pkg
