// Package crawl implements the resumable keyword-expansion crawl.
//
// One [Engine] drives one registry. It starts from the registry's seed
// keyword, or from the keyword recorded in the registry's stage checkpoint,
// and runs rounds until the shared keyword pool has nothing left to offer:
//
//	BOOTSTRAP -> ROUND(batch) -> ROUND(next batch) | done
//
// A round searches every keyword of the batch, records a checkpoint for
// each keyword that produced results, reconciles the people attached to
// each result into the author collection and feeds the result's tags back
// into the keyword pool through a [KeywordSink]. The next batch is the
// keywords stamped at or after the last keyword of the current batch, so
// that keyword is searched again at the start of every round.
//
// # Sources
//
// Registries plug in through [Source]. A source searches one query and
// returns a [Page] of hits; hits that need a second request to become a
// full [Item] are resolved through the optional [Enricher]. Sources whose
// [Profile] sets Paginates are walked page by page by a [Walker].
//
// # Failure handling
//
// Search and enrichment failures are logged and count as empty results.
// Store failures while processing an item are logged and the item is
// skipped. Only a store failure while bootstrapping or while selecting the
// next batch ends the run with an error.
package crawl
