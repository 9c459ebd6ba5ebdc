// Package model defines the documents persisted by the harvester.
//
// # Collections
//
// Three logical collections hold all durable state:
//
//   - keywords: [Keyword] values discovered in registry results, ordered by
//     discovery timestamp. The keyword pool is shared by every source.
//   - authors: [Author] records keyed by email, each carrying the
//     [Publication] entries it was seen on.
//   - stages: one [Stage] per [Source], the checkpoint a worker resumes from.
//
// The types carry both bson and json tags so the same values flow through
// the MongoDB store, the status endpoints and the CLI.
package model
