// Package related ranks villas similar to the one being viewed.
//
// The pipeline is filter, score, stable sort, truncate. The content store
// pre-filters with CandidateQuery; Filter re-applies the same bounds so the
// ranking does not depend on how strictly a store honours the query.
package related
