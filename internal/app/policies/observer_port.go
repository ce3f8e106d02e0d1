package policies

// RankingObserver records how large the related-villa candidate pools are.
type RankingObserver interface {
	ObserveCandidates(pool int)
}

// ViewObserver counts applied view events per kind.
type ViewObserver interface {
	ViewApplied(kind string)
}
