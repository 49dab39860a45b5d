package consts

const (
	// DefaultDBName is the default database name.
	DefaultDBName = "adscope"

	// TableNameKeywords is the default table/collection name for keyword
	// snapshots.
	TableNameKeywords = "keyword_snapshots"

	// Column names
	ColTerm         = "term"
	ColSearchVolume = "search_volume"
	ColCompetition  = "competition"
	ColCPCLow       = "cpc_low"
	ColCPCHigh      = "cpc_high"
	ColCurrencyCode = "currency_code"
	ColRetrievedAt  = "retrieved_at"

	// Neo4j specific
	LabelKeyword   = "Keyword"
	LabelSnapshot  = "Snapshot"
	RelHasSnapshot = "HAS_SNAPSHOT"
)
