package keyword

import (
	"fmt"
	"time"
)

// Competition is the advertiser competition tier reported for a keyword.
type Competition string

const (
	CompetitionLow         Competition = "LOW"
	CompetitionMedium      Competition = "MEDIUM"
	CompetitionHigh        Competition = "HIGH"
	CompetitionUnspecified Competition = "UNSPECIFIED"
	CompetitionUnknown     Competition = "UNKNOWN"
)

// Record holds one keyword with its advertising metrics at the time it was
// fetched. Records are immutable values: a fresh fetch for the same term
// produces a new Record rather than modifying an old one.
type Record struct {
	Term         string      `json:"term"`
	SearchVolume int64       `json:"search_volume"`
	Competition  Competition `json:"competition"`
	CPCLow       float64     `json:"cpc_low"`
	CPCHigh      float64     `json:"cpc_high"`
	CurrencyCode string      `json:"currency_code"`
	RetrievedAt  time.Time   `json:"retrieved_at"`
}

// Description renders the canonical text representation used for embedding.
// The field order is fixed so identical records always embed identically.
func (r Record) Description() string {
	return fmt.Sprintf("Keyword: %s | Search Volume: %d | Competition: %s | CPC: $%.2f-$%.2f",
		r.Term, r.SearchVolume, r.Competition, r.CPCLow, r.CPCHigh)
}
