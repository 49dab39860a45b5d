package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/barekit/adscope/pkg/archive/consts"
	"github.com/barekit/adscope/pkg/keyword"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jArchive struct {
	driver neo4j.DriverWithContext
	dbName string
}

// New creates a new Neo4jArchive adapter.
func New(uri, username, password, dbName string) (*Neo4jArchive, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	return &Neo4jArchive{
		driver: driver,
		dbName: dbName,
	}, nil
}

func (a *Neo4jArchive) Append(ctx context.Context, rec keyword.Record) error {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Create Keyword node if not exists, then attach a new Snapshot
		query := fmt.Sprintf(`
		MERGE (k:%s {%s: $term})
		CREATE (s:%s {
			%s: $searchVolume,
			%s: $competition,
			%s: $cpcLow,
			%s: $cpcHigh,
			%s: $currencyCode,
			%s: $retrievedAt
		})
		CREATE (k)-[:%s]->(s)
		RETURN s
		`, consts.LabelKeyword, consts.ColTerm, consts.LabelSnapshot,
			consts.ColSearchVolume, consts.ColCompetition, consts.ColCPCLow,
			consts.ColCPCHigh, consts.ColCurrencyCode, consts.ColRetrievedAt,
			consts.RelHasSnapshot)

		params := map[string]any{
			"term":         rec.Term,
			"searchVolume": rec.SearchVolume,
			"competition":  string(rec.Competition),
			"cpcLow":       rec.CPCLow,
			"cpcHigh":      rec.CPCHigh,
			"currencyCode": rec.CurrencyCode,
			"retrievedAt":  rec.RetrievedAt.Format(time.RFC3339Nano),
		}
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})

	return err
}

func (a *Neo4jArchive) History(ctx context.Context, term string) ([]keyword.Record, error) {
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: a.dbName})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
		MATCH (k:%s {%s: $term})-[:%s]->(s:%s)
		RETURN s.%s, s.%s, s.%s, s.%s, s.%s, s.%s
		ORDER BY s.%s ASC
		`, consts.LabelKeyword, consts.ColTerm, consts.RelHasSnapshot, consts.LabelSnapshot,
			consts.ColSearchVolume, consts.ColCompetition, consts.ColCPCLow,
			consts.ColCPCHigh, consts.ColCurrencyCode, consts.ColRetrievedAt,
			consts.ColRetrievedAt)

		result, err := tx.Run(ctx, query, map[string]any{"term": term})
		if err != nil {
			return nil, err
		}

		var records []keyword.Record
		for result.Next(ctx) {
			record := result.Record()

			searchVolume, _ := record.Get("s." + consts.ColSearchVolume)
			competition, _ := record.Get("s." + consts.ColCompetition)
			cpcLow, _ := record.Get("s." + consts.ColCPCLow)
			cpcHigh, _ := record.Get("s." + consts.ColCPCHigh)
			currencyCode, _ := record.Get("s." + consts.ColCurrencyCode)
			retrievedAt, _ := record.Get("s." + consts.ColRetrievedAt)

			rec := keyword.Record{
				Term:         term,
				SearchVolume: searchVolume.(int64),
				Competition:  keyword.Competition(competition.(string)),
				CPCLow:       cpcLow.(float64),
				CPCHigh:      cpcHigh.(float64),
				CurrencyCode: currencyCode.(string),
			}

			if ts, ok := retrievedAt.(string); ok && ts != "" {
				if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
					rec.RetrievedAt = t
				}
			}

			records = append(records, rec)
		}

		return records, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]keyword.Record), nil
}

func (a *Neo4jArchive) Close(ctx context.Context) error {
	return a.driver.Close(ctx)
}
