package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/barekit/adscope/pkg/keyword"
	"github.com/barekit/adscope/pkg/knowledge"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore implements knowledge.VectorStore using Qdrant. Unlike the flat
// store it has no snapshot files; durability is the server's concern.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

// New creates a new QdrantStore and ensures the collection exists.
func New(host string, port int, collectionName string, vectorSize uint64) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	store := &QdrantStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
	}

	if err := store.initCollection(context.Background()); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *QdrantStore) initCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}
	return nil
}

// Upsert appends keyword records as new points. Records are immutable, so
// every point gets a fresh ID instead of overwriting an old one.
func (s *QdrantStore) Upsert(ctx context.Context, vectors [][]float32, records []keyword.Record) error {
	if len(vectors) != len(records) {
		return fmt.Errorf("number of vectors and records must match")
	}

	points := make([]*qdrant.PointStruct, len(vectors))
	for i, rec := range records {
		payload := map[string]*qdrant.Value{
			"term":          qdrant.NewValueString(rec.Term),
			"search_volume": qdrant.NewValueInt(rec.SearchVolume),
			"competition":   qdrant.NewValueString(string(rec.Competition)),
			"cpc_low":       qdrant.NewValueDouble(rec.CPCLow),
			"cpc_high":      qdrant.NewValueDouble(rec.CPCHigh),
			"currency_code": qdrant.NewValueString(rec.CurrencyCode),
			"retrieved_at":  qdrant.NewValueString(rec.RetrievedAt.Format(time.RFC3339Nano)),
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.NewString()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: payload,
		}
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         points,
		Wait:           &wait,
	})
	return err
}

// Search queries the collection and maps hits back onto keyword records.
func (s *QdrantStore) Search(ctx context.Context, query []float32, limit int) ([]knowledge.Match, error) {
	limit64 := uint64(limit)
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit64,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	matches := make([]knowledge.Match, len(res))
	for i, hit := range res {
		rec := keyword.Record{
			Term:         hit.Payload["term"].GetStringValue(),
			SearchVolume: hit.Payload["search_volume"].GetIntegerValue(),
			Competition:  keyword.Competition(hit.Payload["competition"].GetStringValue()),
			CPCLow:       hit.Payload["cpc_low"].GetDoubleValue(),
			CPCHigh:      hit.Payload["cpc_high"].GetDoubleValue(),
			CurrencyCode: hit.Payload["currency_code"].GetStringValue(),
		}
		if ts := hit.Payload["retrieved_at"].GetStringValue(); ts != "" {
			if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
				rec.RetrievedAt = t
			}
		}

		matches[i] = knowledge.Match{
			Record: rec,
			Score:  hit.Score,
		}
	}

	return matches, nil
}
