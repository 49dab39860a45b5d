package mongo

import (
	"context"
	"time"

	"github.com/barekit/adscope/pkg/archive/consts"
	"github.com/barekit/adscope/pkg/keyword"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type SnapshotDoc struct {
	Term         string    `bson:"term"`
	SearchVolume int64     `bson:"search_volume"`
	Competition  string    `bson:"competition"`
	CPCLow       float64   `bson:"cpc_low"`
	CPCHigh      float64   `bson:"cpc_high"`
	CurrencyCode string    `bson:"currency_code"`
	RetrievedAt  time.Time `bson:"retrieved_at"`
}

// New creates a new MongoArchive adapter.
func New(client *mongo.Client, dbName, collectionName string) *MongoArchive {
	return &MongoArchive{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
	}
}

func (a *MongoArchive) Append(ctx context.Context, rec keyword.Record) error {
	doc := SnapshotDoc{
		Term:         rec.Term,
		SearchVolume: rec.SearchVolume,
		Competition:  string(rec.Competition),
		CPCLow:       rec.CPCLow,
		CPCHigh:      rec.CPCHigh,
		CurrencyCode: rec.CurrencyCode,
		RetrievedAt:  rec.RetrievedAt,
	}

	_, err := a.collection.InsertOne(ctx, doc)
	return err
}

func (a *MongoArchive) History(ctx context.Context, term string) ([]keyword.Record, error) {
	filter := bson.M{consts.ColTerm: term}
	opts := options.Find().SetSort(bson.M{consts.ColRetrievedAt: 1})

	cursor, err := a.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []keyword.Record
	for cursor.Next(ctx) {
		var doc SnapshotDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		records = append(records, keyword.Record{
			Term:         doc.Term,
			SearchVolume: doc.SearchVolume,
			Competition:  keyword.Competition(doc.Competition),
			CPCLow:       doc.CPCLow,
			CPCHigh:      doc.CPCHigh,
			CurrencyCode: doc.CurrencyCode,
			RetrievedAt:  doc.RetrievedAt,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
