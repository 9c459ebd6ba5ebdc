// Package mongo implements [store.Store] on MongoDB.
//
// Documents live in three collections of one database:
//
//   - stages   {worker, lastKeyword: {value, timestamp}}
//   - authors  {email, name, url, username, blog, location, publications: [{name, source}]}
//   - keywords {value, timestamp}
//
// [Store.EnsureIndexes] adds unique indexes on stages.worker, authors.email
// and keywords.value plus an ascending index on keywords.timestamp. With the
// unique indexes in place concurrent check-then-insert races surface as
// [store.ErrDuplicate] instead of duplicate documents.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store"
)

// Collection names.
const (
	CollectionStages   = "stages"
	CollectionAuthors  = "authors"
	CollectionKeywords = "keywords"
)

// Store is a MongoDB-backed store.Store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the connection with a ping and selects database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// EnsureIndexes creates the indexes the store relies on. It is idempotent.
// It fails if existing data already violates a uniqueness constraint.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	specs := map[string][]mongo.IndexModel{
		CollectionStages:  {unique("worker")},
		CollectionAuthors: {unique("email")},
		CollectionKeywords: {
			unique("value"),
			{Keys: bson.D{{Key: "timestamp", Value: 1}}},
		},
	}
	for name, models := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Authors() store.Authors {
	return authors{s.db.Collection(CollectionAuthors)}
}

func (s *Store) Keywords() store.Keywords {
	return keywords{s.db.Collection(CollectionKeywords)}
}

func (s *Store) Stages() store.Stages {
	return stages{s.db.Collection(CollectionStages)}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type authors struct{ c *mongo.Collection }

func (a authors) FindByEmail(ctx context.Context, email string) (*model.Author, error) {
	var out model.Author
	err := a.c.FindOne(ctx, bson.M{"email": email}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find author %s: %w", email, err)
	}
	return &out, nil
}

func (a authors) Insert(ctx context.Context, author *model.Author) error {
	if _, err := a.c.InsertOne(ctx, author); err != nil {
		return insertErr(err, "insert author %s", author.Email)
	}
	return nil
}

func (a authors) AppendPublication(ctx context.Context, email string, p model.Publication) error {
	update := bson.M{"$push": bson.M{"publications": p}}
	if _, err := a.c.UpdateOne(ctx, bson.M{"email": email}, update); err != nil {
		return fmt.Errorf("append publication to %s: %w", email, err)
	}
	return nil
}

func (a authors) Count(ctx context.Context) (int64, error) {
	return a.c.EstimatedDocumentCount(ctx)
}

type keywords struct{ c *mongo.Collection }

func (k keywords) Exists(ctx context.Context, value string) (bool, error) {
	err := k.c.FindOne(ctx, bson.M{"value": value}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find keyword %q: %w", value, err)
	}
	return true, nil
}

func (k keywords) Insert(ctx context.Context, kw model.Keyword) error {
	if _, err := k.c.InsertOne(ctx, kw); err != nil {
		return insertErr(err, "insert keyword %q", kw.Value)
	}
	return nil
}

func (k keywords) Since(ctx context.Context, ts int64, limit int) ([]model.Keyword, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := k.c.Find(ctx, bson.M{"timestamp": bson.M{"$gte": ts}}, opts)
	if err != nil {
		return nil, fmt.Errorf("query keywords since %d: %w", ts, err)
	}
	var out []model.Keyword
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	return out, nil
}

func (k keywords) Count(ctx context.Context) (int64, error) {
	return k.c.EstimatedDocumentCount(ctx)
}

type stages struct{ c *mongo.Collection }

func (s stages) Get(ctx context.Context, worker model.Source) (*model.Stage, error) {
	var out model.Stage
	err := s.c.FindOne(ctx, bson.M{"worker": worker}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find stage %s: %w", worker, err)
	}
	return &out, nil
}

func (s stages) Save(ctx context.Context, st model.Stage) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"worker": st.Worker},
		bson.M{"$set": bson.M{"lastKeyword": st.LastKeyword}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save stage %s: %w", st.Worker, err)
	}
	return nil
}

func (s stages) Delete(ctx context.Context, worker model.Source) error {
	if _, err := s.c.DeleteOne(ctx, bson.M{"worker": worker}); err != nil {
		return fmt.Errorf("delete stage %s: %w", worker, err)
	}
	return nil
}

func (s stages) List(ctx context.Context) ([]model.Stage, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "worker", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	var out []model.Stage
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode stages: %w", err)
	}
	return out, nil
}

func insertErr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", msg, store.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

var _ store.Store = (*Store)(nil)
