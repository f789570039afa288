package edits

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements the edit log on a MongoDB collection.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "documentId", Value: 1}, {Key: "timestamp", Value: 1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Append(ctx context.Context, rec *Record) error {
	_, err := m.col.InsertOne(ctx, rec)
	return err
}

func (m *MongoRepo) ListByDocument(ctx context.Context, documentID string) ([]*Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{"documentId": documentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Record{}
	for cur.Next(ctx) {
		var r Record
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, cur.Err()
}

func (m *MongoRepo) DeleteAllForDocument(ctx context.Context, documentID string) error {
	_, err := m.col.DeleteMany(ctx, bson.M{"documentId": documentID})
	return err
}
