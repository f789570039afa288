package users

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository using MongoDB.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepo) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"name": p.Name, "email": p.Email, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated Profile
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, update, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return p, nil
		}
		return nil, err
	}
	return &updated, nil
}
