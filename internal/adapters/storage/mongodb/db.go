package mongodb

import (
	"context"
	"fmt"
	"time"

	"pet-lost-found/internal/domain/pets"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const petsCollection = "pets"

// Connect abre el cliente y hace ping al primario.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes crea los índices 2dsphere de los campos con punto GeoJSON
// (requeridos por $near) y los de soporte para filtros y el pull masivo.
func EnsureIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: pointPaths[pets.FieldBase], Value: "2dsphere"}}},
		{Keys: bson.D{{Key: pointPaths[pets.FieldFoundAt], Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "ownerUserId", Value: 1}}},
		{Keys: bson.D{{Key: "species", Value: 1}, {Key: "isLost", Value: 1}, {Key: "isFound", Value: 1}}},
		{Keys: bson.D{{Key: "matchResults.petId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
	}
	names, err := db.Collection(petsCollection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return names, nil
}
