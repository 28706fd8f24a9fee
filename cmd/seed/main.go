package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/andikasp/gocommerce/config"
	"github.com/andikasp/gocommerce/internal/domain/entity"
	"github.com/andikasp/gocommerce/internal/infrastructure/mongodb"
	"github.com/andikasp/gocommerce/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoConnTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	// Demo user
	email := "demo@example.com"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	now := time.Now().UTC()
	res, err := db.Collection(mongodb.UsersCollection).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$setOnInsert": bson.M{
				"name":         "demoUser",
				"email":        email,
				"password":     hash,
				"cart_data":    entity.CartData{},
				"cart_version": int64(0),
				"created_at":   now,
				"updated_at":   now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: email=%s password=%s (matched=%d upserted=%v)\n", email, password, res.MatchedCount, res.UpsertedID)

	// Starter catalog
	products := []entity.Product{
		{
			Name:        "Classic Crew Neck Tee",
			Description: "Lightweight cotton t-shirt for everyday wear.",
			Price:       19.99,
			Image:       []string{"https://storage.googleapis.com/" + cfg.GCSBucket + "/seed/tee.jpg"},
			Category:    "Men",
			SubCategory: "Topwear",
			Sizes:       []string{"S", "M", "L", "XL"},
			Bestseller:  true,
			Stock:       100,
			Date:        now,
		},
		{
			Name:        "Slim Fit Jeans",
			Description: "Stretch denim with a tapered leg.",
			Price:       49.99,
			Image:       []string{"https://storage.googleapis.com/" + cfg.GCSBucket + "/seed/jeans.jpg"},
			Category:    "Men",
			SubCategory: "Bottomwear",
			Sizes:       []string{"30", "32", "34"},
			Stock:       60,
			Date:        now,
		},
		{
			Name:        "Canvas Sneakers",
			Description: "Low-top sneakers with rubber sole.",
			Price:       39.99,
			Image:       []string{"https://storage.googleapis.com/" + cfg.GCSBucket + "/seed/sneakers.jpg"},
			Category:    "Women",
			SubCategory: "Footwear",
			Sizes:       []string{"36", "37", "38", "39"},
			Bestseller:  true,
			Stock:       40,
			Date:        now,
		},
	}
	for _, p := range products {
		r, err := db.Collection(mongodb.ProductsCollection).UpdateOne(ctx,
			bson.M{"name": p.Name},
			bson.M{"$setOnInsert": p},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Fatalf("failed to seed product %q: %v", p.Name, err)
		}
		fmt.Printf("seeded product: %s (matched=%d upserted=%v)\n", p.Name, r.MatchedCount, r.UpsertedID)
	}
}
