package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Written only through admin operations;
// the storefront reads it as-is. Stock participates in checkout: it is
// decremented transactionally when an order is placed.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Image       []string           `bson:"image" json:"image"` // 1-4 image URLs
	Category    string             `bson:"category" json:"category"`
	SubCategory string             `bson:"sub_category" json:"subCategory"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Bestseller  bool               `bson:"bestseller" json:"bestseller"`
	Stock       int                `bson:"stock" json:"stock"`
	Rating      float64            `bson:"rating" json:"rating"`
	Reviews     int                `bson:"reviews" json:"reviews"`
	Date        time.Time          `bson:"date" json:"date"`
}
