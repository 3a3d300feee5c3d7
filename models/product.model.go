package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a product in the catalog
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	CategoryName string             `bson:"category_name" json:"category_name"`
	Image        string             `bson:"image" json:"image"`
	Stock        int                `bson:"stock" json:"stock"`
	Rating       float64            `bson:"rating" json:"rating"`
	NumReviews   int                `bson:"num_reviews" json:"num_reviews"`
	Brand        string             `bson:"brand,omitempty" json:"brand,omitempty"`
}
