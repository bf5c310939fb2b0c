package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a listing created by a farmer. There is no update or delete
// path for products in this surface.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Description string             `bson:"description" json:"description"`
	FarmerID    primitive.ObjectID `bson:"farmer_id" json:"farmer_id"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	IsOrganic   bool               `bson:"is_organic" json:"is_organic"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
