package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order records a purchase between a customer and a farmer. Orders are
// written by an external collaborator; this service only reads them for
// dashboards.
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID  primitive.ObjectID `bson:"product_id,omitempty" json:"product_id"`
	FarmerID   primitive.ObjectID `bson:"farmer_id" json:"farmer_id"`
	CustomerID primitive.ObjectID `bson:"customer_id" json:"customer_id"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Total      float64            `bson:"total" json:"total"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
