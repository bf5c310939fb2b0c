package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types stored in the user_type field.
const (
	UserTypeFarmer   = "farmer"
	UserTypeCustomer = "customer"
)

// Location is the address sub-document carried by farmer accounts.
type Location struct {
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Zipcode string `bson:"zipcode" json:"zipcode"`
}

// User is the aggregate root for accounts, both farmers and customers.
// Password always holds a bcrypt hash, never plaintext.
//
// Email is unique by convention only; the store does not enforce it.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	UserType    string             `bson:"user_type" json:"user_type"`
	FarmName    string             `bson:"farm_name,omitempty" json:"farm_name,omitempty"`
	Location    *Location          `bson:"location,omitempty" json:"location,omitempty"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	SocialLinks map[string]string  `bson:"social_links,omitempty" json:"social_links,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

func (u *User) IsFarmer() bool { return u.UserType == UserTypeFarmer }
