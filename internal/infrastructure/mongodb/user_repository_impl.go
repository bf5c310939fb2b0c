package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmstand/marketplace/internal/domain/entity"
	"github.com/farmstand/marketplace/internal/domain/repository"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

// Insert writes a new user and fills in the store-assigned identifier.
// Farmer records always carry farm_name and location, even when empty;
// customer records omit both.
func (r *UserRepository) Insert(ctx context.Context, u *entity.User) error {
	doc := bson.M{
		"name":       u.Name,
		"email":      u.Email,
		"password":   u.Password,
		"user_type":  u.UserType,
		"image_url":  u.ImageURL,
		"created_at": u.CreatedAt,
	}
	if u.UserType == entity.UserTypeFarmer {
		doc["farm_name"] = u.FarmName
		loc := entity.Location{}
		if u.Location != nil {
			loc = *u.Location
		}
		doc["location"] = loc
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	u := &entity.User{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail matches the email exactly, no normalization.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateFields applies a $set with only the fields present in the patch.
func (r *UserRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, patch repository.UserPatch) error {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.FarmName != nil {
		set["farm_name"] = *patch.FarmName
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.ImageURL != nil {
		set["image_url"] = *patch.ImageURL
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	if patch.SocialLinks != nil {
		set["social_links"] = patch.SocialLinks
	}
	if len(set) == 0 {
		return nil
	}
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) TopFarmers(ctx context.Context, limit int64) ([]entity.User, error) {
	opts := options.Find().SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"user_type": entity.UserTypeFarmer}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	farmers := []entity.User{}
	if err := cur.All(ctx, &farmers); err != nil {
		return nil, err
	}
	return farmers, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
