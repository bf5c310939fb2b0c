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

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(ProductsCollection)}
}

func (r *ProductRepository) Insert(ctx context.Context, p *entity.Product) error {
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error) {
	p := &entity.Product{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) FindAll(ctx context.Context, category string) ([]entity.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return r.find(ctx, filter, nil)
}

func (r *ProductRepository) FindByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]entity.Product, error) {
	return r.find(ctx, bson.M{"farmer_id": farmerID}, nil)
}

func (r *ProductRepository) Featured(ctx context.Context, limit int64) ([]entity.Product, error) {
	return r.find(ctx, bson.M{}, options.Find().SetLimit(limit))
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entity.Product, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.coll.Find(ctx, filter, opts)
	} else {
		cur, err = r.coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	products := []entity.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
