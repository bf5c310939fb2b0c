package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/farmstand/marketplace/config"
	"github.com/farmstand/marketplace/internal/domain/entity"
	"github.com/farmstand/marketplace/internal/infrastructure/mongodb"
	"github.com/farmstand/marketplace/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoMaxPool, cfg.MongoTimeout, cfg.MongoQueryTime)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = mongodb.Disconnect(context.Background(), db) }()

	users := mongodb.NewUserRepository(db)
	products := mongodb.NewProductRepository(db)

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	farmer := &entity.User{
		Name:     "Green Valley Farm",
		Email:    "farmer@example.com",
		Password: hash,
		UserType: entity.UserTypeFarmer,
		FarmName: "Green Valley Farm",
		Location: &entity.Location{
			Address: "12 Orchard Lane",
			City:    "Salem",
			State:   "OR",
			Zipcode: "97301",
		},
		ImageURL:  cfg.DefaultImageFor(entity.UserTypeFarmer),
		CreatedAt: time.Now().UTC(),
	}
	if existing, err := users.FindByEmail(ctx, farmer.Email); err == nil {
		farmer = existing
		fmt.Printf("farmer already present: id=%s\n", farmer.ID.Hex())
	} else {
		if err := users.Insert(ctx, farmer); err != nil {
			log.Fatalf("failed to seed farmer: %v", err)
		}
		fmt.Printf("seeded farmer: id=%s email=%s password=%s\n", farmer.ID.Hex(), farmer.Email, password)
	}

	customer := &entity.User{
		Name:      "Demo Customer",
		Email:     "customer@example.com",
		Password:  hash,
		UserType:  entity.UserTypeCustomer,
		ImageURL:  cfg.DefaultImageFor(entity.UserTypeCustomer),
		CreatedAt: time.Now().UTC(),
	}
	if existing, err := users.FindByEmail(ctx, customer.Email); err == nil {
		customer = existing
		fmt.Printf("customer already present: id=%s\n", customer.ID.Hex())
	} else {
		if err := users.Insert(ctx, customer); err != nil {
			log.Fatalf("failed to seed customer: %v", err)
		}
		fmt.Printf("seeded customer: id=%s email=%s password=%s\n", customer.ID.Hex(), customer.Email, password)
	}

	demo := []*entity.Product{
		{
			Name:        "Heirloom Tomatoes",
			Category:    "vegetables",
			Price:       4.50,
			Quantity:    40,
			Description: "Vine-ripened heirloom tomatoes picked this week.",
			IsOrganic:   true,
		},
		{
			Name:        "Raw Wildflower Honey",
			Category:    "pantry",
			Price:       9.00,
			Quantity:    15,
			Description: "Unfiltered honey from hives at the edge of the orchard.",
		},
		{
			Name:        "Fresh Eggs (dozen)",
			Category:    "dairy",
			Price:       6.25,
			Quantity:    25,
			Description: "Pasture-raised, collected daily.",
			IsOrganic:   true,
		},
	}
	for _, p := range demo {
		p.FarmerID = farmer.ID
		p.ImageURL = cfg.DefaultImageFor(entity.UserTypeFarmer)
		p.CreatedAt = time.Now().UTC()
		if err := products.Insert(ctx, p); err != nil {
			log.Fatalf("failed to seed product %q: %v", p.Name, err)
		}
		fmt.Printf("seeded product: id=%s name=%s\n", p.ID.Hex(), p.Name)
	}
}
