package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/farmstand/marketplace/internal/domain/entity"
	"github.com/farmstand/marketplace/pkg/session"
)

func homeRouter(t *testing.T, store *memStore, products *memProductRepo, users *memUserRepo, sess session.Session) *gin.Engine {
	t.Helper()
	h := NewHomeHandler(testUserService(t, users), testProductService(t, products, users), store, quietLogger())
	r := gin.New()
	r.Use(withSession("sid-1", sess))
	r.GET("/", h.Index)
	r.GET("/dashboard", h.Dashboard)
	return r
}

func TestIndexListsFeaturedAndFarmers(t *testing.T) {
	store := newMemStore()
	products := newMemProductRepo()
	users := newMemUserRepo()
	require.NoError(t, users.Insert(context.Background(), &entity.User{Name: "Alice", UserType: entity.UserTypeFarmer}))
	require.NoError(t, products.Insert(context.Background(), &entity.Product{Name: "Honey"}))
	r := homeRouter(t, store, products, users, session.Session{})

	w := getPath(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Featured []entity.Product `json:"featured_products"`
			Farmers  []entity.User    `json:"top_farmers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Featured, 1)
	assert.Len(t, body.Data.Farmers, 1)
}

func TestDashboardBranchesOnRole(t *testing.T) {
	store := newMemStore()
	products := newMemProductRepo()
	users := newMemUserRepo()
	farmerID := primitive.NewObjectID()
	require.NoError(t, products.Insert(context.Background(), &entity.Product{Name: "Honey", FarmerID: farmerID}))

	t.Run("farmer sees own products", func(t *testing.T) {
		sess := session.Session{UserID: farmerID.Hex(), UserType: entity.UserTypeFarmer}
		r := homeRouter(t, store, products, users, sess)

		w := getPath(r, "/dashboard")
		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data map[string]json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body.Data, "products")
		assert.Contains(t, body.Data, "orders")

		var own []entity.Product
		require.NoError(t, json.Unmarshal(body.Data["products"], &own))
		assert.Len(t, own, 1)
	})

	t.Run("customer sees orders only", func(t *testing.T) {
		sess := session.Session{UserID: primitive.NewObjectID().Hex(), UserType: entity.UserTypeCustomer}
		r := homeRouter(t, store, products, users, sess)

		w := getPath(r, "/dashboard")
		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data map[string]json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body.Data, "orders")
		assert.NotContains(t, body.Data, "products")
	})
}
