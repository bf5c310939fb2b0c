package application

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/farmstand/marketplace/internal/domain/entity"
	repo "github.com/farmstand/marketplace/internal/domain/repository"
	"github.com/farmstand/marketplace/pkg/helpers"
	"github.com/farmstand/marketplace/pkg/mailer"
	"github.com/farmstand/marketplace/pkg/upload"
)

// ProductService implements the product listing, detail, creation, and
// search operations, plus the dashboard and index aggregations.
type ProductService struct {
	Products repo.ProductRepository
	Orders   repo.OrderRepository
	Users    repo.UserRepository
	Uploads  *upload.Saver
	Pub      *helpers.RabbitPublisher
	Logger   *logrus.Logger

	ES          *elasticsearch.Client
	ESIndex     string
	MailEnabled bool
}

func NewProductService(products repo.ProductRepository, orders repo.OrderRepository, users repo.UserRepository, uploads *upload.Saver, pub *helpers.RabbitPublisher, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, mailEnabled bool) *ProductService {
	return &ProductService{
		Products:    products,
		Orders:      orders,
		Users:       users,
		Uploads:     uploads,
		Pub:         pub,
		Logger:      logger,
		ES:          es,
		ESIndex:     esIndex,
		MailEnabled: mailEnabled,
	}
}

// List returns all products, narrowed by exact category match when category
// is non-empty.
func (s *ProductService) List(ctx context.Context, category string) ([]entity.Product, error) {
	return s.Products.FindAll(ctx, category)
}

// Detail looks up a product and its owning farmer. A malformed identifier is
// reported distinctly from an unknown one. A missing farmer record is not an
// error; the view renders without it.
func (s *ProductService) Detail(ctx context.Context, productID string) (*entity.Product, *entity.User, error) {
	id, err := parseID(productID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.Products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrProductNotFound
		}
		return nil, nil, err
	}
	farmer, err := s.Users.FindByID(ctx, p.FarmerID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, nil, err
		}
		farmer = nil
	}
	return p, farmer, nil
}

type CreateProductInput struct {
	Name        string
	Category    string
	Price       string // parsed as a float, must succeed
	Quantity    string // parsed as an int, must succeed
	Description string
	IsOrganic   bool
}

// Create validates and parses the fields, saves the mandatory image, and
// only then inserts the record.
func (s *ProductService) Create(ctx context.Context, farmerID string, in CreateProductInput, image *multipart.FileHeader) (*entity.Product, error) {
	fid, err := parseID(farmerID)
	if err != nil {
		return nil, err
	}
	price, perr := strconv.ParseFloat(in.Price, 64)
	quantity, qerr := strconv.Atoi(in.Quantity)
	if perr != nil || qerr != nil || price <= 0 || quantity < 0 {
		return nil, validationErr("Invalid price or quantity")
	}
	if image == nil || image.Filename == "" {
		return nil, validationErr("No file selected")
	}
	if !s.Uploads.AllowedFile(image.Filename) {
		return nil, validationErr("Allowed file types: png, jpg, jpeg, gif")
	}
	imageURL, err := s.Uploads.SaveProductImage(image)
	if err != nil {
		return nil, err
	}

	p := &entity.Product{
		Name:        in.Name,
		Category:    in.Category,
		Price:       price,
		Quantity:    quantity,
		Description: in.Description,
		FarmerID:    fid,
		ImageURL:    imageURL,
		IsOrganic:   in.IsOrganic,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Products.Insert(ctx, p); err != nil {
		return nil, err
	}

	_ = s.indexProduct(ctx, p)
	s.notifyListed(ctx, p)
	return p, nil
}

// FarmerDashboard returns the farmer's own products and the orders placed
// against them.
func (s *ProductService) FarmerDashboard(ctx context.Context, farmerID string) ([]entity.Product, []entity.Order, error) {
	id, err := parseID(farmerID)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.Products.FindByFarmer(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	orders, err := s.Orders.FindByFarmer(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return products, orders, nil
}

// CustomerOrders returns the orders placed by a customer.
func (s *ProductService) CustomerOrders(ctx context.Context, customerID string) ([]entity.Order, error) {
	id, err := parseID(customerID)
	if err != nil {
		return nil, err
	}
	return s.Orders.FindByCustomer(ctx, id)
}

func (s *ProductService) Featured(ctx context.Context, limit int64) ([]entity.Product, error) {
	return s.Products.Featured(ctx, limit)
}

func (s *ProductService) indexProduct(ctx context.Context, p *entity.Product) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          p.ID.Hex(),
		"name":        p.Name,
		"category":    p.Category,
		"price":       p.Price,
		"description": p.Description,
		"farmer_id":   p.FarmerID.Hex(),
		"is_organic":  p.IsOrganic,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID.Hex()).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID.Hex()).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match query over name, category, and description.
// Returns an empty result set when search is not configured.
func (s *ProductService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "category", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *ProductService) notifyListed(ctx context.Context, p *entity.Product) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	farmer, err := s.Users.FindByID(ctx, p.FarmerID)
	if err != nil || farmer == nil {
		return
	}
	job := mailer.NotifyJob{
		Kind: mailer.KindProductListed,
		To:   farmer.Email,
		Name: farmer.Name,
		Data: map[string]string{"product": p.Name, "category": p.Category},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("kind", job.Kind).Warn("notify publish failed")
	}
}
