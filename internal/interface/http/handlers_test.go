package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/farmstand/marketplace/internal/application"
	"github.com/farmstand/marketplace/internal/domain/entity"
	repo "github.com/farmstand/marketplace/internal/domain/repository"
	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/pkg/session"
	"github.com/farmstand/marketplace/pkg/upload"
	"github.com/farmstand/marketplace/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	m.Run()
}

// memStore is an in-memory session.Store standing in for Redis.
type memStore struct {
	sessions map[string]session.Session
	flashes  map[string][]session.Flash
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]session.Session{}, flashes: map[string][]session.Flash{}}
}

func (m *memStore) Get(_ context.Context, sid string) (session.Session, error) {
	return m.sessions[sid], nil
}

func (m *memStore) Set(_ context.Context, sid string, s session.Session) error {
	m.sessions[sid] = s
	return nil
}

func (m *memStore) Clear(_ context.Context, sid string) error {
	delete(m.sessions, sid)
	delete(m.flashes, sid)
	return nil
}

func (m *memStore) AddFlash(_ context.Context, sid string, f session.Flash) error {
	m.flashes[sid] = append(m.flashes[sid], f)
	return nil
}

func (m *memStore) Flashes(_ context.Context, sid string) ([]session.Flash, error) {
	out := m.flashes[sid]
	delete(m.flashes, sid)
	return out, nil
}

var _ session.Store = (*memStore)(nil)

// withSession installs the request state the session middleware would set.
func withSession(sid string, sess session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxSessionID, sid)
		c.Set(middleware.CtxSession, sess)
		c.Next()
	}
}

type memUserRepo struct {
	users map[primitive.ObjectID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*entity.User{}}
}

func (m *memUserRepo) Insert(_ context.Context, u *entity.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) UpdateFields(_ context.Context, id primitive.ObjectID, patch repo.UserPatch) error {
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.ImageURL != nil {
		u.ImageURL = *patch.ImageURL
	}
	if patch.SocialLinks != nil {
		u.SocialLinks = patch.SocialLinks
	}
	return nil
}

func (m *memUserRepo) TopFarmers(_ context.Context, limit int64) ([]entity.User, error) {
	out := []entity.User{}
	for _, u := range m.users {
		if u.IsFarmer() && int64(len(out)) < limit {
			out = append(out, *u)
		}
	}
	return out, nil
}

var _ repo.UserRepository = (*memUserRepo)(nil)

type memProductRepo struct {
	products map[primitive.ObjectID]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[primitive.ObjectID]*entity.Product{}}
}

func (m *memProductRepo) Insert(_ context.Context, p *entity.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.products[p.ID] = p
	return nil
}

func (m *memProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProductRepo) FindAll(_ context.Context, category string) ([]entity.Product, error) {
	out := []entity.Product{}
	for _, p := range m.products {
		if category == "" || p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProductRepo) FindByFarmer(_ context.Context, farmerID primitive.ObjectID) ([]entity.Product, error) {
	out := []entity.Product{}
	for _, p := range m.products {
		if p.FarmerID == farmerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProductRepo) Featured(_ context.Context, limit int64) ([]entity.Product, error) {
	out := []entity.Product{}
	for _, p := range m.products {
		if int64(len(out)) >= limit {
			break
		}
		out = append(out, *p)
	}
	return out, nil
}

var _ repo.ProductRepository = (*memProductRepo)(nil)

type memOrderRepo struct{}

func (memOrderRepo) FindByFarmer(context.Context, primitive.ObjectID) ([]entity.Order, error) {
	return nil, nil
}

func (memOrderRepo) FindByCustomer(context.Context, primitive.ObjectID) ([]entity.Order, error) {
	return nil, nil
}

var _ repo.OrderRepository = memOrderRepo{}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testSaver(t *testing.T) *upload.Saver {
	t.Helper()
	allowed := map[string]struct{}{"png": {}, "jpg": {}, "jpeg": {}, "gif": {}}
	return upload.NewSaver(t.TempDir(), allowed)
}

func testUserService(t *testing.T, r repo.UserRepository) *application.UserService {
	t.Helper()
	return application.NewUserService(r, testSaver(t), nil, quietLogger(),
		t.TempDir(), "images/default_farmer.png", "images/default_profile.png", false)
}

func testProductService(t *testing.T, products repo.ProductRepository, users repo.UserRepository) *application.ProductService {
	t.Helper()
	return application.NewProductService(products, memOrderRepo{}, users,
		testSaver(t), nil, quietLogger(), nil, "", false)
}

// postForm issues an application/x-www-form-urlencoded POST.
func postForm(r *gin.Engine, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// postMultipart issues a multipart POST with optional file fields.
func postMultipart(t *testing.T, r *gin.Engine, path string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, filename := range files {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("imagedata"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
