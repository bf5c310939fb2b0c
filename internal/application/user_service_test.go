package application

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/farmstand/marketplace/internal/domain/entity"
	repo "github.com/farmstand/marketplace/internal/domain/repository"
	"github.com/farmstand/marketplace/pkg/helpers"
	"github.com/farmstand/marketplace/pkg/upload"
)

type fakeUserRepo struct {
	users   map[primitive.ObjectID]*entity.User
	patches []repo.UserPatch
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*entity.User{}}
}

func (f *fakeUserRepo) Insert(_ context.Context, u *entity.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) UpdateFields(_ context.Context, id primitive.ObjectID, patch repo.UserPatch) error {
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	f.patches = append(f.patches, patch)
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Description != nil {
		u.Description = *patch.Description
	}
	if patch.FarmName != nil {
		u.FarmName = *patch.FarmName
	}
	if patch.Location != nil {
		loc := *patch.Location
		u.Location = &loc
	}
	if patch.ImageURL != nil {
		u.ImageURL = *patch.ImageURL
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.SocialLinks != nil {
		u.SocialLinks = patch.SocialLinks
	}
	return nil
}

func (f *fakeUserRepo) TopFarmers(_ context.Context, limit int64) ([]entity.User, error) {
	out := []entity.User{}
	for _, u := range f.users {
		if u.IsFarmer() && int64(len(out)) < limit {
			out = append(out, *u)
		}
	}
	return out, nil
}

var _ repo.UserRepository = (*fakeUserRepo)(nil)

func pictureHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("profile_image", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte("imagedata"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["profile_image"][0]
}

func newUserService(t *testing.T, r repo.UserRepository) *UserService {
	t.Helper()
	allowed := map[string]struct{}{"png": {}, "jpg": {}, "jpeg": {}, "gif": {}}
	static := t.TempDir()
	return NewUserService(
		r,
		upload.NewSaver(static+"/uploads", allowed),
		nil, nil,
		static,
		"images/default_farmer.png",
		"images/default_profile.png",
		false,
	)
}

func TestRegisterFarmer(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)

	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice Greene",
		Email:    "alice@example.com",
		Password: "secret123",
		UserType: entity.UserTypeFarmer,
		FarmName: "Greene Acres",
		Address:  "1 Farm Rd",
		City:     "Salem",
		State:    "OR",
		Zipcode:  "97301",
	}, pictureHeader(t, "alice.png"))
	require.NoError(t, err)

	assert.False(t, u.ID.IsZero())
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "secret123"))
	assert.True(t, strings.HasPrefix(u.ImageURL, "uploads/user_"), "got %q", u.ImageURL)
	require.NotNil(t, u.Location)
	assert.Equal(t, "Salem", u.Location.City)
	assert.Equal(t, "Greene Acres", u.FarmName)
	assert.Len(t, r.users, 1)
}

func TestRegisterCustomerSkipsFarmFields(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)

	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "pw",
		UserType: entity.UserTypeCustomer,
		FarmName: "should be ignored",
	}, pictureHeader(t, "bob.jpg"))
	require.NoError(t, err)

	assert.Empty(t, u.FarmName)
	assert.Nil(t, u.Location)
}

func TestRegisterRequiresPicture(t *testing.T) {
	svc := newUserService(t, newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{Name: "x"}, nil)
	assert.Equal(t, "Profile picture is required", ValidationMessage(err))
}

func TestRegisterRejectsBadExtension(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "x"}, pictureHeader(t, "resume.pdf"))
	assert.Equal(t, "Only JPG, PNG files are allowed", ValidationMessage(err))
	assert.Empty(t, r.users, "rejected registration must not insert")
}

func TestAuthenticate(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)
	hash, err := helpers.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, r.Insert(context.Background(), &entity.User{
		Name: "Alice", Email: "alice@example.com", Password: hash, UserType: entity.UserTypeFarmer,
	}))

	u, err := svc.Authenticate(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	_, err = svc.Authenticate(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email and wrong password are indistinguishable")
}

func TestProfileAppliesViewDefaults(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)
	u := &entity.User{
		Name: "Alice", Email: "alice@example.com", UserType: entity.UserTypeFarmer,
		ImageURL: "uploads/user_20240101000000.png", // never written to disk
	}
	require.NoError(t, r.Insert(context.Background(), u))

	got, err := svc.Profile(context.Background(), u.ID.Hex())
	require.NoError(t, err)

	assert.NotNil(t, got.Location)
	assert.NotNil(t, got.SocialLinks)
	assert.Equal(t, "images/default_farmer.png", got.ImageURL, "missing file falls back to the role default")
}

func TestProfileUnknownUser(t *testing.T) {
	svc := newUserService(t, newFakeUserRepo())

	_, err := svc.Profile(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Profile(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileSkipsEmptyFields(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)
	u := &entity.User{Name: "Alice", Email: "alice@example.com", Phone: "555-0100", UserType: entity.UserTypeFarmer}
	require.NoError(t, r.Insert(context.Background(), u))

	err := svc.UpdateProfile(context.Background(), u.ID.Hex(), true, UpdateProfileInput{
		Description: "Organic produce",
		City:        "Portland",
	})
	require.NoError(t, err)

	stored := r.users[u.ID]
	assert.Equal(t, "Alice", stored.Name, "empty name input must not clear the stored name")
	assert.Equal(t, "555-0100", stored.Phone)
	assert.Equal(t, "Organic produce", stored.Description)
	require.NotNil(t, stored.Location)
	assert.Equal(t, "Portland", stored.Location.City)

	require.Len(t, r.patches, 1)
	assert.Nil(t, r.patches[0].Name)
	assert.Nil(t, r.patches[0].Email)
}

func TestUpdateProfileAllEmptyWritesNothing(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)
	u := &entity.User{Name: "Alice", UserType: entity.UserTypeCustomer}
	require.NoError(t, r.Insert(context.Background(), u))

	require.NoError(t, svc.UpdateProfile(context.Background(), u.ID.Hex(), false, UpdateProfileInput{}))
	assert.Empty(t, r.patches)
}

func TestUpdateSocialLinksDropsEmptyValues(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)
	u := &entity.User{Name: "Alice", SocialLinks: map[string]string{"facebook": "old"}}
	require.NoError(t, r.Insert(context.Background(), u))

	err := svc.UpdateSocialLinks(context.Background(), u.ID.Hex(), map[string]string{
		"facebook":  "",
		"instagram": "https://instagram.com/greeneacres",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"instagram": "https://instagram.com/greeneacres"}, r.users[u.ID].SocialLinks,
		"the whole sub-document is replaced and empty values dropped")
}

func TestUpdateProfilePicture(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)
	u := &entity.User{Name: "Alice", ImageURL: "uploads/old.png"}
	require.NoError(t, r.Insert(context.Background(), u))

	imageURL, err := svc.UpdateProfilePicture(context.Background(), u.ID.Hex(), pictureHeader(t, "new.jpg"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(imageURL, "uploads/profile_"+u.ID.Hex()+"_"),
		"path embeds the owner id: %s", imageURL)
	assert.True(t, strings.HasSuffix(imageURL, ".jpg"))
	assert.Equal(t, imageURL, r.users[u.ID].ImageURL)

	require.Len(t, r.patches, 1)
	require.NotNil(t, r.patches[0].ImageURL, "only the image field is patched")
	assert.Nil(t, r.patches[0].Name)
	assert.Nil(t, r.patches[0].Password)
}

func TestUpdateProfilePictureRejections(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)
	u := &entity.User{Name: "Alice"}
	require.NoError(t, r.Insert(context.Background(), u))

	_, err := svc.UpdateProfilePicture(context.Background(), u.ID.Hex(), nil)
	assert.Equal(t, "No file selected", ValidationMessage(err))

	_, err = svc.UpdateProfilePicture(context.Background(), u.ID.Hex(), pictureHeader(t, "notes.txt"))
	assert.Equal(t, "Allowed file types: png, jpg, jpeg, gif", ValidationMessage(err))

	_, err = svc.UpdateProfilePicture(context.Background(), primitive.NewObjectID().Hex(), pictureHeader(t, "new.jpg"))
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.Empty(t, r.patches)
}

func TestChangePassword(t *testing.T) {
	r := newFakeUserRepo()
	svc := newUserService(t, r)
	hash, err := helpers.HashPassword("oldpw")
	require.NoError(t, err)
	u := &entity.User{Name: "Alice", Password: hash}
	require.NoError(t, r.Insert(context.Background(), u))

	t.Run("mismatched confirmation", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), u.ID.Hex(), "oldpw", "newpw", "different")
		assert.Equal(t, "New passwords do not match", ValidationMessage(err))
		assert.Equal(t, hash, r.users[u.ID].Password, "hash must be untouched")
	})

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), u.ID.Hex(), "wrong", "newpw", "newpw")
		assert.Equal(t, "Current password is incorrect", ValidationMessage(err))
		assert.Equal(t, hash, r.users[u.ID].Password)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(context.Background(), u.ID.Hex(), "oldpw", "newpw", "newpw"))
		assert.True(t, helpers.CompareHashAndPassword(r.users[u.ID].Password, "newpw"))
	})
}
