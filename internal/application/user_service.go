package application

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/farmstand/marketplace/internal/domain/entity"
	repo "github.com/farmstand/marketplace/internal/domain/repository"
	"github.com/farmstand/marketplace/pkg/helpers"
	"github.com/farmstand/marketplace/pkg/mailer"
	"github.com/farmstand/marketplace/pkg/upload"
)

// UserService implements account registration, authentication, and the
// profile operations. Every write against the users collection goes
// through here.
type UserService struct {
	Repo    repo.UserRepository
	Uploads *upload.Saver
	Pub     *helpers.RabbitPublisher
	Logger  *logrus.Logger

	StaticDir         string
	DefaultFarmerImg  string
	DefaultProfileImg string
	MailEnabled       bool
}

func NewUserService(r repo.UserRepository, uploads *upload.Saver, pub *helpers.RabbitPublisher, logger *logrus.Logger, staticDir, defaultFarmerImg, defaultProfileImg string, mailEnabled bool) *UserService {
	return &UserService{
		Repo:              r,
		Uploads:           uploads,
		Pub:               pub,
		Logger:            logger,
		StaticDir:         staticDir,
		DefaultFarmerImg:  defaultFarmerImg,
		DefaultProfileImg: defaultProfileImg,
		MailEnabled:       mailEnabled,
	}
}

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	UserType string
	// Farmer-only fields, ignored for customers.
	FarmName string
	Address  string
	City     string
	State    string
	Zipcode  string
}

// Register creates an account. The profile picture is mandatory and is
// validated and written before the record is assembled; the insert is the
// final step, so no partial record survives an upstream failure.
func (s *UserService) Register(ctx context.Context, in RegisterInput, picture *multipart.FileHeader) (*entity.User, error) {
	if picture == nil || picture.Filename == "" {
		return nil, validationErr("Profile picture is required")
	}
	if !s.Uploads.AllowedFile(picture.Filename) {
		return nil, validationErr("Only JPG, PNG files are allowed")
	}
	imageURL, err := s.Uploads.SaveUserImage(picture)
	if err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  hash,
		UserType:  in.UserType,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}
	if in.UserType == entity.UserTypeFarmer {
		u.FarmName = in.FarmName
		u.Location = &entity.Location{
			Address: in.Address,
			City:    in.City,
			State:   in.State,
			Zipcode: in.Zipcode,
		}
	}
	if err := s.Repo.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.notify(ctx, mailer.NotifyJob{Kind: mailer.KindWelcome, To: u.Email, Name: u.Name})
	return u, nil
}

// Authenticate validates email/password. The same error covers an unknown
// email and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Profile returns the user with view defaults applied: empty sub-documents
// filled in, and a role-based placeholder substituted when the stored image
// is missing from disk.
func (s *UserService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if u.Location == nil {
		u.Location = &entity.Location{}
	}
	if u.SocialLinks == nil {
		u.SocialLinks = map[string]string{}
	}
	u.ImageURL = s.resolveImage(u.ImageURL, u.UserType)
	return u, nil
}

// resolveImage substitutes the role default when the stored path is empty or
// the file no longer exists under the static root.
func (s *UserService) resolveImage(imageURL, userType string) string {
	def := s.DefaultProfileImg
	if userType == entity.UserTypeFarmer {
		def = s.DefaultFarmerImg
	}
	if imageURL == "" {
		return def
	}
	if _, err := os.Stat(filepath.Join(s.StaticDir, filepath.FromSlash(imageURL))); err != nil {
		return def
	}
	return imageURL
}

type UpdateProfileInput struct {
	Name        string
	Email       string
	Phone       string
	Description string
	// Farmer-only fields.
	FarmName string
	Address  string
	City     string
	State    string
	Zipcode  string
}

// UpdateProfile writes only the provided fields; empty inputs leave the
// stored values untouched. For farmers, any provided location field rewrites
// the whole location sub-document.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, isFarmer bool, in UpdateProfileInput) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	patch := repo.UserPatch{}
	if in.Name != "" {
		patch.Name = &in.Name
	}
	if in.Email != "" {
		patch.Email = &in.Email
	}
	if in.Phone != "" {
		patch.Phone = &in.Phone
	}
	if in.Description != "" {
		patch.Description = &in.Description
	}
	if isFarmer {
		if in.FarmName != "" {
			patch.FarmName = &in.FarmName
		}
		if in.Address != "" || in.City != "" || in.State != "" || in.Zipcode != "" {
			patch.Location = &entity.Location{
				Address: in.Address,
				City:    in.City,
				State:   in.State,
				Zipcode: in.Zipcode,
			}
		}
	}
	if patch.IsEmpty() {
		return nil
	}
	if err := s.Repo.UpdateFields(ctx, id, patch); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UpdateProfilePicture saves the new image and points the record at it.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID string, picture *multipart.FileHeader) (string, error) {
	id, err := parseID(userID)
	if err != nil {
		return "", err
	}
	if picture == nil || picture.Filename == "" {
		return "", validationErr("No file selected")
	}
	if !s.Uploads.AllowedFile(picture.Filename) {
		return "", validationErr("Allowed file types: png, jpg, jpeg, gif")
	}
	imageURL, err := s.Uploads.SaveProfileImage(picture, userID)
	if err != nil {
		return "", err
	}
	if err := s.Repo.UpdateFields(ctx, id, repo.UserPatch{ImageURL: &imageURL}); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return imageURL, nil
}

// UpdateSocialLinks replaces the social_links sub-document with the provided
// links, dropping empty values.
func (s *UserService) UpdateSocialLinks(ctx context.Context, userID string, links map[string]string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	cleaned := make(map[string]string, len(links))
	for k, v := range links {
		if v != "" {
			cleaned[k] = v
		}
	}
	if err := s.Repo.UpdateFields(ctx, id, repo.UserPatch{SocialLinks: cleaned}); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// ChangePassword re-verifies the current password and requires both new
// password fields to match before anything is written.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, newPwd, confirm string) error {
	id, err := parseID(userID)
	if err != nil {
		return err
	}
	if newPwd != confirm {
		return validationErr("New passwords do not match")
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil || u == nil {
		return validationErr("Current password is incorrect")
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return validationErr("Current password is incorrect")
	}
	hash, err := helpers.HashPassword(newPwd)
	if err != nil {
		return err
	}
	return s.Repo.UpdateFields(ctx, id, repo.UserPatch{Password: &hash})
}

func (s *UserService) TopFarmers(ctx context.Context, limit int64) ([]entity.User, error) {
	return s.Repo.TopFarmers(ctx, limit)
}

// notify enqueues a notification job when the publisher is configured.
// Failures are logged and never surfaced to the caller.
func (s *UserService) notify(ctx context.Context, job mailer.NotifyJob) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("kind", job.Kind).Warn("notify publish failed")
	}
}
