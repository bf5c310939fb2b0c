package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/farmstand/marketplace/internal/domain/entity"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("not found")

// UserPatch describes a partial update. Nil fields are left untouched in the
// stored record; non-nil fields are written as-is.
type UserPatch struct {
	Name        *string
	Email       *string
	Phone       *string
	Description *string
	FarmName    *string
	Location    *entity.Location
	ImageURL    *string
	Password    *string
	SocialLinks map[string]string // nil = untouched; non-nil replaces the whole sub-document
}

// IsEmpty reports whether the patch would write nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Description == nil &&
		p.FarmName == nil && p.Location == nil && p.ImageURL == nil && p.Password == nil &&
		p.SocialLinks == nil
}

// UserRepository defines the user-related document store operations.
type UserRepository interface {
	Insert(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, patch UserPatch) error
	TopFarmers(ctx context.Context, limit int64) ([]entity.User, error)
}
