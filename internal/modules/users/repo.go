package users

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("user not found")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Get(ctx context.Context, id string) (User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// Exists is what the auth middleware needs: tokens for deleted accounts must
// stop working even before they expire.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *Repo) Contact(ctx context.Context, id string) (Contact, error) {
	u, err := r.Get(ctx, id)
	if err != nil {
		return Contact{}, err
	}
	c := Contact{Email: u.Email}
	if u.PhoneNumber != nil {
		c.PhoneNumber = *u.PhoneNumber
	}
	return c, nil
}
