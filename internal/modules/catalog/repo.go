package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("catalog entry not found")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) GetPackage(ctx context.Context, id string) (Package, error) {
	var p Package
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Package{}, ErrNotFound
		}
		return Package{}, err
	}
	return p, nil
}

func (r *Repo) ListPackages(ctx context.Context) ([]Package, error) {
	var out []Package
	err := r.db.WithContext(ctx).Order("price ASC").Find(&out).Error
	return out, err
}

func (r *Repo) GetMechanic(ctx context.Context, id string) (Mechanic, error) {
	var m Mechanic
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Mechanic{}, ErrNotFound
		}
		return Mechanic{}, err
	}
	return m, nil
}

func (r *Repo) ListMechanics(ctx context.Context) ([]Mechanic, error) {
	var out []Mechanic
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&out).Error
	return out, err
}
