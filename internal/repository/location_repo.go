package repository

import (
	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationRepository interface {
	Create(location *model.Location) error
	FindAll() ([]model.Location, error)
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Location, error)
}

type locationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db}
}

func (r *locationRepo) Create(location *model.Location) error {
	return r.db.Create(location).Error
}

func (r *locationRepo) FindAll() ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Location, error) {
	var location model.Location
	if err := tx.First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}
