package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pateando/pateando-api/apperrors"
	"github.com/pateando/pateando-api/models"
)

// PetService owns pet records and their exclusive link to an owner.
type PetService struct {
	db *gorm.DB
}

// NewPetService creates a new PetService
func NewPetService(db *gorm.DB) *PetService {
	return &PetService{db: db}
}

// CreateInput is the data needed to register a pet.
type CreatePetInput struct {
	Name         string
	Breed        string
	Age          int
	SpecialNeeds string
	Notes        string
}

// Create registers a pet for an existing user.
func (s *PetService) Create(ownerID uint, in CreatePetInput) (*models.Pet, error) {
	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "USER_NOT_FOUND", "user not found")
		}
		return nil, err
	}

	if in.Age <= 0 {
		return nil, apperrors.New(apperrors.Validation, "INVALID_AGE", "pet age must be positive")
	}

	pet := models.Pet{
		Name:         in.Name,
		Breed:        in.Breed,
		Age:          in.Age,
		SpecialNeeds: in.SpecialNeeds,
		Notes:        in.Notes,
		OwnerID:      ownerID,
	}
	if err := s.db.Create(&pet).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// ListByOwner returns all pets belonging to a user.
func (s *PetService) ListByOwner(ownerID uint) ([]models.Pet, error) {
	var pets []models.Pet
	if err := s.db.Where("owner_id = ?", ownerID).Order("id").Find(&pets).Error; err != nil {
		return nil, err
	}
	return pets, nil
}

// FindByID returns a pet by id.
func (s *PetService) FindByID(id uint) (*models.Pet, error) {
	var pet models.Pet
	if err := s.db.First(&pet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "PET_NOT_FOUND", "pet not found")
		}
		return nil, err
	}
	return &pet, nil
}

// Delete removes a pet.
func (s *PetService) Delete(id uint) error {
	pet, err := s.FindByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(pet).Error
}
