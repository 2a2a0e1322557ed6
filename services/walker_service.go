package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pateando/pateando-api/apperrors"
	"github.com/pateando/pateando-api/models"
)

// WalkerService owns the walker directory: availability state, pricing
// attributes and the 1:1 link to the owning user.
type WalkerService struct {
	db *gorm.DB
}

// NewWalkerService creates a new WalkerService
func NewWalkerService(db *gorm.DB) *WalkerService {
	return &WalkerService{db: db}
}

// Create makes a walker profile for an existing WALKER-role user.
func (s *WalkerService) Create(userID uint, availability models.Availability) (*models.Walker, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "USER_NOT_FOUND", "user not found")
		}
		return nil, err
	}
	if user.Role != models.RoleWalker {
		return nil, apperrors.New(apperrors.Conflict, "NOT_A_WALKER", "user does not have the WALKER role")
	}

	var existing models.Walker
	if err := s.db.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return nil, apperrors.New(apperrors.Conflict, "WALKER_EXISTS", "this user is already a walker")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	walker := models.NewWalkerProfile(userID)
	if availability != "" {
		walker.Availability = availability
	}
	if err := s.db.Create(&walker).Error; err != nil {
		return nil, err
	}
	walker.User = &user
	return &walker, nil
}

// EnsureExists idempotently creates a walker profile with defaults for
// the given user id.
func (s *WalkerService) EnsureExists(userID uint) error {
	var existing models.Walker
	err := s.db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	walker := models.NewWalkerProfile(userID)
	return s.db.Create(&walker).Error
}

// List returns all walkers with their users. Each row carries its real
// availability so clients can filter or display it.
func (s *WalkerService) List() ([]models.Walker, error) {
	var walkers []models.Walker
	if err := s.db.Preload("User").Order("id").Find(&walkers).Error; err != nil {
		return nil, err
	}
	return walkers, nil
}

// ListAvailable returns walkers whose availability is AVAILABLE.
func (s *WalkerService) ListAvailable() ([]models.Walker, error) {
	var walkers []models.Walker
	err := s.db.Preload("User").
		Where("availability = ?", models.AvailabilityAvailable).
		Order("id").
		Find(&walkers).Error
	if err != nil {
		return nil, err
	}
	return walkers, nil
}

// FindByID returns a walker by id.
func (s *WalkerService) FindByID(id uint) (*models.Walker, error) {
	var walker models.Walker
	if err := s.db.Preload("User").First(&walker, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "WALKER_NOT_FOUND", "walker not found")
		}
		return nil, err
	}
	return &walker, nil
}

// FindByUserID returns the walker profile owned by a user, if any.
func (s *WalkerService) FindByUserID(userID uint) (*models.Walker, error) {
	var walker models.Walker
	if err := s.db.Preload("User").Where("user_id = ?", userID).First(&walker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "WALKER_NOT_FOUND", "walker not found")
		}
		return nil, err
	}
	return &walker, nil
}

// SetAvailability overwrites a walker's availability. The directory
// imposes no transition guard here; only the lifecycle engine treats
// BUSY/AVAILABLE specially.
func (s *WalkerService) SetAvailability(walkerID uint, availability models.Availability) (*models.Walker, error) {
	walker, err := s.FindByID(walkerID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(walker).Update("availability", availability).Error; err != nil {
		return nil, err
	}
	walker.Availability = availability
	return walker, nil
}

// SetPhoto stores a new photo key and deletes the previous photo from
// storage, if any.
func (s *WalkerService) SetPhoto(walkerID uint, photoKey string) (*models.Walker, error) {
	walker, err := s.FindByID(walkerID)
	if err != nil {
		return nil, err
	}
	oldKey := walker.PhotoKey
	if err := s.db.Model(walker).Update("photo_key", photoKey).Error; err != nil {
		return nil, err
	}
	walker.PhotoKey = photoKey
	if oldKey != "" && oldKey != photoKey {
		if err := GetPhotoService().DeletePhoto(oldKey); err != nil {
			// Old photo becomes unreachable either way; not fatal.
			return walker, nil
		}
	}
	return walker, nil
}

// Delete removes a walker profile.
func (s *WalkerService) Delete(id uint) error {
	walker, err := s.FindByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(walker).Error
}

// AttachPhotoURL fills the computed PhotoURL field from the photo
// service. Safe to call with no photo set.
func (s *WalkerService) AttachPhotoURL(walker *models.Walker) {
	if walker == nil || walker.PhotoKey == "" {
		return
	}
	if url, err := GetPhotoService().GetPhotoURL(walker.PhotoKey); err == nil {
		walker.PhotoURL = url
	}
}
