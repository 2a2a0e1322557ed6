package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pateando/pateando-api/apperrors"
	"github.com/pateando/pateando-api/models"
)

// UserService owns registration, credential checks, the walker-profile
// backfill and the client statistics view.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// RegisterInput is the data needed to create a user.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// errInvalidCredentials deliberately does not reveal which field was
// wrong.
var errInvalidCredentials = apperrors.New(apperrors.Unauthorized, "INVALID_CREDENTIALS", "invalid email or password")

// Register creates a user. Email and phone must be unique. A WALKER-role
// user gets a companion walker profile with default pricing in the same
// transaction.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		return nil, apperrors.New(apperrors.Conflict, "EMAIL_EXISTS", "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := s.db.Where("phone = ?", in.Phone).First(&existing).Error; err == nil {
		return nil, apperrors.New(apperrors.Conflict, "PHONE_EXISTS", "phone already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: string(hashed),
		Role:     role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if user.Role == models.RoleWalker {
			walker := models.NewWalkerProfile(user.ID)
			if err := tx.Create(&walker).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Login checks credentials. On success for a WALKER-role user a missing
// walker profile is lazily backfilled (self-healing for legacy
// registrations).
func (s *UserService) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	if user.Role == models.RoleWalker {
		if err := NewWalkerService(s.db).EnsureExists(user.ID); err != nil {
			return nil, err
		}
	}

	return &user, nil
}

// FindByID returns a user by id.
func (s *UserService) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "USER_NOT_FOUND", "user not found")
		}
		return nil, err
	}
	return &user, nil
}

// List returns all users.
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user together with their pets and walker profile.
// Deletion is refused while any appointment still references the user,
// either as client or through their walker profile.
func (s *UserService) Delete(id uint) error {
	user, err := s.FindByID(id)
	if err != nil {
		return err
	}

	var asClient int64
	if err := s.db.Model(&models.Appointment{}).Where("client_id = ?", id).Count(&asClient).Error; err != nil {
		return err
	}

	var walker models.Walker
	var asWalker int64
	hasWalker := true
	if err := s.db.Where("user_id = ?", id).First(&walker).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hasWalker = false
	}
	if hasWalker {
		if err := s.db.Model(&models.Appointment{}).Where("walker_id = ?", walker.ID).Count(&asWalker).Error; err != nil {
			return err
		}
	}

	if asClient > 0 || asWalker > 0 {
		return apperrors.New(apperrors.Conflict, "USER_HAS_APPOINTMENTS", "user still has appointments and cannot be deleted")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&models.Pet{}).Error; err != nil {
			return err
		}
		if hasWalker {
			if err := tx.Delete(&walker).Error; err != nil {
				return err
			}
		}
		return tx.Delete(user).Error
	})
}

// ClientStatistics summarizes a client's completed walks.
type ClientStatistics struct {
	TotalWalks         int    `json:"totalWalks"`
	TotalMinutes       int    `json:"totalMinutes"`
	FormattedHours     string `json:"formattedHours"`
	FavoriteWalkerName string `json:"favoriteWalkerName"`
	WalksWithFavorite  int    `json:"walksWithFavorite"`
}

// Statistics computes walk totals and the favorite walker over the
// client's COMPLETED appointments.
func (s *UserService) Statistics(clientID uint) (*ClientStatistics, error) {
	if _, err := s.FindByID(clientID); err != nil {
		return nil, err
	}

	var completed []models.Appointment
	err := s.db.Preload("Walker.User").
		Where("client_id = ? AND status = ?", clientID, models.StatusCompleted).
		Order("id").
		Find(&completed).Error
	if err != nil {
		return nil, err
	}

	stats := &ClientStatistics{
		TotalWalks:         len(completed),
		FavoriteWalkerName: "None",
	}

	counts := make(map[uint]int)
	names := make(map[uint]string)
	var favoriteID uint
	for _, appt := range completed {
		stats.TotalMinutes += appt.DurationMinutes

		counts[appt.WalkerID]++
		if appt.Walker != nil && appt.Walker.User != nil {
			names[appt.WalkerID] = appt.Walker.User.FormattedName()
		}
		if counts[appt.WalkerID] > stats.WalksWithFavorite {
			stats.WalksWithFavorite = counts[appt.WalkerID]
			favoriteID = appt.WalkerID
		}
	}
	if favoriteID != 0 {
		if name, ok := names[favoriteID]; ok {
			stats.FavoriteWalkerName = name
		}
	}

	stats.FormattedHours = FormatMinutes(stats.TotalMinutes)
	return stats, nil
}

// FormatMinutes renders a minute total the way the client app expects:
// 75 -> "1h15", 120 -> "2h", 45 -> "45min", 0 -> "0h".
func FormatMinutes(minutes int) string {
	if minutes == 0 {
		return "0h"
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	if hours == 0 {
		return fmt.Sprintf("%dmin", mins)
	}
	return fmt.Sprintf("%dh%d", hours, mins)
}
