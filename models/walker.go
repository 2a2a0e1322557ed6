package models

import (
	"strings"
	"time"

	"github.com/pateando/pateando-api/apperrors"
)

// Availability is the closed set of walker availability states. The
// directory itself imposes no transitions between them; only the
// appointment lifecycle treats BUSY/AVAILABLE specially.
type Availability string

const (
	AvailabilityAvailable   Availability = "AVAILABLE"
	AvailabilityUnavailable Availability = "UNAVAILABLE"
	AvailabilityBusy        Availability = "BUSY"
)

// ParseAvailability validates an availability value at the boundary.
func ParseAvailability(s string) (Availability, error) {
	switch Availability(strings.ToUpper(strings.TrimSpace(s))) {
	case AvailabilityAvailable:
		return AvailabilityAvailable, nil
	case AvailabilityUnavailable:
		return AvailabilityUnavailable, nil
	case AvailabilityBusy:
		return AvailabilityBusy, nil
	default:
		return "", apperrors.New(apperrors.Validation, "INVALID_AVAILABILITY", "availability must be AVAILABLE, UNAVAILABLE or BUSY")
	}
}

// Default pricing applied when a walker profile is auto-provisioned.
const (
	DefaultPrice30   = 25.0
	DefaultPrice60   = 40.0
	DefaultPrice90   = 55.0
	DefaultRatingAvg = 5.0
)

// Walker is the service-provider profile wrapping a WALKER-role user.
// At most one Walker row exists per user.
type Walker struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"uniqueIndex;not null" json:"userId"`
	User         *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Availability Availability `gorm:"not null;default:'AVAILABLE'" json:"availability"`
	Price30      float64      `gorm:"not null;default:25" json:"price30"`
	Price60      float64      `gorm:"not null;default:40" json:"price60"`
	Price90      float64      `gorm:"not null;default:55" json:"price90"`
	RatingAvg    float64      `gorm:"not null;default:5" json:"ratingAvg"`
	TotalWalks   int          `gorm:"not null;default:0" json:"totalWalks"`
	Bio          string       `json:"bio"`
	PhotoKey     string       `json:"-"`                 // S3 object key
	PhotoURL     string       `gorm:"-" json:"photoUrl"` // computed presigned URL
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// TableName specifies the table name for the Walker model
func (Walker) TableName() string {
	return "walkers"
}

// NewWalkerProfile builds a walker row with default pricing, rating and
// counters for the given user. Used by registration and lazy backfill.
func NewWalkerProfile(userID uint) Walker {
	return Walker{
		UserID:       userID,
		Availability: AvailabilityAvailable,
		Price30:      DefaultPrice30,
		Price60:      DefaultPrice60,
		Price90:      DefaultPrice90,
		RatingAvg:    DefaultRatingAvg,
		TotalWalks:   0,
	}
}
