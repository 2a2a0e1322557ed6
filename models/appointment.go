package models

import (
	"strings"
	"time"

	"github.com/pateando/pateando-api/apperrors"
)

// AppointmentStatus is the closed set of appointment states. PENDING is
// the unique initial state; REJECTED, CANCELLED and COMPLETED are
// terminal.
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "PENDING"
	StatusAccepted   AppointmentStatus = "ACCEPTED"
	StatusRejected   AppointmentStatus = "REJECTED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
)

// ParseAppointmentStatus validates a status value at the boundary.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusAccepted:
		return StatusAccepted, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", apperrors.New(apperrors.Validation, "INVALID_STATUS", "unknown appointment status: "+s)
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// MaxPetsPerAppointment bounds how many pets a single walk may include.
const MaxPetsPerAppointment = 3

// Appointment is a scheduled walk linking one client, one walker and
// 1–3 pets. The pet list is fixed at creation.
type Appointment struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	ClientID        uint              `gorm:"not null;index" json:"clientId"`
	Client          *User             `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	WalkerID        uint              `gorm:"not null;index" json:"walkerId"`
	Walker          *Walker           `gorm:"foreignKey:WalkerID" json:"walker,omitempty"`
	Pets            []Pet             `gorm:"many2many:appointment_pets" json:"pets"`
	ScheduledAt     time.Time         `gorm:"not null" json:"scheduledAt"`
	DurationMinutes int               `gorm:"not null" json:"durationMinutes"`
	MeetingPoint    string            `json:"meetingPoint"`
	Notes           string            `json:"notes"`
	Status          AppointmentStatus `gorm:"not null;default:'PENDING'" json:"status"`
	EmergencyActive bool              `gorm:"not null;default:false" json:"emergencyActive"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}
