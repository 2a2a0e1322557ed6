package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/pateando/pateando-api/apperrors"
	"github.com/pateando/pateando-api/lifecycle"
	"github.com/pateando/pateando-api/models"
)

// AppointmentService resolves actors and entities, runs the lifecycle
// engine and persists its outcomes transactionally.
type AppointmentService struct {
	db *gorm.DB
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{db: db}
}

// CreateAppointmentInput is the data needed to book a walk.
type CreateAppointmentInput struct {
	ClientID        uint
	PetIDs          []uint
	WalkerID        uint
	ScheduledAt     time.Time
	DurationMinutes int
	MeetingPoint    string
	Notes           string
}

// Create books a walk. The client, walker and every pet are resolved
// eagerly; any failure aborts with no partial write. The pet list is
// copied into the appointment and fixed for its lifetime.
func (s *AppointmentService) Create(in CreateAppointmentInput) (*models.Appointment, error) {
	if len(in.PetIDs) == 0 {
		return nil, apperrors.New(apperrors.Validation, "NO_PETS", "select at least one pet")
	}
	if len(in.PetIDs) > models.MaxPetsPerAppointment {
		return nil, apperrors.New(apperrors.Conflict, "TOO_MANY_PETS", "max 3 pets per walk")
	}
	if in.DurationMinutes <= 0 {
		return nil, apperrors.New(apperrors.Validation, "INVALID_DURATION", "duration must be positive")
	}

	var client models.User
	if err := s.db.First(&client, in.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "CLIENT_NOT_FOUND", "client not found")
		}
		return nil, err
	}
	if client.Role != models.RoleClient {
		return nil, apperrors.New(apperrors.Conflict, "NOT_A_CLIENT", "user is not a client")
	}

	pets := make([]models.Pet, 0, len(in.PetIDs))
	for _, petID := range in.PetIDs {
		var pet models.Pet
		if err := s.db.First(&pet, petID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.New(apperrors.NotFound, "PET_NOT_FOUND", fmt.Sprintf("pet with id %d not found", petID))
			}
			return nil, err
		}
		if pet.OwnerID != in.ClientID {
			return nil, apperrors.New(apperrors.Conflict, "PET_NOT_OWNED", fmt.Sprintf("pet %s does not belong to the client", pet.Name))
		}
		pets = append(pets, pet)
	}

	var walker models.Walker
	if err := s.db.First(&walker, in.WalkerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "WALKER_NOT_FOUND", "walker not found")
		}
		return nil, err
	}

	appt := models.Appointment{
		ClientID:        in.ClientID,
		WalkerID:        in.WalkerID,
		Pets:            pets,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		MeetingPoint:    in.MeetingPoint,
		Notes:           in.Notes,
		Status:          models.StatusPending,
	}
	if err := s.db.Create(&appt).Error; err != nil {
		return nil, err
	}

	s.publishEvent(newAppointmentEvent(appt.ID, "", models.StatusPending, in.ClientID, false))

	return s.FindByID(appt.ID)
}

// Transition runs one lifecycle command against an appointment. The new
// appointment state and any walker side effects are persisted as one
// transaction, with a compare-and-swap on the prior status so a racing
// second caller loses deterministically.
func (s *AppointmentService) Transition(appointmentID, actorID uint, cmd lifecycle.Command) (*models.Appointment, error) {
	appt, err := s.FindByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Walker == nil {
		return nil, apperrors.New(apperrors.NotFound, "WALKER_NOT_FOUND", "walker not found")
	}

	snapshot := lifecycle.Snapshot{
		Status:          appt.Status,
		EmergencyActive: appt.EmergencyActive,
		ClientID:        appt.ClientID,
		WalkerUserID:    appt.Walker.UserID,
	}
	outcome, err := lifecycle.Decide(snapshot, cmd, actorID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ? AND emergency_active = ?", appt.ID, appt.Status, appt.EmergencyActive).
			Updates(map[string]interface{}{
				"status":           outcome.Status,
				"emergency_active": outcome.EmergencyActive,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Someone else won the read-modify-write race.
			return apperrors.New(apperrors.Conflict, "CONCURRENT_UPDATE", "appointment was modified concurrently, please retry")
		}

		if outcome.WalkerAvailability != nil || outcome.IncrementWalks {
			updates := map[string]interface{}{}
			if outcome.WalkerAvailability != nil {
				updates["availability"] = *outcome.WalkerAvailability
			}
			if outcome.IncrementWalks {
				updates["total_walks"] = gorm.Expr("total_walks + ?", 1)
			}
			if err := tx.Model(&models.Walker{}).Where("id = ?", appt.WalkerID).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(newAppointmentEvent(appt.ID, appt.Status, outcome.Status, actorID, outcome.EmergencyActive))

	return s.FindByID(appt.ID)
}

// publishEvent reports a transition to the event queue. Event delivery
// is best effort; the transition has already committed.
func (s *AppointmentService) publishEvent(event AppointmentEvent) {
	if err := GetEventPublisher().PublishAppointmentEvent(event); err != nil {
		log.Printf("failed to publish appointment event for %d: %v", event.AppointmentID, err)
	}
}

func newAppointmentEvent(id uint, from, to models.AppointmentStatus, actorID uint, emergency bool) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID:   id,
		FromStatus:      from,
		ToStatus:        to,
		ActorID:         actorID,
		EmergencyActive: emergency,
		OccurredAt:      time.Now(),
	}
}

func (s *AppointmentService) preload() *gorm.DB {
	return s.db.Preload("Client").Preload("Walker.User").Preload("Pets")
}

// FindByID returns an appointment with its client, walker and pets.
func (s *AppointmentService) FindByID(id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.preload().First(&appt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "APPOINTMENT_NOT_FOUND", "appointment not found")
		}
		return nil, err
	}
	return &appt, nil
}

// List returns all appointments.
func (s *AppointmentService) List() ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := s.preload().Order("id").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// ListByClient returns a client's appointments.
func (s *AppointmentService) ListByClient(clientID uint) ([]models.Appointment, error) {
	var client models.User
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "CLIENT_NOT_FOUND", "client not found")
		}
		return nil, err
	}
	var appts []models.Appointment
	if err := s.preload().Where("client_id = ?", clientID).Order("id").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// ListByWalker returns a walker's appointments by walker id.
func (s *AppointmentService) ListByWalker(walkerID uint) ([]models.Appointment, error) {
	var walker models.Walker
	if err := s.db.First(&walker, walkerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "WALKER_NOT_FOUND", "walker not found")
		}
		return nil, err
	}
	var appts []models.Appointment
	if err := s.preload().Where("walker_id = ?", walkerID).Order("id").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// ListByWalkerUserID returns the appointments of the walker owned by a
// user. A user without a walker profile simply has none.
func (s *AppointmentService) ListByWalkerUserID(userID uint) ([]models.Appointment, error) {
	var walker models.Walker
	if err := s.db.Where("user_id = ?", userID).First(&walker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Appointment{}, nil
		}
		return nil, err
	}
	return s.ListByWalker(walker.ID)
}

// ListByStatus returns appointments in a given status. Unknown status
// values are rejected at the boundary.
func (s *AppointmentService) ListByStatus(status string) ([]models.Appointment, error) {
	parsed, err := models.ParseAppointmentStatus(status)
	if err != nil {
		return nil, err
	}
	var appts []models.Appointment
	if err := s.preload().Where("status = ?", parsed).Order("id").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// Delete removes an appointment and its pet links.
func (s *AppointmentService) Delete(id uint) error {
	appt, err := s.FindByID(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(appt).Association("Pets").Clear(); err != nil {
			return err
		}
		return tx.Delete(appt).Error
	})
}
