package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pateando/pateando-api/apperrors"
	"github.com/pateando/pateando-api/config"
	"github.com/pateando/pateando-api/lifecycle"
	"github.com/pateando/pateando-api/services"
)

// CreateAppointmentRequest represents the request body for booking a
// walk. Accepts either petIds (preferred) or the legacy single petId.
type CreateAppointmentRequest struct {
	ClientID        uint   `json:"clientId" binding:"required"`
	PetIDs          []uint `json:"petIds"`
	PetID           uint   `json:"petId"`
	WalkerID        uint   `json:"walkerId" binding:"required"`
	ScheduledAt     string `json:"scheduledAt" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,gt=0"`
	MeetingPoint    string `json:"meetingPoint"`
	Notes           string `json:"notes"`
}

// TransitionRequest carries the acting user for a lifecycle operation.
type TransitionRequest struct {
	ActorID uint `json:"actorId" binding:"required"`
}

// scheduledAtLayouts are the accepted timestamp formats: RFC3339 plus
// the zone-less form the mobile app sends.
var scheduledAtLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func parseScheduledAt(raw string) (time.Time, error) {
	for _, layout := range scheduledAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.New(apperrors.Validation, "INVALID_SCHEDULED_AT", "scheduledAt must be an ISO-8601 timestamp")
}

// CreateAppointment handles POST /appointments/criar
func CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	petIDs := req.PetIDs
	if len(petIDs) == 0 && req.PetID != 0 {
		petIDs = []uint{req.PetID}
	}

	scheduledAt, err := parseScheduledAt(req.ScheduledAt)
	if err != nil {
		respondError(c, err)
		return
	}

	appt, err := services.NewAppointmentService(config.GetDB()).Create(services.CreateAppointmentInput{
		ClientID:        req.ClientID,
		PetIDs:          petIDs,
		WalkerID:        req.WalkerID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		MeetingPoint:    req.MeetingPoint,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, appt)
}

// TransitionAppointment builds the handler for one lifecycle command,
// e.g. PUT /appointments/:id/accept.
func TransitionAppointment(cmd lifecycle.Command) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req TransitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, err)
			return
		}

		appt, err := services.NewAppointmentService(config.GetDB()).Transition(id, req.ActorID, cmd)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, appt)
	}
}

// ListAppointments handles GET /appointments
func ListAppointments(c *gin.Context) {
	appts, err := services.NewAppointmentService(config.GetDB()).List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, appts)
}

// GetAppointment handles GET /appointments/:id
func GetAppointment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	appt, err := services.NewAppointmentService(config.GetDB()).FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, appt)
}

// ListAppointmentsByClient handles GET /appointments/client/:id
func ListAppointmentsByClient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	appts, err := services.NewAppointmentService(config.GetDB()).ListByClient(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, appts)
}

// ListAppointmentsByWalker handles GET /appointments/walker/:id
func ListAppointmentsByWalker(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	appts, err := services.NewAppointmentService(config.GetDB()).ListByWalker(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, appts)
}

// ListAppointmentsByWalkerUser handles GET /appointments/walker/user/:userId
func ListAppointmentsByWalkerUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	appts, err := services.NewAppointmentService(config.GetDB()).ListByWalkerUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, appts)
}

// ListAppointmentsByStatus handles GET /appointments/status/:status
func ListAppointmentsByStatus(c *gin.Context) {
	appts, err := services.NewAppointmentService(config.GetDB()).ListByStatus(c.Param("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, appts)
}

// DeleteAppointment handles DELETE /appointments/:id
func DeleteAppointment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := services.NewAppointmentService(config.GetDB()).Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
