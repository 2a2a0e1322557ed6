package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pateando/pateando-api/lifecycle"
	"github.com/pateando/pateando-api/models"
	"github.com/pateando/pateando-api/services"
)

func appointmentRouter() *gin.Engine {
	router := gin.New()
	router.POST("/appointments/criar", CreateAppointment)
	router.GET("/appointments", ListAppointments)
	router.GET("/appointments/:id", GetAppointment)
	router.GET("/appointments/client/:id", ListAppointmentsByClient)
	router.GET("/appointments/walker/:id", ListAppointmentsByWalker)
	router.GET("/appointments/walker/user/:userId", ListAppointmentsByWalkerUser)
	router.GET("/appointments/status/:status", ListAppointmentsByStatus)
	router.DELETE("/appointments/:id", DeleteAppointment)
	for _, cmd := range lifecycle.Commands() {
		router.PUT("/appointments/:id/"+string(cmd), TransitionAppointment(cmd))
	}
	return router
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	router := appointmentRouter()

	client := seedUser(t, db, "Maria Silva", models.RoleClient)
	pet := seedPet(t, db, client.ID, "Rex")
	_, walker := seedWalker(t, db, "Joao Santos")

	validBody := func() map[string]interface{} {
		return map[string]interface{}{
			"clientId":        client.ID,
			"petIds":          []uint{pet.ID},
			"walkerId":        walker.ID,
			"scheduledAt":     time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			"durationMinutes": 30,
			"meetingPoint":    "Parque Ibirapuera",
		}
	}

	t.Run("success", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodPost, "/appointments/criar", validBody())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "PENDING", data["status"])
		assert.Equal(t, false, data["emergencyActive"])
		pets := data["pets"].([]interface{})
		require.Len(t, pets, 1)
	})

	t.Run("legacy single petId still works", func(t *testing.T) {
		body := validBody()
		delete(body, "petIds")
		body["petId"] = pet.ID
		w, response := doJSON(t, router, http.MethodPost, "/appointments/criar", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := response["data"].(map[string]interface{})
		require.Len(t, data["pets"].([]interface{}), 1)
	})

	t.Run("zone-less timestamp is accepted", func(t *testing.T) {
		body := validBody()
		body["scheduledAt"] = "2026-09-15T10:30:00"
		w, _ := doJSON(t, router, http.MethodPost, "/appointments/criar", body)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		body := validBody()
		body["scheduledAt"] = "15/09/2026 10:30"
		w, response := doJSON(t, router, http.MethodPost, "/appointments/criar", body)
		assertStatusAndCode(t, w, response, http.StatusBadRequest, "INVALID_SCHEDULED_AT")
	})

	t.Run("missing required fields", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodPost, "/appointments/criar", map[string]interface{}{
			"clientId": client.ID,
		})
		assertStatusAndCode(t, w, response, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("no pets", func(t *testing.T) {
		body := validBody()
		body["petIds"] = []uint{}
		w, response := doJSON(t, router, http.MethodPost, "/appointments/criar", body)
		assertStatusAndCode(t, w, response, http.StatusBadRequest, "NO_PETS")
	})

	t.Run("too many pets", func(t *testing.T) {
		ids := []uint{pet.ID}
		for _, name := range []string{"Luna", "Thor", "Mel"} {
			ids = append(ids, seedPet(t, db, client.ID, name).ID)
		}
		body := validBody()
		body["petIds"] = ids
		w, response := doJSON(t, router, http.MethodPost, "/appointments/criar", body)
		assertStatusAndCode(t, w, response, http.StatusConflict, "TOO_MANY_PETS")
	})

	t.Run("pet of another client", func(t *testing.T) {
		other := seedUser(t, db, "Ana Costa", models.RoleClient)
		foreign := seedPet(t, db, other.ID, "Bidu")
		body := validBody()
		body["petIds"] = []uint{foreign.ID}
		w, response := doJSON(t, router, http.MethodPost, "/appointments/criar", body)
		assertStatusAndCode(t, w, response, http.StatusConflict, "PET_NOT_OWNED")
	})

	t.Run("unknown walker", func(t *testing.T) {
		body := validBody()
		body["walkerId"] = 4242
		w, response := doJSON(t, router, http.MethodPost, "/appointments/criar", body)
		assertStatusAndCode(t, w, response, http.StatusNotFound, "WALKER_NOT_FOUND")
	})
}

func TestTransitionAppointmentEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	router := appointmentRouter()

	client := seedUser(t, db, "Maria Silva", models.RoleClient)
	pet := seedPet(t, db, client.ID, "Rex")
	walkerUser, walker := seedWalker(t, db, "Joao Santos")

	book := func(t *testing.T) uint {
		appt, err := services.NewAppointmentService(db).Create(services.CreateAppointmentInput{
			ClientID:        client.ID,
			PetIDs:          []uint{pet.ID},
			WalkerID:        walker.ID,
			ScheduledAt:     time.Now().Add(24 * time.Hour),
			DurationMinutes: 30,
		})
		require.NoError(t, err)
		return appt.ID
	}

	put := func(t *testing.T, id uint, cmd lifecycle.Command, actorID uint) (int, map[string]interface{}) {
		w, response := doJSON(t, router, http.MethodPut,
			fmt.Sprintf("/appointments/%d/%s", id, cmd),
			map[string]interface{}{"actorId": actorID})
		return w.Code, response
	}

	t.Run("full walk lifecycle over HTTP", func(t *testing.T) {
		id := book(t)

		code, response := put(t, id, lifecycle.Accept, walkerUser.ID)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ACCEPTED", response["data"].(map[string]interface{})["status"])

		code, response = put(t, id, lifecycle.Start, walkerUser.ID)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "IN_PROGRESS", response["data"].(map[string]interface{})["status"])

		code, response = put(t, id, lifecycle.Finish, walkerUser.ID)
		require.Equal(t, http.StatusOK, code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "COMPLETED", data["status"])
	})

	t.Run("client accepting gets 403", func(t *testing.T) {
		id := book(t)
		code, response := put(t, id, lifecycle.Accept, client.ID)
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, response))
	})

	t.Run("accepting twice gets 422", func(t *testing.T) {
		id := book(t)
		code, _ := put(t, id, lifecycle.Accept, walkerUser.ID)
		require.Equal(t, http.StatusOK, code)

		code, response := put(t, id, lifecycle.Accept, walkerUser.ID)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "INVALID_STATE", errorCode(t, response))
	})

	t.Run("emergency flow over HTTP", func(t *testing.T) {
		id := book(t)
		code, _ := put(t, id, lifecycle.Accept, walkerUser.ID)
		require.Equal(t, http.StatusOK, code)
		code, _ = put(t, id, lifecycle.Start, walkerUser.ID)
		require.Equal(t, http.StatusOK, code)

		// Confirming before a request is a 422.
		code, response := put(t, id, lifecycle.ConfirmEmergency, walkerUser.ID)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "INVALID_STATE", errorCode(t, response))

		code, response = put(t, id, lifecycle.RequestEmergency, client.ID)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, response["data"].(map[string]interface{})["emergencyActive"])

		code, response = put(t, id, lifecycle.ConfirmEmergency, walkerUser.ID)
		require.Equal(t, http.StatusOK, code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "COMPLETED", data["status"])
		assert.Equal(t, false, data["emergencyActive"])
	})

	t.Run("missing actorId", func(t *testing.T) {
		id := book(t)
		w, response := doJSON(t, router, http.MethodPut,
			fmt.Sprintf("/appointments/%d/accept", id), map[string]interface{}{})
		assertStatusAndCode(t, w, response, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("unknown appointment", func(t *testing.T) {
		code, response := put(t, 4242, lifecycle.Accept, walkerUser.ID)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "APPOINTMENT_NOT_FOUND", errorCode(t, response))
	})
}

func TestAppointmentQueryEndpoints(t *testing.T) {
	db := setupControllerTestDB(t)
	router := appointmentRouter()

	client := seedUser(t, db, "Maria Silva", models.RoleClient)
	pet := seedPet(t, db, client.ID, "Rex")
	walkerUser, walker := seedWalker(t, db, "Joao Santos")

	appt, err := services.NewAppointmentService(db).Create(services.CreateAppointmentInput{
		ClientID:        client.ID,
		PetIDs:          []uint{pet.ID},
		WalkerID:        walker.ID,
		ScheduledAt:     time.Now().Add(24 * time.Hour),
		DurationMinutes: 30,
	})
	require.NoError(t, err)

	listLen := func(t *testing.T, path string) int {
		w, response := doJSON(t, router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return len(response["data"].([]interface{}))
	}

	assert.Equal(t, 1, listLen(t, "/appointments"))
	assert.Equal(t, 1, listLen(t, fmt.Sprintf("/appointments/client/%d", client.ID)))
	assert.Equal(t, 1, listLen(t, fmt.Sprintf("/appointments/walker/%d", walker.ID)))
	assert.Equal(t, 1, listLen(t, fmt.Sprintf("/appointments/walker/user/%d", walkerUser.ID)))
	assert.Equal(t, 1, listLen(t, "/appointments/status/PENDING"))
	assert.Equal(t, 0, listLen(t, "/appointments/status/COMPLETED"))

	t.Run("unknown status value", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodGet, "/appointments/status/DONE", nil)
		assertStatusAndCode(t, w, response, http.StatusBadRequest, "INVALID_STATUS")
	})

	t.Run("unknown client", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodGet, "/appointments/client/4242", nil)
		assertStatusAndCode(t, w, response, http.StatusNotFound, "CLIENT_NOT_FOUND")
	})

	t.Run("delete", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/appointments/%d", appt.ID), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w, response := doJSON(t, router, http.MethodGet, fmt.Sprintf("/appointments/%d", appt.ID), nil)
		assertStatusAndCode(t, w, response, http.StatusNotFound, "APPOINTMENT_NOT_FOUND")
	})
}
