package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pateando/pateando-api/config"
	"github.com/pateando/pateando-api/models"
	"github.com/pateando/pateando-api/services"
)

func setupControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gin.SetMode(gin.TestMode)
	RegisterValidators()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Pet{}, &models.Walker{}, &models.Appointment{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	config.SetConfig(&config.Config{JWTSecret: "test-secret", GoEnv: "test"})
	return db
}

var ctlUserSeq int

func seedUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	ctlUserSeq++
	user, err := services.NewUserService(db).Register(services.RegisterInput{
		Name:     name,
		Email:    fmt.Sprintf("ctl%d@example.com", ctlUserSeq),
		Phone:    fmt.Sprintf("1198888%04d", ctlUserSeq),
		Password: "secret123",
		Role:     string(role),
	})
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedWalker(t *testing.T, db *gorm.DB, name string) (*models.User, *models.Walker) {
	t.Helper()

	user := seedUser(t, db, name, models.RoleWalker)
	walker, err := services.NewWalkerService(db).FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("Failed to load walker profile: %v", err)
	}
	return user, walker
}

func seedPet(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Pet {
	t.Helper()

	pet, err := services.NewPetService(db).Create(ownerID, services.CreatePetInput{
		Name: name, Breed: "Vira-lata", Age: 3,
	})
	if err != nil {
		t.Fatalf("Failed to seed pet: %v", err)
	}
	return pet
}

func userPath(id uint) string {
	return fmt.Sprintf("/users/%d", id)
}

// doJSON performs a JSON request against the router and decodes the
// response envelope.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, response
}

func errorCode(t *testing.T, response map[string]interface{}) string {
	t.Helper()

	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("Response has no error object: %v", response)
	}
	code, _ := errObj["code"].(string)
	return code
}

func assertStatusAndCode(t *testing.T, w *httptest.ResponseRecorder, response map[string]interface{}, wantStatus int, wantCode string) {
	t.Helper()

	if w.Code != wantStatus {
		t.Fatalf("Expected status %d, got %d (body %s)", wantStatus, w.Code, w.Body.String())
	}
	if wantStatus < http.StatusBadRequest {
		return
	}
	if got := errorCode(t, response); got != wantCode {
		t.Fatalf("Expected error code %q, got %q", wantCode, got)
	}
}
