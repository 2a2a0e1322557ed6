package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pateando/pateando-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Pet{}, &models.Walker{}, &models.Appointment{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

var testUserSeq int

// registerTestUser creates a user through the real registration path so
// passwords are hashed and walker profiles are provisioned.
func registerTestUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	testUserSeq++
	user, err := NewUserService(db).Register(RegisterInput{
		Name:     name,
		Email:    fmt.Sprintf("user%d@example.com", testUserSeq),
		Phone:    fmt.Sprintf("1199999%04d", testUserSeq),
		Password: "secret123",
		Role:     string(role),
	})
	if err != nil {
		t.Fatalf("Failed to register test user: %v", err)
	}
	return user
}

func registerTestWalker(t *testing.T, db *gorm.DB, name string) (*models.User, *models.Walker) {
	t.Helper()

	user := registerTestUser(t, db, name, models.RoleWalker)
	walker, err := NewWalkerService(db).FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("Failed to load walker profile: %v", err)
	}
	return user, walker
}

func createTestPet(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Pet {
	t.Helper()

	pet, err := NewPetService(db).Create(ownerID, CreatePetInput{
		Name:  name,
		Breed: "Shiba Inu",
		Age:   3,
	})
	if err != nil {
		t.Fatalf("Failed to create test pet: %v", err)
	}
	return pet
}
