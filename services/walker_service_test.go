package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pateando/pateando-api/apperrors"
	"github.com/pateando/pateando-api/models"
)

func TestWalkerCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkerService(db)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Create(4242, "")
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
	})

	t.Run("client-role user is refused", func(t *testing.T) {
		client := registerTestUser(t, db, "Maria Silva", models.RoleClient)
		_, err := svc.Create(client.ID, "")
		require.Error(t, err)
		appErr := apperrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.Conflict, appErr.Kind)
		assert.Equal(t, "NOT_A_WALKER", appErr.Code)
	})

	t.Run("registration already provisioned a profile", func(t *testing.T) {
		walkerUser, _ := registerTestWalker(t, db, "Joao Santos")
		_, err := svc.Create(walkerUser.ID, "")
		require.Error(t, err)
		appErr := apperrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "WALKER_EXISTS", appErr.Code)
	})

	t.Run("explicit availability overrides the default", func(t *testing.T) {
		walkerUser, _ := registerTestWalker(t, db, "Ana Costa")
		require.NoError(t, db.Where("user_id = ?", walkerUser.ID).Delete(&models.Walker{}).Error)

		walker, err := svc.Create(walkerUser.ID, models.AvailabilityUnavailable)
		require.NoError(t, err)
		assert.Equal(t, models.AvailabilityUnavailable, walker.Availability)
		assert.Equal(t, 25.0, walker.Price30)
		assert.Equal(t, 40.0, walker.Price60)
		assert.Equal(t, 55.0, walker.Price90)
		assert.Equal(t, 5.0, walker.RatingAvg)
		assert.Equal(t, 0, walker.TotalWalks)
		require.NotNil(t, walker.User)
		assert.Equal(t, walkerUser.ID, walker.User.ID)
	})
}

func TestEnsureExists(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkerService(db)
	walkerUser, _ := registerTestWalker(t, db, "Joao Santos")

	// Idempotent on an existing profile.
	require.NoError(t, svc.EnsureExists(walkerUser.ID))
	var count int64
	db.Model(&models.Walker{}).Where("user_id = ?", walkerUser.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Recreates a missing one.
	require.NoError(t, db.Where("user_id = ?", walkerUser.ID).Delete(&models.Walker{}).Error)
	require.NoError(t, svc.EnsureExists(walkerUser.ID))
	db.Model(&models.Walker{}).Where("user_id = ?", walkerUser.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestWalkerQueries(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkerService(db)

	_, available := registerTestWalker(t, db, "Joao Santos")
	busyUser, _ := registerTestWalker(t, db, "Ana Costa")
	busy, err := svc.FindByUserID(busyUser.ID)
	require.NoError(t, err)
	_, err = svc.SetAvailability(busy.ID, models.AvailabilityBusy)
	require.NoError(t, err)

	t.Run("list preloads users", func(t *testing.T) {
		walkers, err := svc.List()
		require.NoError(t, err)
		require.Len(t, walkers, 2)
		for _, w := range walkers {
			require.NotNil(t, w.User)
		}
	})

	t.Run("list available filters by availability", func(t *testing.T) {
		walkers, err := svc.ListAvailable()
		require.NoError(t, err)
		require.Len(t, walkers, 1)
		assert.Equal(t, available.ID, walkers[0].ID)
	})

	t.Run("find by id", func(t *testing.T) {
		walker, err := svc.FindByID(available.ID)
		require.NoError(t, err)
		assert.Equal(t, available.UserID, walker.UserID)

		_, err = svc.FindByID(4242)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
	})

	t.Run("find by user id", func(t *testing.T) {
		walker, err := svc.FindByUserID(busyUser.ID)
		require.NoError(t, err)
		assert.Equal(t, busy.ID, walker.ID)

		client := registerTestUser(t, db, "Maria Silva", models.RoleClient)
		_, err = svc.FindByUserID(client.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
	})
}

func TestSetAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkerService(db)
	_, walker := registerTestWalker(t, db, "Joao Santos")

	updated, err := svc.SetAvailability(walker.ID, models.AvailabilityUnavailable)
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityUnavailable, updated.Availability)

	reloaded, err := svc.FindByID(walker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityUnavailable, reloaded.Availability)

	_, err = svc.SetAvailability(4242, models.AvailabilityAvailable)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
}

func TestSetPhoto(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkerService(db)
	_, walker := registerTestWalker(t, db, "Joao Santos")

	mock := NewMockPhotoService()
	mock.SetAsMockForTesting()
	t.Cleanup(func() { SetPhotoService(NoopPhotoService{}) })

	updated, err := svc.SetPhoto(walker.ID, "walkers/first.jpg")
	require.NoError(t, err)
	assert.Equal(t, "walkers/first.jpg", updated.PhotoKey)

	// Replacing the photo drops the old key from storage.
	updated, err = svc.SetPhoto(walker.ID, "walkers/second.jpg")
	require.NoError(t, err)
	assert.Equal(t, "walkers/second.jpg", updated.PhotoKey)

	reloaded, err := svc.FindByID(walker.ID)
	require.NoError(t, err)
	assert.Equal(t, "walkers/second.jpg", reloaded.PhotoKey)
}

func TestAttachPhotoURL(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkerService(db)

	mock := NewMockPhotoService()
	mock.SetAsMockForTesting()
	t.Cleanup(func() { SetPhotoService(NoopPhotoService{}) })

	t.Run("walker without photo stays empty", func(t *testing.T) {
		walker := &models.Walker{}
		svc.AttachPhotoURL(walker)
		assert.Empty(t, walker.PhotoURL)
	})

	t.Run("nil walker is safe", func(t *testing.T) {
		svc.AttachPhotoURL(nil)
	})
}

func TestWalkerDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalkerService(db)
	_, walker := registerTestWalker(t, db, "Joao Santos")

	require.NoError(t, svc.Delete(walker.ID))

	_, err := svc.FindByID(walker.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))

	err = svc.Delete(walker.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
}
