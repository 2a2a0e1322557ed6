package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pateando/pateando-api/apperrors"
	"github.com/pateando/pateando-api/config"
	"github.com/pateando/pateando-api/middleware"
	"github.com/pateando/pateando-api/models"
	"github.com/pateando/pateando-api/services"
)

// CreateWalkerRequest represents the request body for creating a walker
// profile
type CreateWalkerRequest struct {
	UserID       uint   `json:"userId" binding:"required"`
	Availability string `json:"availability" binding:"omitempty,availability"`
}

// UpdateAvailabilityRequest represents the request body for overwriting
// a walker's availability
type UpdateAvailabilityRequest struct {
	Availability string `json:"availability" binding:"required,availability"`
}

// CreateWalker handles POST /walkers/criar
func CreateWalker(c *gin.Context) {
	var req CreateWalkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	availability := models.Availability("")
	if req.Availability != "" {
		parsed, err := models.ParseAvailability(req.Availability)
		if err != nil {
			respondError(c, err)
			return
		}
		availability = parsed
	}

	svc := services.NewWalkerService(config.GetDB())
	walker, err := svc.Create(req.UserID, availability)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, walker)
}

// ListWalkers handles GET /walkers - every walker with its current
// availability
func ListWalkers(c *gin.Context) {
	svc := services.NewWalkerService(config.GetDB())
	walkers, err := svc.List()
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range walkers {
		svc.AttachPhotoURL(&walkers[i])
	}
	respondData(c, http.StatusOK, walkers)
}

// ListAvailableWalkers handles GET /walkers/disponiveis
func ListAvailableWalkers(c *gin.Context) {
	svc := services.NewWalkerService(config.GetDB())
	walkers, err := svc.ListAvailable()
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range walkers {
		svc.AttachPhotoURL(&walkers[i])
	}
	respondData(c, http.StatusOK, walkers)
}

// GetWalker handles GET /walkers/:id
func GetWalker(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc := services.NewWalkerService(config.GetDB())
	walker, err := svc.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	svc.AttachPhotoURL(walker)
	respondData(c, http.StatusOK, walker)
}

// GetWalkerByUser handles GET /walkers/user/:userId
func GetWalkerByUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	svc := services.NewWalkerService(config.GetDB())
	walker, err := svc.FindByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	svc.AttachPhotoURL(walker)
	respondData(c, http.StatusOK, walker)
}

// UpdateAvailability handles PUT /walkers/:id/disponibilidade - an
// unconditional overwrite, no transition guard
func UpdateAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	availability, err := models.ParseAvailability(req.Availability)
	if err != nil {
		respondError(c, err)
		return
	}

	walker, err := services.NewWalkerService(config.GetDB()).SetAvailability(id, availability)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, walker)
}

// UploadWalkerPhoto handles POST /walkers/:id/photo - multipart profile
// photo upload, walkers may only change their own photo
func UploadWalkerPhoto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	actorID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.New(apperrors.Unauthorized, "UNAUTHORIZED", "Could not extract user information"))
		return
	}

	svc := services.NewWalkerService(config.GetDB())
	walker, err := svc.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if walker.UserID != actorID {
		respondError(c, apperrors.New(apperrors.Forbidden, "FORBIDDEN", "walkers may only change their own photo"))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		respondValidation(c, err)
		return
	}

	photoKey, err := services.GetPhotoService().UploadPhoto(fileHeader)
	if err != nil {
		respondError(c, apperrors.New(apperrors.Validation, "INVALID_PHOTO", err.Error()))
		return
	}

	walker, err = svc.SetPhoto(id, photoKey)
	if err != nil {
		respondError(c, err)
		return
	}
	svc.AttachPhotoURL(walker)
	respondData(c, http.StatusOK, walker)
}
