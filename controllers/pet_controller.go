package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pateando/pateando-api/config"
	"github.com/pateando/pateando-api/services"
)

// CreatePetRequest represents the request body for registering a pet
type CreatePetRequest struct {
	Name         string `json:"name" binding:"required"`
	Breed        string `json:"breed"`
	Age          int    `json:"age" binding:"required,gt=0"`
	SpecialNeeds string `json:"specialNeeds"`
	Notes        string `json:"notes"`
}

// CreatePet handles POST /pets/create/:userId
func CreatePet(c *gin.Context) {
	ownerID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	pet, err := services.NewPetService(config.GetDB()).Create(ownerID, services.CreatePetInput{
		Name:         req.Name,
		Breed:        req.Breed,
		Age:          req.Age,
		SpecialNeeds: req.SpecialNeeds,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, pet)
}

// ListPetsByUser handles GET /pets/user/:userId
func ListPetsByUser(c *gin.Context) {
	ownerID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	pets, err := services.NewPetService(config.GetDB()).ListByOwner(ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, pets)
}

// DeletePet handles DELETE /pets/delete/:id
func DeletePet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := services.NewPetService(config.GetDB()).Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
