package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pateando/pateando-api/config"
	"github.com/pateando/pateando-api/middleware"
	"github.com/pateando/pateando-api/services"
)

// CreateUserRequest represents the request body for registering a user
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUser handles POST /users - registers a new user
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// Login handles POST /users/login - checks credentials and issues a
// session token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := services.NewUserService(config.GetDB()).Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// ListUsers handles GET /users
func ListUsers(c *gin.Context) {
	users, err := services.NewUserService(config.GetDB()).List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

// GetUser handles GET /users/:id
func GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := services.NewUserService(config.GetDB()).FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id - refuses while appointments
// still reference the user, otherwise cascades to pets and the walker
// profile
func DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := services.NewUserService(config.GetDB()).Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUserStatistics handles GET /users/:id/statistics - walk totals and
// favorite walker over the client's completed appointments
func GetUserStatistics(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	stats, err := services.NewUserService(config.GetDB()).Statistics(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, stats)
}
