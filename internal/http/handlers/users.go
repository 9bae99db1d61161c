package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/http/middleware"
	"fleetadmin/internal/utils"
)

// GET /api/users
func GetUsers(c *gin.Context) {
	users, err := userRepo.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

type userPayload struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Password string `json:"password"`
	Active   *bool  `json:"active"`
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var p userPayload
	if !BindJSONOrError(c, &p) {
		return
	}

	active := true
	if p.Active != nil {
		active = *p.Active
	}
	role := p.Role
	if role == "" {
		role = "viewer"
	}

	id, err := userRepo.Create(models.User{
		Username: p.Username,
		FullName: p.FullName,
		Role:     role,
		Active:   active,
	}, p.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "users", "create", p.Username)
	c.JSON(http.StatusCreated, gin.H{"id": id, "username": p.Username})
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}
	var p userPayload
	if !BindJSONOrError(c, &p) {
		return
	}

	active := true
	if p.Active != nil {
		active = *p.Active
	}
	if err := userRepo.Update(models.User{
		ID:       id,
		FullName: p.FullName,
		Role:     p.Role,
		Active:   active,
	}); err != nil {
		RespondDomainError(c, err)
		return
	}

	if p.Password != "" {
		if err := userRepo.SetPassword(id, p.Password); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	utils.LogEvent(middleware.GetRequestID(c), "users", "update", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}
	if err := userRepo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "users", "delete", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
