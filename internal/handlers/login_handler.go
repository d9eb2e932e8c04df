package handlers

import (
	"net/http"
	"strings"

	"hesabyar/internal/auth"
	"hesabyar/internal/format"
	"hesabyar/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the credentials against the stored users and hands out a
// session token. Usernames are matched case-insensitively; passwords
// are compared as stored (legacy behavior, kept on purpose).
func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	data := h.container.Snapshot()
	user := findUserByName(data.Users, input.Username)
	if user == nil || user.Password != input.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role, user.Permissions)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"role":        user.Role,
		"username":    user.Username,
		"permissions": user.Permissions,
	})
}

// --- User administration (admin / 'users' feature) ---

type UserRequest struct {
	Username    string   `json:"username" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	Role        string   `json:"role" binding:"required"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) GetUsers(c *gin.Context) {
	data := h.container.Snapshot()
	c.JSON(http.StatusOK, data.Users)
}

func (h *Handler) AddUser(c *gin.Context) {
	var input UserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.Role != auth.RoleAdmin && input.Role != auth.RoleStaff {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be admin or staff"})
		return
	}

	user := models.User{
		ID:          uuid.NewString(),
		Username:    input.Username,
		Password:    input.Password,
		Role:        input.Role,
		Permissions: input.Permissions,
		CreatedAt:   format.TodayJalali().String(),
	}
	if user.Permissions == nil {
		user.Permissions = []string{}
	}

	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		if findUserByName(data.Users, user.Username) != nil {
			return data, ErrDuplicateUsername
		}
		data.Users = append(data.Users, user)
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "persisted": persisted})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var input UserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var updated models.User
	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		target := findUserByID(data.Users, id)
		if target == nil {
			return data, ErrNotFound
		}
		if other := findUserByName(data.Users, input.Username); other != nil && other.ID != id {
			return data, ErrDuplicateUsername
		}
		target.Username = input.Username
		target.Password = input.Password
		target.Role = input.Role
		target.Permissions = input.Permissions
		if target.Permissions == nil {
			target.Permissions = []string{}
		}
		updated = *target
		return data, nil
	})
	switch err {
	case nil:
	case ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case ErrDuplicateUsername:
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": updated, "persisted": persisted})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		kept := data.Users[:0:0]
		for _, u := range data.Users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		if len(kept) == len(data.Users) {
			return data, ErrNotFound
		}
		data.Users = kept
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully", "persisted": persisted})
}

func findUserByName(users []models.User, username string) *models.User {
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return &users[i]
		}
	}
	return nil
}

func findUserByID(users []models.User, id string) *models.User {
	for i := range users {
		if users[i].ID == id {
			return &users[i]
		}
	}
	return nil
}
