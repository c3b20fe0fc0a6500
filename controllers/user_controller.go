package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumeblog/plume/middleware"
	"github.com/plumeblog/plume/services"
	"github.com/plumeblog/plume/utils"
)

const tokenLifetime = 30 * 24 * time.Hour

// UserController handles the username create-or-fetch login and the
// authenticated profile lookup.
type UserController struct {
	users *services.UserService
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{users: services.NewUserService(db)}
}

// Login returns the user record for the given username, creating it when
// it does not exist, together with a bearer token.
func (u *UserController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := u.users.FindOrCreate(req.Username)
	if err != nil {
		serviceError(ctx, err, 50001, "failed to login user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"user": user, "token": token})
}

// Me returns the authenticated caller's user record.
func (u *UserController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "unauthorized")
		return
	}

	user, err := u.users.FindByID(userID)
	if err != nil {
		serviceError(ctx, err, 50003, "failed to load user")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
