package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farmstand/marketplace/internal/application"
	"github.com/farmstand/marketplace/internal/domain/entity"
	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/pkg/session"
	"github.com/farmstand/marketplace/pkg/validation"
)

// AuthHandler covers registration, login, and logout.
type AuthHandler struct {
	base
	Users *application.UserService
}

func NewAuthHandler(users *application.UserService, sessions session.Store, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{base: base{Sessions: sessions, Logger: logger}, Users: users}
}

type registerForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
	UserType string `form:"user_type" binding:"required,usertype"`
	FarmName string `form:"farm_name"`
	Address  string `form:"address"`
	City     string `form:"city"`
	State    string `form:"state"`
	Zipcode  string `form:"zipcode"`
}

// RegisterForm GET /register
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	h.view(c, gin.H{"user_types": []string{entity.UserTypeFarmer, entity.UserTypeCustomer}}, "register")
}

// Register POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		if h.Logger != nil {
			h.Logger.WithField("details", validation.ToDetails(err)).Info("registration form rejected")
		}
		h.redirect(c, "/register", session.LevelError, "Please fill all required fields including profile picture")
		return
	}
	picture, err := c.FormFile("profile_picture")
	if err != nil {
		h.redirect(c, "/register", session.LevelError, "Please fill all required fields including profile picture")
		return
	}

	_, err = h.Users.Register(c.Request.Context(), application.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		UserType: form.UserType,
		FarmName: form.FarmName,
		Address:  form.Address,
		City:     form.City,
		State:    form.State,
		Zipcode:  form.Zipcode,
	}, picture)
	if err != nil {
		if msg := application.ValidationMessage(err); msg != "" {
			h.redirect(c, "/register", session.LevelError, msg)
			return
		}
		h.fail(c, err, "/register", "Account creation failed. Please try again.")
		return
	}

	h.redirect(c, "/login", session.LevelSuccess, "Account created successfully! Please login.")
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginForm GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.view(c, gin.H{}, "login")
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.redirect(c, "/login", session.LevelError, "Please enter both email and password")
		return
	}

	u, err := h.Users.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			h.redirect(c, "/login", session.LevelError, "Invalid email or password")
			return
		}
		h.fail(c, err, "/login", "Login failed. Please try again.")
		return
	}

	sid := middleware.SessionID(c)
	sess := session.Session{UserID: u.ID.Hex(), UserType: u.UserType, Name: u.Name}
	if err := h.Sessions.Set(c.Request.Context(), sid, sess); err != nil {
		h.fail(c, err, "/login", "Login failed. Please try again.")
		return
	}

	h.redirect(c, "/dashboard", session.LevelSuccess, "Login successful!")
}

// Logout GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Sessions.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil && h.Logger != nil {
		h.Logger.WithError(err).Warn("session clear failed")
	}
	h.redirect(c, "/", session.LevelInfo, "You have been logged out")
}
