package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farmstand/marketplace/internal/application"
	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/pkg/session"
)

// ProfileHandler covers the profile view and its four update operations.
// Each POST applies a partial update; fields absent from the form are never
// touched in the stored record.
type ProfileHandler struct {
	base
	Users *application.UserService
}

func NewProfileHandler(users *application.UserService, sessions session.Store, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{base: base{Sessions: sessions, Logger: logger}, Users: users}
}

// Show GET /profile
func (h *ProfileHandler) Show(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	u, err := h.Users.Profile(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			// Account gone from the store: drop the session and steer the
			// visitor back to registration.
			_ = h.Sessions.Clear(c.Request.Context(), middleware.SessionID(c))
			h.redirect(c, "/register", session.LevelError, "Account not found")
			return
		}
		h.fail(c, err, "/dashboard", "Failed to load profile. Please try again.")
		return
	}
	h.view(c, gin.H{"user": u}, "profile")
}

// UpdateProfile POST /update_profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	in := application.UpdateProfileInput{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		Description: c.PostForm("description"),
		FarmName:    c.PostForm("farm_name"),
		Address:     c.PostForm("address"),
		City:        c.PostForm("city"),
		State:       c.PostForm("state"),
		Zipcode:     c.PostForm("zipcode"),
	}
	if err := h.Users.UpdateProfile(c.Request.Context(), sess.UserID, sess.IsFarmer(), in); err != nil {
		h.fail(c, err, "/profile", "Failed to update profile")
		return
	}
	h.redirect(c, "/profile", session.LevelSuccess, "Profile updated successfully!")
}

// UpdatePicture POST /update_profile_picture
func (h *ProfileHandler) UpdatePicture(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	picture, err := c.FormFile("profile_picture")
	if err != nil {
		h.redirect(c, "/profile", session.LevelError, "No file selected")
		return
	}
	if _, err := h.Users.UpdateProfilePicture(c.Request.Context(), sess.UserID, picture); err != nil {
		if msg := application.ValidationMessage(err); msg != "" {
			h.redirect(c, "/profile", session.LevelError, msg)
			return
		}
		h.fail(c, err, "/profile", "Error updating profile picture")
		return
	}
	h.redirect(c, "/profile", session.LevelSuccess, "Profile picture updated successfully!")
}

// UpdateSocialLinks POST /update_social_links
func (h *ProfileHandler) UpdateSocialLinks(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	links := map[string]string{
		"facebook":  c.PostForm("facebook"),
		"twitter":   c.PostForm("twitter"),
		"instagram": c.PostForm("instagram"),
		"youtube":   c.PostForm("youtube"),
	}
	if err := h.Users.UpdateSocialLinks(c.Request.Context(), sess.UserID, links); err != nil {
		h.fail(c, err, "/profile", "Failed to update social links")
		return
	}
	h.redirect(c, "/profile", session.LevelSuccess, "Social links updated!")
}

// ChangePassword POST /change_password
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	current := c.PostForm("current_password")
	newPwd := c.PostForm("new_password")
	confirm := c.PostForm("confirm_password")
	if current == "" || newPwd == "" || confirm == "" {
		h.redirect(c, "/profile", session.LevelError, "Failed to change password")
		return
	}
	if err := h.Users.ChangePassword(c.Request.Context(), sess.UserID, current, newPwd, confirm); err != nil {
		if msg := application.ValidationMessage(err); msg != "" {
			h.redirect(c, "/profile", session.LevelError, msg)
			return
		}
		h.fail(c, err, "/profile", "Failed to change password")
		return
	}
	h.redirect(c, "/profile", session.LevelSuccess, "Password updated successfully!")
}
