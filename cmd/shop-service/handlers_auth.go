package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookhaven/bookshop/internal/auth"
	"github.com/bookhaven/bookshop/internal/user"
)

// registerHandler godoc
// @Summary  Register a customer account
// @Accept   json
// @Produce  json
// @Param    body body user.RegisterRequest true "registration form"
// @Success  201 {object} map[string]interface{}
// @Router   /register [post]
func registerHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		if errs := req.Validate(); len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
			return
		}
		u, err := users.Register(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"success": false, "errors": gin.H{"email": "Email already exists."}})
				return
			}
			fail(c, http.StatusInternalServerError, "registration failed, please try again")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "user": u})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// loginHandler godoc
// @Summary  Log in and receive a bearer token
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "credentials"
// @Success  200 {object} map[string]interface{}
// @Router   /login [post]
func loginHandler(users *user.Service, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "email and password are required")
			return
		}
		ident, err := users.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrDeactivated):
				fail(c, http.StatusForbidden, "Your account has been deactivated. Please contact admin.")
			case errors.Is(err, user.ErrBadCredentials):
				fail(c, http.StatusUnauthorized, "Incorrect email or password.")
			default:
				fail(c, http.StatusInternalServerError, "login failed, please try again")
			}
			return
		}
		tok, err := tokens.Issue(ident)
		if err != nil {
			fail(c, http.StatusInternalServerError, "login failed, please try again")
			return
		}
		ok(c, gin.H{"token": tok, "role": ident.Role, "name": ident.Name})
	}
}
