package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PatelKrish-16/crease/config"
	"github.com/PatelKrish-16/crease/internal/middleware"
	"github.com/PatelKrish-16/crease/internal/user"
	"github.com/PatelKrish-16/crease/pkg/responses"
	"github.com/PatelKrish-16/crease/pkg/token"
	pkgutils "github.com/PatelKrish-16/crease/pkg/utils"
	"github.com/PatelKrish-16/crease/utils"
)

const refreshTokenLength = 64

// AuthController handles registration, login and token lifecycle.
type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, config: cfg}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account. The first registered user may be given the admin role via the role field; thereafter only admins should create privileged accounts.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration request"
// @Success 201 {object} responses.SuccessResponse{data=UserResponse}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 409 {object} responses.ErrorResponse "Email or username already taken"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	if existing, _ := ac.repo.FindUserByEmail(req.Email); existing != nil {
		responses.Conflict(c, "A user with this email already exists")
		return
	}
	if existing, _ := ac.repo.FindUserByUsername(req.Username); existing != nil {
		responses.Conflict(c, "This username is already taken")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Failed to hash password")
		return
	}

	role := req.Role
	if role == "" {
		role = user.RoleViewer
	}

	u := user.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
	}

	if err := ac.repo.CreateUser(&u); err != nil {
		responses.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "User registered successfully", FilterUserRecord(&u))
}

// Login godoc
// @Summary Log in
// @Description Authenticates by email or username and returns an access / refresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 401 {object} responses.ErrorResponse "Invalid credentials"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	u, err := ac.repo.FindUserByEmail(req.LoginIdentifier)
	if err != nil {
		responses.InternalServerError(c, "Login failed: "+err.Error())
		return
	}
	if u == nil {
		u, err = ac.repo.FindUserByUsername(req.LoginIdentifier)
		if err != nil {
			responses.InternalServerError(c, "Login failed: "+err.Error())
			return
		}
	}
	if u == nil || !utils.CheckPassword(u.Password, req.Password) {
		responses.Unauthorized(c, "Invalid credentials")
		return
	}

	authResponse, err := ac.issueTokens(u)
	if err != nil {
		responses.InternalServerError(c, "Failed to issue tokens: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Logged in successfully", authResponse)
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param refresh body RefreshTokenRequest true "Refresh token request"
// @Success 200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure 401 {object} responses.ErrorResponse "Invalid or expired refresh token"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	stored, err := ac.repo.FindRefreshToken(req.RefreshToken)
	if err != nil {
		responses.InternalServerError(c, "Failed to validate refresh token: "+err.Error())
		return
	}
	if stored == nil {
		responses.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	u, err := ac.repo.FindUserByID(stored.UserID)
	if err != nil || u == nil {
		responses.Unauthorized(c, "User for this token no longer exists")
		return
	}

	// Rotate: the old token is single-use.
	if err := ac.repo.DeleteRefreshToken(req.RefreshToken); err != nil {
		responses.InternalServerError(c, "Failed to rotate refresh token: "+err.Error())
		return
	}

	authResponse, err := ac.issueTokens(u)
	if err != nil {
		responses.InternalServerError(c, "Failed to issue tokens: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Token refreshed successfully", authResponse)
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=UserResponse}
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
// @Security BearerAuth
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	u, err := ac.repo.FindUserByID(userID)
	if err != nil || u == nil {
		responses.NotFound(c, "User")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Profile retrieved successfully", FilterUserRecord(u))
}

// ChangePassword godoc
// @Summary Change the authenticated user's password
// @Description Changing the password revokes every active session
// @Tags Auth
// @Accept json
// @Produce json
// @Param passwords body ChangePasswordRequest true "Password change request"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse "Validation error or wrong old password"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /auth/change-password [post]
// @Security BearerAuth
func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	u, err := ac.repo.FindUserByID(userID)
	if err != nil || u == nil {
		responses.NotFound(c, "User")
		return
	}

	if !utils.CheckPassword(u.Password, req.OldPassword) {
		responses.BadRequest(c, "Old password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		responses.InternalServerError(c, "Failed to hash password")
		return
	}
	u.Password = hashed

	if err := ac.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, "Failed to update password: "+err.Error())
		return
	}

	if err := ac.repo.DeleteUserRefreshTokens(userID); err != nil {
		responses.InternalServerError(c, "Password changed but failed to revoke sessions: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Password changed successfully. Please log in again.", nil)
}

// Logout godoc
// @Summary Log out
// @Description Invalidates the given refresh token, or every session when invalidate_all_sessions is set
// @Tags Auth
// @Accept json
// @Produce json
// @Param logout body LogoutRequest true "Logout request"
// @Success 200 {object} responses.SuccessResponse
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
// @Security BearerAuth
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var req LogoutRequest
	_ = c.ShouldBindJSON(&req) // Body is optional

	if req.InvalidateAllSessions {
		if err := ac.repo.DeleteUserRefreshTokens(userID); err != nil {
			responses.InternalServerError(c, "Failed to invalidate sessions: "+err.Error())
			return
		}
	} else if req.RefreshToken != "" {
		if err := ac.repo.DeleteRefreshToken(req.RefreshToken); err != nil {
			responses.InternalServerError(c, "Failed to invalidate session: "+err.Error())
			return
		}
	}

	responses.SendSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

// issueTokens creates a signed access token and a stored refresh token.
func (ac *AuthController) issueTokens(u *user.User) (*AuthResponse, error) {
	accessToken, err := token.GenerateJWT(u.ID, u.Role, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return nil, err
	}

	refresh := RefreshToken{
		UserID:    u.ID,
		Token:     pkgutils.GenerateRandomToken(refreshTokenLength),
		ExpiresAt: time.Now().AddDate(0, 0, ac.config.JWT.RefreshTokenExpiryDays),
	}
	if err := ac.repo.CreateRefreshToken(&refresh); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		User:         FilterUserRecord(u),
	}, nil
}
