package user

import (
	"errors"
	"net/http"
	"strconv"

	"lingoquiz-backend/internal/dto"
	"lingoquiz-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultLeaderboardSize = 10

type ProfileController struct {
	userService        service.UserService
	progressService    service.ProgressService
	achievementService service.AchievementService
}

func NewProfileController(us service.UserService, ps service.ProgressService, as service.AchievementService) *ProfileController {
	return &ProfileController{userService: us, progressService: ps, achievementService: as}
}

// GetProfile godoc
// @Summary (User) Get a user's profile
// @Description Get a user's profile with level title, points to the next level and aggregate stats.
// @Tags User - Profile
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.UserProfileDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	userID, ok := pathID(ctx, "user_id")
	if !ok {
		return
	}
	profile, err := c.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "User not found"})
			return
		}
		log.Error().Err(err).Uint("userID", userID).Msg("GetProfile: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve profile", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// GetUserProgress godoc
// @Summary (User) List a user's per-test progress
// @Description Get all progress records for a user, most recent attempt first.
// @Tags User - Profile
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.ProgressDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/progress [get]
func (c *ProfileController) GetUserProgress(ctx *gin.Context) {
	userID, ok := pathID(ctx, "user_id")
	if !ok {
		return
	}
	progress, err := c.progressService.GetUserProgress(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserProgress: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve progress", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, progress)
}

// GetProgressSummary godoc
// @Summary (User) Get a user's progress summary
// @Description Get per-category completion counts and stars for a user.
// @Tags User - Profile
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.ProgressSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/progress/summary [get]
func (c *ProfileController) GetProgressSummary(ctx *gin.Context) {
	userID, ok := pathID(ctx, "user_id")
	if !ok {
		return
	}
	summary, err := c.progressService.GetUserProgressSummary(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetProgressSummary: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve progress summary", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GetAchievements godoc
// @Summary (User) List achievements
// @Description Get the achievement catalog. If 'user_id' is provided, earned achievements are flagged and hidden ones the user earned are included.
// @Tags User - Profile
// @Produce json
// @Param user_id query int false "Optional user ID to flag earned achievements"
// @Success 200 {array} dto.AchievementDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid User ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /achievements [get]
func (c *ProfileController) GetAchievements(ctx *gin.Context) {
	userID, ok := optionalUserID(ctx)
	if !ok {
		return
	}
	achievements, err := c.achievementService.ListAchievements(userID)
	if err != nil {
		log.Error().Err(err).Msg("GetAchievements: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve achievements", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, achievements)
}

// GetLeaderboard godoc
// @Summary (User) Get the points leaderboard
// @Description Get the top users by total points. If 'user_id' is provided, the response includes that user's rank and closest neighbors by points.
// @Tags User - Profile
// @Produce json
// @Param limit query int false "Number of entries to return (default 10)"
// @Param user_id query int false "Optional user ID to include the caller's rank"
// @Success 200 {object} dto.LeaderboardDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid query format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /leaderboard [get]
func (c *ProfileController) GetLeaderboard(ctx *gin.Context) {
	limit := defaultLeaderboardSize
	if raw := ctx.Query("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 1 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit format in query"})
			return
		}
		limit = val
	}
	userID, ok := optionalUserID(ctx)
	if !ok {
		return
	}

	leaderboard, err := c.userService.GetLeaderboard(userID, limit)
	if err != nil {
		log.Error().Err(err).Msg("GetLeaderboard: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve leaderboard", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, leaderboard)
}
