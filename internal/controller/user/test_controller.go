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

type TestController struct {
	testService     service.TestService
	progressService service.ProgressService
}

func NewTestController(ts service.TestService, ps service.ProgressService) *TestController {
	return &TestController{testService: ts, progressService: ps}
}

// GetCategories godoc
// @Summary (User) List active categories
// @Description Get the active test categories in display order. If 'user_id' is provided, each entry includes that user's completion stats.
// @Tags User - Tests
// @Produce json
// @Param user_id query int false "Optional user ID to attach completion stats"
// @Success 200 {array} dto.CategoryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /categories [get]
func (c *TestController) GetCategories(ctx *gin.Context) {
	userID, ok := optionalUserID(ctx)
	if !ok {
		return
	}
	categories, err := c.testService.GetCategories(userID)
	if err != nil {
		log.Error().Err(err).Msg("User GetCategories: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve categories", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// GetTests godoc
// @Summary (User) List published tests
// @Description Get published tests, optionally filtered by category. If 'user_id' is provided, each entry includes that user's progress.
// @Tags User - Tests
// @Produce json
// @Param category_id query int false "Filter by category ID"
// @Param user_id query int false "Optional user ID to attach progress to each test"
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests [get]
func (c *TestController) GetTests(ctx *gin.Context) {
	var categoryID *uint
	if raw := ctx.Query("category_id"); raw != "" {
		val, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid category ID format in query"})
			return
		}
		cID := uint(val)
		categoryID = &cID
	}
	userID, ok := optionalUserID(ctx)
	if !ok {
		return
	}

	tests, err := c.testService.GetTests(categoryID, userID)
	if err != nil {
		log.Error().Err(err).Msg("User GetTests: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve tests", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTestDetails godoc
// @Summary (User) Get details of a specific test
// @Description Get a test with its questions and answer options. Correctness flags and match targets are not included.
// @Tags User - Tests
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Test ID format"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests/{test_id} [get]
func (c *TestController) GetTestDetails(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}
	details, err := c.testService.GetTestDetails(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Test not found"})
			return
		}
		log.Error().Err(err).Uint("testID", testID).Msg("User GetTestDetails: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve test", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// SubmitTest godoc
// @Summary (User) Submit answers for a test
// @Description Score the submitted answers, update the user's progress, streak, points and level, and evaluate achievements. The whole update is atomic.
// @Tags User - Tests
// @Accept json
// @Produce json
// @Param test_id path int true "ID of the test being submitted"
// @Param submission body dto.SubmitTestRequest true "User ID and answers"
// @Success 200 {object} dto.SubmitTestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Test or user not found"
// @Failure 500 {object} dto.ErrorResponse "Error processing submission"
// @Router /tests/{test_id}/submissions [post]
func (c *TestController) SubmitTest(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}

	var req dto.SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User SubmitTest: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	log.Info().Uint("testID", testID).Uint("userID", req.UserID).Int("answerCount", len(req.Answers)).Msg("Received test submission")

	resp, err := c.progressService.SubmitTest(testID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint("testID", testID).Uint("userID", req.UserID).Msg("User SubmitTest: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to submit test", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// pathID parses a uint path parameter, writing a 400 response on failure.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

// optionalUserID parses the optional user_id query param. The bool is false
// only when the param was present but malformed (a 400 has been written).
func optionalUserID(ctx *gin.Context) (*uint, bool) {
	raw := ctx.Query("user_id")
	if raw == "" {
		return nil, true
	}
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format in query"})
		return nil, false
	}
	uID := uint(val)
	return &uID, true
}
