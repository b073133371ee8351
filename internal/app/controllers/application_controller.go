package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/app/services"
	"github.com/yigit/scholarship/internal/middleware"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
	"github.com/yigit/scholarship/internal/pkg/logger"
)

// ApplicationController handles the personal and family details steps
type ApplicationController struct {
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
	}
}

// SubmitPersonalDetails creates a new application
// @Summary Submit personal details
// @Description Validates the required fields and creates a new application row
// @Tags applications
// @Accept json
// @Produce json
// @Param request body dto.PersonalDetailsRequest true "Personal and academic details"
// @Success 200 {object} dto.PersonalDetailsResponse "Application created"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 500 {object} dto.ErrorResponse "Failed to save personal details"
// @Router /personal-details [post]
func (c *ApplicationController) SubmitPersonalDetails(ctx *gin.Context) {
	var req dto.PersonalDetailsRequest
	if err := middleware.BindLooseJSON(ctx, &req); err != nil {
		middleware.RespondError(ctx, http.StatusBadRequest, dto.NewErrorResponse("Invalid request body"), err)
		return
	}

	missing, err := middleware.MissingFields(&req)
	if err != nil {
		middleware.RespondError(ctx, http.StatusBadRequest, dto.NewErrorResponse(err.Error()), err)
		return
	}
	if len(missing) > 0 {
		msg := fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", "))
		middleware.RespondError(ctx, http.StatusBadRequest, dto.NewErrorResponse(msg), apperrors.ErrMissingFields)
		return
	}

	id, err := c.applicationService.SubmitPersonalDetails(ctx.Request.Context(), &req)
	if err != nil {
		logger.Ctx(ctx.Request.Context()).Error().Err(err).Msg("Error saving personal details")
		middleware.RespondError(ctx, http.StatusInternalServerError,
			dto.NewErrorResponse("Failed to save personal details").WithDetails(err.Error()), err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PersonalDetailsResponse{
		Message: "Personal details saved successfully",
		ID:      id,
	})
}

// SubmitFamilyDetails stores family and employment details on an application
// @Summary Submit family details
// @Description Updates the application given by application_id, or the most recent application when omitted, and stores the optional marksheet
// @Tags applications
// @Accept multipart/form-data
// @Produce json
// @Param application_id formData string false "Target application ID"
// @Param student_salaried formData string false "true or false"
// @Param father_alive formData string false "true or false"
// @Param father_working formData string false "true or false"
// @Param father_occupation formData string false "Father's occupation"
// @Param mother_alive formData string false "true or false"
// @Param mother_working formData string false "true or false"
// @Param mother_occupation formData string false "Mother's occupation"
// @Param current_year formData string true "Year of study (1-4)"
// @Param marksheet formData file false "Previous year marksheet (PDF, JPEG or PNG)"
// @Success 200 {object} dto.FamilyDetailsResponse "Family details saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid family details"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to save family details"
// @Router /family-details [post]
func (c *ApplicationController) SubmitFamilyDetails(ctx *gin.Context) {
	var form dto.FamilyDetailsForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Invalid family details").WithDetails(err.Error()), "")
		return
	}

	marksheet, err := ctx.FormFile("marksheet")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			logger.Ctx(ctx.Request.Context()).Debug().Err(err).Msg("No marksheet in family details request")
		}
		marksheet = nil
	}

	id, err := c.applicationService.SubmitFamilyDetails(ctx.Request.Context(), &services.FamilyDetailsInput{
		Form:      form,
		Marksheet: marksheet,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrInvalidUpload, apperrors.ErrApplicationNotFound) {
			middleware.HandleAPIError(ctx, err, "")
			return
		}
		logger.Ctx(ctx.Request.Context()).Error().Err(err).Msg("Error saving family details")
		middleware.RespondError(ctx, http.StatusInternalServerError,
			dto.NewErrorResponse("Failed to save family details").WithDetails(err.Error()), err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FamilyDetailsResponse{
		Message:       "Family details saved successfully",
		ApplicationID: id,
	})
}
