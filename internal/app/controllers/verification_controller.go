package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/app/services"
	"github.com/yigit/scholarship/internal/middleware"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
)

// VerifiedDataCookie is the cookie clients store the verification result in
const VerifiedDataCookie = "verifiedData"

// VerificationController handles identity verification and the verified-data relay
type VerificationController struct {
	verificationService services.VerificationService
}

// NewVerificationController creates a new VerificationController
func NewVerificationController(verificationService services.VerificationService) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
	}
}

// Verify looks up an Aadhaar number and a CAP ID
// @Summary Verify identity
// @Description Fetches the Aadhaar and CAP reference records. A missing Aadhaar record is reported first.
// @Tags verification
// @Accept json
// @Produce json
// @Param request body dto.VerifyRequest true "Aadhaar number and CAP ID"
// @Success 200 {object} dto.VerifyResponse "Both records found"
// @Failure 400 {object} dto.ErrorResponse "Malformed request body"
// @Failure 404 {object} dto.ErrorResponse "Aadhaar number or CAP ID not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /verify [post]
func (c *VerificationController) Verify(ctx *gin.Context) {
	var req dto.VerifyRequest
	if err := middleware.BindLooseJSON(ctx, &req); err != nil {
		middleware.RespondError(ctx, http.StatusBadRequest, dto.NewErrorResponse("Invalid request body"), err)
		return
	}

	data, err := c.verificationService.Verify(ctx.Request.Context(), &req)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrAadharNotFound, apperrors.ErrCapNotFound) {
			middleware.RespondError(ctx, http.StatusNotFound, dto.NewErrorResponse(err.Error()), err)
			return
		}
		middleware.RespondError(ctx, http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"), err)
		return
	}

	ctx.JSON(http.StatusOK, data)
}

// GetVerifiedData returns the verification result stored in the verifiedData cookie
// @Summary Get verified data
// @Description Parses the verifiedData cookie and returns its JSON content
// @Tags verification
// @Produce json
// @Success 200 {object} dto.VerifyResponse "Stored verification result"
// @Failure 404 {object} dto.ErrorResponse "No verified data found"
// @Failure 500 {object} dto.ErrorResponse "Invalid data format"
// @Router /get-verified-data [get]
func (c *VerificationController) GetVerifiedData(ctx *gin.Context) {
	// gin URL-unescapes cookie values
	raw, err := ctx.Cookie(VerifiedDataCookie)
	if err != nil || raw == "" {
		middleware.RespondError(ctx, http.StatusNotFound, dto.NewErrorResponse("No verified data found"), apperrors.ErrCookieMissing)
		return
	}

	if !json.Valid([]byte(raw)) {
		middleware.RespondError(ctx, http.StatusInternalServerError, dto.NewErrorResponse("Invalid data format"),
			errors.Join(apperrors.ErrCookieUnparseable, errors.New("verifiedData cookie is not valid JSON")))
		return
	}

	ctx.JSON(http.StatusOK, json.RawMessage(raw))
}
