package client

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
	"github.com/yigit/scholarship/internal/pkg/validation"
)

// CheckVerifyInput validates identifiers before they are sent to /api/verify
func CheckVerifyInput(aadharNo, capID string) error {
	var problems []string
	switch {
	case aadharNo == "":
		problems = append(problems, "Aadhaar number is required")
	case !validation.IsAadharNumber(aadharNo):
		problems = append(problems, "Aadhaar number must be exactly 12 digits")
	}
	switch {
	case capID == "":
		problems = append(problems, "CAP ID is required")
	case !validation.IsCapID(capID):
		problems = append(problems, "Invalid CAP ID format")
	}
	return checkError("Invalid verification input", problems)
}

// CheckFamilyForm applies the family step rules: occupation required when a
// parent is working, and a PDF/JPEG/PNG marksheet of at most
// validation.MaxMarksheetBytes for every year but the first.
func CheckFamilyForm(form *FamilyForm) error {
	var problems []string

	if form.YearOfStudy < validation.MinYearOfStudy || form.YearOfStudy > validation.MaxYearOfStudy {
		problems = append(problems, "Current year is required")
	}
	if form.FatherWorking && strings.TrimSpace(form.FatherOccupation) == "" {
		problems = append(problems, "Father's occupation is required when working")
	}
	if form.MotherWorking && strings.TrimSpace(form.MotherOccupation) == "" {
		problems = append(problems, "Mother's occupation is required when working")
	}

	if form.YearOfStudy != 1 {
		if form.Marksheet == nil || len(form.Marksheet.Data) == 0 {
			problems = append(problems, "Please upload your previous year marksheet")
		} else {
			problems = append(problems, checkMarksheet(form.Marksheet)...)
		}
	}

	return checkError("Invalid family details", problems)
}

func checkMarksheet(m *Marksheet) []string {
	var problems []string
	if !validation.IsAllowedMarksheetType(mimetype.Detect(m.Data).String()) {
		problems = append(problems, "Please upload a PDF or image file (JPEG/PNG)")
	}
	if int64(len(m.Data)) > validation.MaxMarksheetBytes {
		problems = append(problems, "File size should be less than 5MB")
	}
	return problems
}

func checkError(message string, problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return apperrors.NewValidationError(message).WithDetails(strings.Join(problems, "; "))
}
