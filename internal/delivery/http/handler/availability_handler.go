package handler

import (
	"encoding/json"
	"net/http"

	"clinic-scheduling-api/internal/delivery/dto"
	"clinic-scheduling-api/internal/usecase"
	"clinic-scheduling-api/pkg/response"
	"clinic-scheduling-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// SetAvailability sets the calling doctor's rule for one weekday
// @Summary Set availability
// @Description Create or overwrite the calling doctor's availability for a day of week (doctor only)
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SetAvailabilityRequest true "Set Availability Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /availability [put]
func (h *AvailabilityHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req dto.SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rule, err := h.availabilityUsecase.SetAvailability(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to set availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability saved successfully", rule)
}

// GetMine lists the calling doctor's availability rules
// @Summary Get own availability
// @Description List the calling doctor's weekly availability (doctor only)
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /availability/mine [get]
func (h *AvailabilityHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	rules, err := h.availabilityUsecase.GetMine(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", rules)
}

// GetForDoctor lists a doctor's availability rules
// @Summary Get a doctor's availability
// @Description List a doctor's weekly availability
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param doctorId path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctors/{doctorId}/availability [get]
func (h *AvailabilityHandler) GetForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	rules, err := h.availabilityUsecase.GetForDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", rules)
}
