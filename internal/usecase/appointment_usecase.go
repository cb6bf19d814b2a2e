package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-scheduling-api/internal/converter"
	"clinic-scheduling-api/internal/delivery/dto"
	"clinic-scheduling-api/internal/domain/entity"
	"clinic-scheduling-api/internal/domain/repository"
	"clinic-scheduling-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrSlotTaken           = errors.New("Doctor is already booked for this slot.")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentNotOwned = errors.New("appointment does not belong to you")
	ErrAlreadyCancelled    = errors.New("appointment is already cancelled")
	ErrInvalidDate         = errors.New("invalid date format, use YYYY-MM-DD")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	List(ctx context.Context) (*dto.AppointmentListResponse, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID) error
}

type appointmentUsecase struct {
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	availabilityRepo repository.AvailabilityRepository
	auditService     service.AuditService
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	availabilityRepo repository.AvailabilityRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:              log,
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		auditService:     auditService,
	}
}

// Book creates an appointment for the calling member against a doctor's
// recurring availability.
//
// Flow:
//  1. Resolve the doctor's rule for the requested weekday and derive the
//     end time (slot resolver; any failure is a client-facing conflict).
//  2. Pre-check for a non-cancelled appointment at the same slot.
//  3. Insert. The partial unique index on (doctor_id, date, start_time)
//     is the final arbiter: losing a race between steps 2 and 3 surfaces
//     as a unique violation and is reported as the same slot-taken
//     outcome as the pre-check, so callers cannot tell the paths apart.
//
// Exactly one row exists on success, zero on any failure.
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	dayOfWeek := entity.MondayIndexedWeekday(date.Weekday())
	rule, err := u.availabilityRepo.FindByDoctorAndDay(ctx, req.DoctorID, dayOfWeek)
	if err != nil {
		u.log.Errorf("Failed to load availability for doctor %s day %d: %+v", req.DoctorID, dayOfWeek, err)
		return nil, err
	}

	endTime, err := resolveSlot(rule, req.StartTime)
	if err != nil {
		return nil, err
	}

	conflict, err := u.appointmentRepo.FindConflict(ctx, req.DoctorID, date, req.StartTime)
	if err != nil {
		u.log.Errorf("Failed conflict check for doctor %s at %s %s: %+v", req.DoctorID, req.Date, req.StartTime, err)
		return nil, err
	}
	if conflict != nil {
		return nil, ErrSlotTaken
	}

	appointment := &entity.Appointment{
		PatientID: actor.UserID,
		DoctorID:  req.DoctorID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   endTime,
		Status:    entity.AppointmentStatusScheduled,
		Reason:    req.Reason,
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		if isDuplicateKeyError(err, entity.UniqDoctorSlotConstraint) {
			// Lost the race against a concurrent booking after the
			// pre-check passed.
			return nil, ErrSlotTaken
		}
		u.log.Errorf("Failed to create appointment for doctor %s at %s %s: %+v", req.DoctorID, req.Date, req.StartTime, err)
		return nil, err
	}

	u.auditService.Record(ctx, &actor.UserID, entity.AuditActionBookingCreate, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_id":      req.DoctorID.String(),
		"date":           req.Date,
		"start_time":     req.StartTime,
	})

	u.log.Infof("Appointment booked: id=%s, doctor=%s, date=%s, start=%s", appointment.ID, req.DoctorID, req.Date, req.StartTime)
	return converter.AppointmentToResponse(appointment), nil
}

type listScope int

const (
	scopeAll listScope = iota
	scopeDoctor
	scopePatient
)

// appointmentScope maps the caller's role to the set of appointments it
// may list: admins see everything, doctors their own schedule, members
// their own bookings.
func appointmentScope(actor entity.Actor) listScope {
	switch actor.Role {
	case entity.RoleAdmin:
		return scopeAll
	case entity.RoleDoctor:
		return scopeDoctor
	default:
		return scopePatient
	}
}

func (u *appointmentUsecase) List(ctx context.Context) (*dto.AppointmentListResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	var appointments []entity.Appointment
	switch appointmentScope(actor) {
	case scopeAll:
		appointments, err = u.appointmentRepo.FindAll(ctx)
	case scopeDoctor:
		appointments, err = u.appointmentRepo.FindByDoctor(ctx, actor.UserID)
	default:
		appointments, err = u.appointmentRepo.FindByPatient(ctx, actor.UserID)
	}
	if err != nil {
		u.log.Errorf("Failed to list appointments for user %s: %+v", actor.UserID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// Cancel flips a scheduled appointment to cancelled, removing it from
// the uniqueness scope so the slot can be rebooked. Only the patient or
// the doctor on the row may cancel it.
func (u *appointmentUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Errorf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if !appointment.InvolvedWith(actor.UserID) {
		return ErrAppointmentNotOwned
	}
	if appointment.IsCancelled() {
		return ErrAlreadyCancelled
	}

	affected, err := u.appointmentRepo.Cancel(ctx, appointmentID)
	if err != nil {
		u.log.Errorf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}
	if affected == 0 {
		// A concurrent cancel got there first.
		return ErrAlreadyCancelled
	}

	u.auditService.Record(ctx, &actor.UserID, entity.AuditActionBookingCancel, entity.JSON{
		"appointment_id": appointmentID.String(),
	})

	u.log.Infof("Appointment cancelled: id=%s, by=%s", appointmentID, actor.UserID)
	return nil
}
