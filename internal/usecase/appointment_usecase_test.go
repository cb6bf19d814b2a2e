package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"clinic-scheduling-api/internal/delivery/dto"
	"clinic-scheduling-api/internal/domain/entity"

	"github.com/google/uuid"
)

type appointmentFixture struct {
	usecase          AppointmentUsecase
	appointmentRepo  *mockAppointmentRepo
	availabilityRepo *mockAvailabilityRepo
	audit            *recordingAuditService
	doctorID         uuid.UUID
	patientID        uuid.UUID
}

// newAppointmentFixture wires the usecase against in-memory stores with
// the doctor available 09:00-17:00 on Mondays in 30 minute slots.
// 2026-09-07 is a Monday.
func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	f := &appointmentFixture{
		appointmentRepo:  newMockAppointmentRepo(),
		availabilityRepo: newMockAvailabilityRepo(),
		audit:            &recordingAuditService{},
		doctorID:         uuid.New(),
		patientID:        uuid.New(),
	}

	rule := &entity.DoctorAvailability{
		DoctorID:            f.doctorID,
		DayOfWeek:           entity.DayMonday,
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 30,
		IsActive:            true,
	}
	if err := f.availabilityRepo.Upsert(context.Background(), rule); err != nil {
		t.Fatalf("seed availability: %v", err)
	}

	f.usecase = NewAppointmentUsecase(testLogger(), f.appointmentRepo, f.availabilityRepo, f.audit)
	return f
}

func (f *appointmentFixture) bookRequest(startTime string) *dto.BookAppointmentRequest {
	return &dto.BookAppointmentRequest{
		DoctorID:  f.doctorID,
		Date:      "2026-09-07",
		StartTime: startTime,
		Reason:    "checkup",
	}
}

func TestBookAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := actorContext(f.patientID, entity.RoleMember)

	appointment, err := f.usecase.Book(ctx, f.bookRequest("10:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if appointment.EndTime != "10:30" {
		t.Fatalf("end time = %q, want 10:30", appointment.EndTime)
	}
	if appointment.PatientID != f.patientID {
		t.Fatalf("patient = %s, want %s", appointment.PatientID, f.patientID)
	}
	if appointment.Status != string(entity.AppointmentStatusScheduled) {
		t.Fatalf("status = %q, want scheduled", appointment.Status)
	}
	if appointment.Date != "2026-09-07" {
		t.Fatalf("date = %q, want 2026-09-07", appointment.Date)
	}
}

func TestBookDoctorUnavailableDay(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := actorContext(f.patientID, entity.RoleMember)

	// 2026-09-08 is a Tuesday, no rule exists for it.
	req := f.bookRequest("10:00")
	req.Date = "2026-09-08"

	_, err := f.usecase.Book(ctx, req)
	if !errors.Is(err, ErrDoctorUnavailable) {
		t.Fatalf("got %v, want ErrDoctorUnavailable", err)
	}
}

func TestBookOutsideWindow(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := actorContext(f.patientID, entity.RoleMember)

	_, err := f.usecase.Book(ctx, f.bookRequest("08:00"))
	var outsideWindow *OutsideWindowError
	if !errors.As(err, &outsideWindow) {
		t.Fatalf("early start: got %v, want *OutsideWindowError", err)
	}
	if outsideWindow.Message != "Doctor starts at 09:00" {
		t.Fatalf("message = %q", outsideWindow.Message)
	}

	_, err = f.usecase.Book(ctx, f.bookRequest("16:45"))
	if !errors.As(err, &outsideWindow) {
		t.Fatalf("overrun: got %v, want *OutsideWindowError", err)
	}
	if outsideWindow.Message != "Appointment exceeds doctor's working hours (ends at 17:00)" {
		t.Fatalf("message = %q", outsideWindow.Message)
	}
}

func TestBookInvalidDate(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := actorContext(f.patientID, entity.RoleMember)

	req := f.bookRequest("10:00")
	req.Date = "07-09-2026"

	if _, err := f.usecase.Book(ctx, req); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("got %v, want ErrInvalidDate", err)
	}
}

func TestBookSlotTaken(t *testing.T) {
	f := newAppointmentFixture(t)

	if _, err := f.usecase.Book(actorContext(f.patientID, entity.RoleMember), f.bookRequest("10:00")); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	otherPatient := uuid.New()
	_, err := f.usecase.Book(actorContext(otherPatient, entity.RoleMember), f.bookRequest("10:00"))
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("got %v, want ErrSlotTaken", err)
	}
	if err.Error() != "Doctor is already booked for this slot." {
		t.Fatalf("message = %q", err.Error())
	}

	// An adjacent slot is unaffected.
	if _, err := f.usecase.Book(actorContext(otherPatient, entity.RoleMember), f.bookRequest("10:30")); err != nil {
		t.Fatalf("adjacent slot: %v", err)
	}
}

func TestBookConcurrentSameSlot(t *testing.T) {
	f := newAppointmentFixture(t)

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := actorContext(uuid.New(), entity.RoleMember)
			_, err := f.usecase.Book(ctx, f.bookRequest("11:00"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, taken int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Fatalf("successful bookings = %d, want exactly 1", succeeded)
	}
	if taken != workers-1 {
		t.Fatalf("slot-taken rejections = %d, want %d", taken, workers-1)
	}
}

func TestCancelAndRebook(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := actorContext(f.patientID, entity.RoleMember)

	appointment, err := f.usecase.Book(ctx, f.bookRequest("14:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := f.usecase.Cancel(ctx, appointment.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Cancelled rows leave the uniqueness scope, freeing the slot.
	rebooked, err := f.usecase.Book(actorContext(uuid.New(), entity.RoleMember), f.bookRequest("14:00"))
	if err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
	if rebooked.ID == appointment.ID {
		t.Fatal("rebooking must create a new row")
	}
}

func TestCancelNotFound(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := actorContext(f.patientID, entity.RoleMember)

	err := f.usecase.Cancel(ctx, uuid.New())
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("got %v, want ErrAppointmentNotFound", err)
	}
}

func TestCancelPermissions(t *testing.T) {
	f := newAppointmentFixture(t)
	patientCtx := actorContext(f.patientID, entity.RoleMember)

	appointment, err := f.usecase.Book(patientCtx, f.bookRequest("15:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// A stranger cannot cancel.
	err = f.usecase.Cancel(actorContext(uuid.New(), entity.RoleMember), appointment.ID)
	if !errors.Is(err, ErrAppointmentNotOwned) {
		t.Fatalf("stranger cancel: got %v, want ErrAppointmentNotOwned", err)
	}

	// The doctor on the appointment can.
	if err := f.usecase.Cancel(actorContext(f.doctorID, entity.RoleDoctor), appointment.ID); err != nil {
		t.Fatalf("doctor cancel: %v", err)
	}

	// A second cancel is rejected.
	err = f.usecase.Cancel(patientCtx, appointment.ID)
	if !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("double cancel: got %v, want ErrAlreadyCancelled", err)
	}
}

func TestAppointmentScope(t *testing.T) {
	tests := []struct {
		role string
		want listScope
	}{
		{entity.RoleAdmin, scopeAll},
		{entity.RoleDoctor, scopeDoctor},
		{entity.RoleMember, scopePatient},
		{"", scopePatient},
	}
	for _, tt := range tests {
		got := appointmentScope(entity.Actor{UserID: uuid.New(), Role: tt.role})
		if got != tt.want {
			t.Errorf("scope(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestListByRole(t *testing.T) {
	f := newAppointmentFixture(t)

	otherPatient := uuid.New()
	if _, err := f.usecase.Book(actorContext(f.patientID, entity.RoleMember), f.bookRequest("09:00")); err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := f.usecase.Book(actorContext(otherPatient, entity.RoleMember), f.bookRequest("09:30")); err != nil {
		t.Fatalf("book: %v", err)
	}

	// Member sees only their own bookings.
	list, err := f.usecase.List(actorContext(f.patientID, entity.RoleMember))
	if err != nil {
		t.Fatalf("list as member: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("member total = %d, want 1", list.Total)
	}

	// Doctor sees their full schedule.
	list, err = f.usecase.List(actorContext(f.doctorID, entity.RoleDoctor))
	if err != nil {
		t.Fatalf("list as doctor: %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("doctor total = %d, want 2", list.Total)
	}

	// Admin sees everything.
	list, err = f.usecase.List(actorContext(uuid.New(), entity.RoleAdmin))
	if err != nil {
		t.Fatalf("list as admin: %v", err)
	}
	if list.Total != 2 {
		t.Fatalf("admin total = %d, want 2", list.Total)
	}
}

func TestBookAuditTrail(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := actorContext(f.patientID, entity.RoleMember)

	appointment, err := f.usecase.Book(ctx, f.bookRequest("10:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if got := f.audit.recorded(); len(got) != 1 || got[0] != entity.AuditActionBookingCreate {
		t.Fatalf("audit after success = %v, want [%s]", got, entity.AuditActionBookingCreate)
	}

	// Failed bookings leave no audit trail: taken slot, unavailable day,
	// outside the window.
	if _, err := f.usecase.Book(ctx, f.bookRequest("10:00")); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("got %v, want ErrSlotTaken", err)
	}
	offDay := f.bookRequest("10:00")
	offDay.Date = "2026-09-08"
	if _, err := f.usecase.Book(ctx, offDay); !errors.Is(err, ErrDoctorUnavailable) {
		t.Fatalf("got %v, want ErrDoctorUnavailable", err)
	}
	var outsideWindow *OutsideWindowError
	if _, err := f.usecase.Book(ctx, f.bookRequest("08:00")); !errors.As(err, &outsideWindow) {
		t.Fatalf("got %v, want *OutsideWindowError", err)
	}
	if got := f.audit.recorded(); len(got) != 1 {
		t.Fatalf("audit after failures = %v, want only the original entry", got)
	}

	// Cancel records its own action.
	if err := f.usecase.Cancel(ctx, appointment.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got := f.audit.recorded()
	if len(got) != 2 || got[1] != entity.AuditActionBookingCancel {
		t.Fatalf("audit after cancel = %v, want booking.cancel appended", got)
	}
}

func TestBookRequiresActor(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.usecase.Book(context.Background(), f.bookRequest("10:00"))
	if !errors.Is(err, ErrNoActor) {
		t.Fatalf("got %v, want ErrNoActor", err)
	}
}
