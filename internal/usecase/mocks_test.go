package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"clinic-scheduling-api/internal/delivery/http/middleware"
	"clinic-scheduling-api/internal/domain/entity"
	"clinic-scheduling-api/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func actorContext(userID uuid.UUID, role string) context.Context {
	return middleware.WithActor(context.Background(), entity.Actor{UserID: userID, Role: role})
}

// noopAuditService satisfies service.AuditService without persistence.
type noopAuditService struct{}

func (noopAuditService) Record(ctx context.Context, userID *uuid.UUID, action string, metadata entity.JSON) {
}

var _ service.AuditService = noopAuditService{}

// recordingAuditService captures audit actions so tests can assert what
// was (and was not) recorded.
type recordingAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (r *recordingAuditService) Record(ctx context.Context, userID *uuid.UUID, action string, metadata entity.JSON) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

func (r *recordingAuditService) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.actions...)
}

// mockAppointmentRepo mimics the appointments table including the
// partial unique index over non-cancelled rows: a second insert into an
// occupied slot fails with the same unique-violation error Postgres
// raises.
type mockAppointmentRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{byID: make(map[uuid.UUID]*entity.Appointment)}
}

func slotKey(doctorID uuid.UUID, date time.Time, startTime string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, date.Format("2006-01-02"), startTime)
}

func (m *mockAppointmentRepo) occupant(doctorID uuid.UUID, date time.Time, startTime string) *entity.Appointment {
	key := slotKey(doctorID, date, startTime)
	for _, a := range m.byID {
		if slotKey(a.DoctorID, a.Date, a.StartTime) == key && !a.IsCancelled() {
			return a
		}
	}
	return nil
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.occupant(appointment.DoctorID, appointment.Date, appointment.StartTime) != nil {
		return &pgconn.PgError{Code: "23505", ConstraintName: entity.UniqDoctorSlotConstraint}
	}
	appointment.ID = uuid.New()
	stored := *appointment
	m.byID[appointment.ID] = &stored
	return nil
}

func (m *mockAppointmentRepo) FindConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.occupant(doctorID, date, startTime); a != nil {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (m *mockAppointmentRepo) FindByPatient(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Appointment
	for _, a := range m.byID {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Appointment
	for _, a := range m.byID {
		if a.DoctorID == doctorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) FindAll(ctx context.Context) ([]entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Appointment
	for _, a := range m.byID {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAppointmentRepo) Cancel(ctx context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok || a.IsCancelled() {
		return 0, nil
	}
	a.Status = entity.AppointmentStatusCancelled
	return 1, nil
}

// mockAvailabilityRepo keeps one rule per (doctor, day) and overwrites
// in place on re-set, like the real upsert.
type mockAvailabilityRepo struct {
	mu     sync.Mutex
	nextID int
	rules  map[string]*entity.DoctorAvailability
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{rules: make(map[string]*entity.DoctorAvailability)}
}

func dayKey(doctorID uuid.UUID, day int) string {
	return fmt.Sprintf("%s|%d", doctorID, day)
}

func (m *mockAvailabilityRepo) FindByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*entity.DoctorAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rule, ok := m.rules[dayKey(doctorID, dayOfWeek)]
	if !ok {
		return nil, nil
	}
	copied := *rule
	return &copied, nil
}

func (m *mockAvailabilityRepo) Upsert(ctx context.Context, rule *entity.DoctorAvailability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(rule.DoctorID, rule.DayOfWeek)
	if existing, ok := m.rules[key]; ok {
		existing.StartTime = rule.StartTime
		existing.EndTime = rule.EndTime
		existing.SlotDurationMinutes = rule.SlotDurationMinutes
		existing.IsActive = rule.IsActive
		*rule = *existing
		return nil
	}
	m.nextID++
	rule.ID = m.nextID
	stored := *rule
	m.rules[key] = &stored
	return nil
}

func (m *mockAvailabilityRepo) FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.DoctorAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.DoctorAvailability
	for _, rule := range m.rules {
		if rule.DoctorID == doctorID {
			out = append(out, *rule)
		}
	}
	return out, nil
}

// mockUserRepo stores users by ID and enforces email uniqueness the way
// the users table does.
type mockUserRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: make(map[uuid.UUID]*entity.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
		}
	}
	user.ID = uuid.New()
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

type mockDepartmentRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*entity.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{byID: make(map[int]*entity.Department)}
}

func (m *mockDepartmentRepo) Create(ctx context.Context, department *entity.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.byID {
		if d.Name == department.Name {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_departments_name"}
		}
	}
	m.nextID++
	department.ID = m.nextID
	stored := *department
	m.byID[department.ID] = &stored
	return nil
}

func (m *mockDepartmentRepo) FindByID(ctx context.Context, id int) (*entity.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *mockDepartmentRepo) FindByName(ctx context.Context, name string) (*entity.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.byID {
		if d.Name == name {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockDepartmentRepo) FindAll(ctx context.Context) ([]entity.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Department
	for _, d := range m.byID {
		out = append(out, *d)
	}
	return out, nil
}

type mockDoctorDepartmentRepo struct {
	mu          sync.Mutex
	nextID      int
	assignments []*entity.DoctorDepartment
}

func newMockDoctorDepartmentRepo() *mockDoctorDepartmentRepo {
	return &mockDoctorDepartmentRepo{}
}

func (m *mockDoctorDepartmentRepo) Create(ctx context.Context, assignment *entity.DoctorDepartment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.DoctorID == assignment.DoctorID && a.DepartmentID == assignment.DepartmentID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uniq_doctor_department"}
		}
	}
	m.nextID++
	assignment.ID = m.nextID
	stored := *assignment
	m.assignments = append(m.assignments, &stored)
	return nil
}

func (m *mockDoctorDepartmentRepo) FindByDoctorAndDepartment(ctx context.Context, doctorID uuid.UUID, departmentID int) (*entity.DoctorDepartment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.DoctorID == doctorID && a.DepartmentID == departmentID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}
