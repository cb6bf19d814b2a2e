package usecase

import (
	"context"
	"errors"

	"clinic-scheduling-api/internal/converter"
	"clinic-scheduling-api/internal/delivery/dto"
	"clinic-scheduling-api/internal/domain/entity"
	"clinic-scheduling-api/internal/domain/repository"
	"clinic-scheduling-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDepartmentExists   = errors.New("department already exists")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrAlreadyAssigned    = errors.New("doctor is already assigned to this department")
)

type AdminUsecase interface {
	CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
	ListDepartments(ctx context.Context) (*dto.DepartmentListResponse, error)
	OnboardDoctor(ctx context.Context, req *dto.OnboardDoctorRequest) (*dto.UserResponse, error)
	AssignDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.AssignDoctorRequest) error
}

type adminUsecase struct {
	log            *logrus.Logger
	userRepo       repository.UserRepository
	departmentRepo repository.DepartmentRepository
	assignmentRepo repository.DoctorDepartmentRepository
	auditService   service.AuditService
}

func NewAdminUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	departmentRepo repository.DepartmentRepository,
	assignmentRepo repository.DoctorDepartmentRepository,
	auditService service.AuditService,
) AdminUsecase {
	return &adminUsecase{
		log:            log,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		assignmentRepo: assignmentRepo,
		auditService:   auditService,
	}
}

func (u *adminUsecase) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	department := &entity.Department{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	if err := u.departmentRepo.Create(ctx, department); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDepartmentExists
		}
		u.log.Errorf("Failed to create department %q: %+v", req.Name, err)
		return nil, err
	}

	u.auditService.Record(ctx, &actor.UserID, entity.AuditActionDepartmentCreate, entity.JSON{
		"department_id": department.ID,
		"name":          department.Name,
	})

	return converter.DepartmentToResponse(department), nil
}

func (u *adminUsecase) ListDepartments(ctx context.Context) (*dto.DepartmentListResponse, error) {
	departments, err := u.departmentRepo.FindAll(ctx)
	if err != nil {
		u.log.Errorf("Failed to list departments: %+v", err)
		return nil, err
	}

	return &dto.DepartmentListResponse{
		Departments: converter.DepartmentsToResponses(departments),
		Total:       len(departments),
	}, nil
}

// OnboardDoctor creates a doctor account. The role is fixed server-side;
// the request cannot choose it.
func (u *adminUsecase) OnboardDoctor(ctx context.Context, req *dto.OnboardDoctorRequest) (*dto.UserResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	doctor := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		Role:     entity.RoleDoctor,
		IsActive: true,
	}

	if err := u.userRepo.Create(ctx, doctor); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Errorf("Failed to create doctor account: %+v", err)
		return nil, err
	}

	u.auditService.Record(ctx, &actor.UserID, entity.AuditActionDoctorOnboard, entity.JSON{
		"doctor_id": doctor.ID.String(),
		"email":     doctor.Email,
	})

	return converter.UserToResponse(doctor), nil
}

func (u *adminUsecase) AssignDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.AssignDoctorRequest) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	doctor, err := u.userRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Errorf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil || !doctor.IsDoctor() {
		return ErrDoctorNotFound
	}

	department, err := u.departmentRepo.FindByID(ctx, req.DepartmentID)
	if err != nil {
		u.log.Errorf("Failed to find department %d: %+v", req.DepartmentID, err)
		return err
	}
	if department == nil {
		return ErrDepartmentNotFound
	}

	assignment := &entity.DoctorDepartment{
		DoctorID:     doctorID,
		DepartmentID: req.DepartmentID,
	}

	if err := u.assignmentRepo.Create(ctx, assignment); err != nil {
		if isDuplicateKeyError(err, "uniq_doctor_department") {
			return ErrAlreadyAssigned
		}
		u.log.Errorf("Failed to assign doctor %s to department %d: %+v", doctorID, req.DepartmentID, err)
		return err
	}

	u.auditService.Record(ctx, &actor.UserID, entity.AuditActionDoctorAssign, entity.JSON{
		"doctor_id":     doctorID.String(),
		"department_id": req.DepartmentID,
	})

	return nil
}
