package repository

import (
	"context"

	"clinic-scheduling-api/internal/domain/entity"

	"github.com/google/uuid"
)

type DepartmentRepository interface {
	Create(ctx context.Context, department *entity.Department) error
	FindByID(ctx context.Context, id int) (*entity.Department, error)
	// FindByName returns (nil, nil) when no department has the given name.
	FindByName(ctx context.Context, name string) (*entity.Department, error)
	FindAll(ctx context.Context) ([]entity.Department, error)
}

type DoctorDepartmentRepository interface {
	Create(ctx context.Context, assignment *entity.DoctorDepartment) error
	// FindByDoctorAndDepartment returns (nil, nil) when the doctor is not
	// assigned to the department.
	FindByDoctorAndDepartment(ctx context.Context, doctorID uuid.UUID, departmentID int) (*entity.DoctorDepartment, error)
}
