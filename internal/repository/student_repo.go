package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"coursereviews/internal/domain"
	"coursereviews/internal/pkg/apperr"
)

var ErrStudentNotFound = fmt.Errorf("student %w", apperr.ErrNotFound)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) GetByNetID(ctx context.Context, netID string) (*domain.Student, error) {
	var s domain.Student
	err := r.db.WithContext(ctx).Where("net_id = ?", netID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &s, nil
}

func (r *StudentRepository) Create(ctx context.Context, s *domain.Student) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Privilege == "" {
		s.Privilege = domain.PrivilegeDefault
	}
	return r.db.WithContext(ctx).Create(s).Error
}

// FirstOrCreate returns the student with the given net id, creating a
// default-privilege record on first sight. Concurrent first logins race on the
// unique net_id index; the loser re-reads the winner's row.
func (r *StudentRepository) FirstOrCreate(ctx context.Context, netID string) (*domain.Student, error) {
	s, err := r.GetByNetID(ctx, netID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrStudentNotFound) {
		return nil, err
	}

	s = &domain.Student{NetID: netID}
	if err := r.Create(ctx, s); err != nil {
		if isUniqueViolation(err) {
			return r.GetByNetID(ctx, netID)
		}
		return nil, fmt.Errorf("create student: %w", err)
	}
	return s, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
