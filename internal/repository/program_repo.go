package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/model"
)

// ProgramRepository 专业数据访问接口
type ProgramRepository interface {
	Create(ctx context.Context, program *model.Program) error
	GetByID(ctx context.Context, id string) (*model.Program, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Program, error)
	List(ctx context.Context) ([]model.Program, error)
	Update(ctx context.Context, program *model.Program) error
	Delete(ctx context.Context, id string) error
}

type programRepo struct {
	db *gorm.DB
}

func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) Create(ctx context.Context, program *model.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepo) GetByID(ctx context.Context, id string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Where("program_id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Program, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var programs []model.Program
	err := r.db.WithContext(ctx).
		Where("program_id IN ?", ids).
		Find(&programs).Error
	return programs, err
}

func (r *programRepo) List(ctx context.Context) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&programs).Error
	return programs, err
}

func (r *programRepo) Update(ctx context.Context, program *model.Program) error {
	return r.db.WithContext(ctx).
		Model(program).
		Where("program_id = ?", program.ProgramID).
		Update("name", program.Name).Error
}

func (r *programRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("program_id = ?", id).
		Delete(&model.Program{}).Error
}
