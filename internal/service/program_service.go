package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/model"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/repository"
)

var (
	ErrProgramNameTaken = errors.New("专业名称已存在")
)

// ProgramService 专业业务接口
type ProgramService interface {
	Create(ctx context.Context, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProgramResponse, error)
	List(ctx context.Context) ([]dto.ProgramResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProgramRequest) (*dto.ProgramResponse, error)
	Delete(ctx context.Context, id string) error
}

type programService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProgramService 创建 ProgramService 实例
func NewProgramService(repo *repository.Repository, logger *zap.Logger) ProgramService {
	return &programService{repo: repo, logger: logger}
}

func (s *programService) Create(ctx context.Context, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	program := &model.Program{Name: req.Name}
	if err := s.repo.Program.Create(ctx, program); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProgramNameTaken
		}
		s.logger.Error("创建专业失败", zap.Error(err))
		return nil, err
	}
	return s.toResponse(program), nil
}

func (s *programService) GetByID(ctx context.Context, id string) (*dto.ProgramResponse, error) {
	program, err := s.repo.Program.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询专业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(program), nil
}

func (s *programService) List(ctx context.Context) ([]dto.ProgramResponse, error) {
	programs, err := s.repo.Program.List(ctx)
	if err != nil {
		s.logger.Error("列出专业失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		result = append(result, *s.toResponse(&programs[i]))
	}
	return result, nil
}

func (s *programService) Update(ctx context.Context, id string, req *dto.UpdateProgramRequest) (*dto.ProgramResponse, error) {
	program, err := s.repo.Program.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询专业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		program.Name = *req.Name
	}

	if err := s.repo.Program.Update(ctx, program); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProgramNameTaken
		}
		s.logger.Error("更新专业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *programService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Program.Delete(ctx, id); err != nil {
		s.logger.Error("删除专业失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *programService) toResponse(p *model.Program) *dto.ProgramResponse {
	return &dto.ProgramResponse{
		ID:        p.ProgramID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
