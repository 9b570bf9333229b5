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

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &model.Course{Title: req.Title}
	if len(req.ProgramIDs) > 0 {
		programs, err := s.mustPrograms(ctx, req.ProgramIDs)
		if err != nil {
			return nil, err
		}
		course.Programs = programs
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, course.CourseID)
}

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(course), nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *s.toResponse(&courses[i]))
	}
	return result, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
		if err := s.repo.Course.Update(ctx, course); err != nil {
			s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	if req.ProgramIDs != nil {
		programs, err := s.mustPrograms(ctx, req.ProgramIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Course.ReplacePrograms(ctx, course, programs); err != nil {
			s.logger.Error("更新课程专业失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *courseService) mustPrograms(ctx context.Context, ids []string) ([]model.Program, error) {
	programs, err := s.repo.Program.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询专业失败", zap.Error(err))
		return nil, err
	}
	if len(programs) != len(ids) {
		return nil, ErrProgramNotFound
	}
	return programs, nil
}

func (s *courseService) toResponse(c *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:        c.CourseID,
		Title:     c.Title,
		Programs:  toProgramBriefs(c.Programs),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}
