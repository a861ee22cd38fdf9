package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/repository"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/search"
)

// SearchInput TermCode 为空时使用当前学期
type SearchInput struct {
	Keyword  string
	TermCode string
}

// CourseService 课程检索
type CourseService interface {
	Search(ctx context.Context, collegeID uint, in SearchInput) ([]*model.Course, error)
	// Lookup 按默认学校检索，不限学期
	Lookup(ctx context.Context, keyword string) ([]*model.Course, error)
}

type courseService struct {
	cfg         config.CourseConfig
	collegeRepo repository.CollegeRepository
	courseRepo  repository.CourseRepository
}

func NewCourseService(cfg config.CourseConfig, collegeRepo repository.CollegeRepository, courseRepo repository.CourseRepository) CourseService {
	return &courseService{cfg: cfg, collegeRepo: collegeRepo, courseRepo: courseRepo}
}

func (s *courseService) Search(ctx context.Context, collegeID uint, in SearchInput) ([]*model.Course, error) {
	keyword := search.Normalize(in.Keyword)
	if keyword == "" {
		return nil, errcode.KeywordNotProvided
	}

	college, err := s.collegeRepo.GetByID(ctx, collegeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.CollegeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load college: %w", err)
	}

	term := in.TermCode
	if term == "" {
		term = s.cfg.CurrentTermCode
	}
	courses, err := s.courseRepo.Search(ctx, repository.CourseFilter{
		CollegeID:         college.ID,
		TermCode:          term,
		Keyword:           keyword,
		CompressedKeyword: search.RemoveSpaces(keyword),
		Limit:             s.cfg.SearchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) Lookup(ctx context.Context, keyword string) ([]*model.Course, error) {
	keyword = search.Normalize(keyword)
	if keyword == "" {
		return nil, errcode.KeywordNotProvided
	}

	college, err := s.collegeRepo.GetByMailFooter(ctx, s.cfg.DefaultMailFooter)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.CollegeForEmailNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("load college: %w", err)
	}

	courses, err := s.courseRepo.Search(ctx, repository.CourseFilter{
		CollegeID:         college.ID,
		Keyword:           keyword,
		CompressedKeyword: search.RemoveSpaces(keyword),
	})
	if err != nil {
		return nil, fmt.Errorf("lookup courses: %w", err)
	}
	return courses, nil
}
