package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
)

// CourseFilter 编号字段用去空格关键字，标题用原关键字，均大小写不敏感
type CourseFilter struct {
	CollegeID         uint
	TermCode          string // 为空时不过滤
	Keyword           string
	CompressedKeyword string
	Limit             int // <=0 不限
}

type CourseRepository interface {
	Search(ctx context.Context, f CourseFilter) ([]*model.Course, error)
}

type courseRepository struct{ db *gorm.DB }

func NewCourseRepository(db *gorm.DB) CourseRepository { return &courseRepository{db: db} }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *courseRepository) Search(ctx context.Context, f CourseFilter) ([]*model.Course, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("college_id = ?", f.CollegeID)
	if f.TermCode != "" {
		q = q.Where("term_code = ?", f.TermCode)
	}
	compressed := containsPattern(f.CompressedKeyword)
	q = q.Where(
		r.db.Where(`LOWER(course_designation_compressed) LIKE ? ESCAPE '\'`, compressed).
			Or(`LOWER(full_course_designation_compressed) LIKE ? ESCAPE '\'`, compressed).
			Or(`LOWER(title) LIKE ? ESCAPE '\'`, containsPattern(f.Keyword)),
	)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	res := []*model.Course{}
	err := q.Order("id ASC").
		Preload("Classes", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Classes.Sections", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Find(&res).Error
	return res, err
}
