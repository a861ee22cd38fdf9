package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/college-table/internal/api/middleware"
	"github.com/d60-Lab/college-table/internal/service"
	"github.com/d60-Lab/college-table/pkg/dates"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/response"
)

type getCoursesRequest struct {
	Keyword  string `json:"keyword"`
	TermCode string `json:"termCode"`
}

// GetCourses 本校课程检索
// @Summary 课程检索
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body getCoursesRequest true "关键字与学期"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/course/getCourses [post]
func (h *Handler) GetCourses(c *gin.Context) {
	var req getCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, errcode.KeywordNotProvided, err)
		return
	}
	courses, err := h.courseService.Search(c.Request.Context(), middleware.CollegeID(c), service.SearchInput{
		Keyword:  req.Keyword,
		TermCode: req.TermCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"courses": dates.Handle(courses)})
}

// GetCourse 按关键字查询默认学校课程
// @Summary 课程查询（公开）
// @Tags 课程
// @Produce json
// @Param keyword path string true "关键字"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/course/getCourse/{keyword} [get]
func (h *Handler) GetCourse(c *gin.Context) {
	courses, err := h.courseService.Lookup(c.Request.Context(), c.Param("keyword"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"courseData": dates.Handle(courses)})
}
