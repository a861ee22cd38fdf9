package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/college-table/pkg/auth"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/response"
)

const (
	ctxUserID    = "userId"
	ctxCollegeID = "collegeId"
)

// Auth 解析 Bearer token，把 userId / collegeId 放进 gin.Context
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, errcode.LoginRequired)
			return
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			response.Unauthorized(c, errcode.TokenNotMatched)
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxCollegeID, claims.CollegeID)
		c.Next()
	}
}

// UserID 未经过 Auth 时为 0
func UserID(c *gin.Context) uint { return c.GetUint(ctxUserID) }

func CollegeID(c *gin.Context) uint { return c.GetUint(ctxCollegeID) }
