package search

import (
	"regexp"
	"strings"
)

var whiteSpaceRemover = regexp.MustCompile(`\s+`)

// RemoveSpaces 删除所有空白字符，用于匹配 *_compressed 列
func RemoveSpaces(s string) string {
	return whiteSpaceRemover.ReplaceAllString(s, "")
}

// Normalize 去首尾空白并转小写
func Normalize(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}
