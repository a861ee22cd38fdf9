package sanitize

import (
	"strings"
	"unicode"
)

// Text 规整纯文本输入，只去掉控制字符和首尾空白。
// 内容按原文保存，HTML 转义由展示端负责。
func Text(input string) string {
	input = strings.ToValidUTF8(input, "\uFFFD")
	input = strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\r', r == '\t':
			return r
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(input)
}
