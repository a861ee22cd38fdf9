package notify

import (
	"bytes"
	"html/template"
)

const logoURL = "https://collegetable.vercel.app/logo_192x192.png"

// CourseSignal 一门课程及其订阅者邮箱
type CourseSignal struct {
	CourseDesignation string
	Title             string
	Emails            []string
}

const layoutHTML = `{{define "layout"}}<html xmlns="http://www.w3.org/1999/xhtml" lang="en">
  <head>
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
    <title>{{.PageTitle}}</title>
  </head>
  <body style="font-family: Calibri">
    <table cellspacing="0" width="100%" role="presentation">
      <tr>
        <td></td>
        <td width="600">
{{template "content" .}}
          <p style="text-align: right;"><strong>College Table Support</strong></p>
        </td>
      </tr>
      <tr>
        <td></td>
        <td style="text-align: right">
          <img src="{{.Logo}}" alt="College Table" height="60" width="60" />
        </td>
        <td></td>
      </tr>
    </table>
  </body>
</html>{{end}}`

const codeHTML = `{{define "content"}}
          <p style="font-size: 150%; text-align: center"><strong>[{{.Code}}]</strong></p>
          <p>To verify your email address, enter the code above on the verification page</p>
          <p>
            This code will expire in 3 minutes after the email is sent. Once
            the code expires, you will need to request a new verification code.
          </p>
{{end}}`

const signalHTML = `{{define "content"}}{{range .Signals}}
          <p style="font-size: 120%;"><strong>{{.CourseDesignation}}</strong></p>
          <p style="font-size: 110%;">{{.Title}}</p>
{{- range .Emails}}
          <p><a href="mailto:{{.}}">{{.}}</a></p>
{{- end}}
          <br>
{{end}}{{end}}`

var (
	codeTmpl   = template.Must(template.Must(template.New("code").Parse(layoutHTML)).Parse(codeHTML))
	signalTmpl = template.Must(template.Must(template.New("signal").Parse(layoutHTML)).Parse(signalHTML))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CodeMailHTML 验证码邮件正文
func CodeMailHTML(code int) (string, error) {
	return render(codeTmpl, struct {
		PageTitle string
		Logo      string
		Code      int
	}{"College Table verification code", logoURL, code})
}

// CourseSignalHTML 课程信号汇总邮件正文
func CourseSignalHTML(signals []CourseSignal) (string, error) {
	return render(signalTmpl, struct {
		PageTitle string
		Logo      string
		Signals   []CourseSignal
	}{"College Table - KUSA Course Signal", logoURL, signals})
}
