package templates

import (
	"bytes"
	"html/template"
	"strings"
)

var contactEmail = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <title>{{.Subject}}</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f6f8; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background-color: #0f766e; padding: 24px 30px; }
    .header h1 { color: #fff; margin: 0; font-size: 20px; }
    .meta { padding: 20px 30px 0; color: #475569; font-size: 13px; }
    .content { padding: 20px 30px 40px; color: #0f172a; line-height: 1.6; font-size: 15px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>{{.Subject}}</h1></div>
    <div class="meta">{{.Name}} &lt;{{.Email}}&gt;</div>
    <div class="content">{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</div>
  </div>
</body>
</html>`))

// RenderContactEmail renders a contact-form message as HTML, every value is escaped
func RenderContactEmail(subject, name, email, message string) (string, error) {
	var buf bytes.Buffer
	err := contactEmail.Execute(&buf, struct {
		Subject, Name, Email string
		Lines                []string
	}{subject, name, email, strings.Split(message, "\n")})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
