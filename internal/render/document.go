package render

import (
	"bytes"
	"html/template"

	"github.com/jwalitptl/studio-automations/internal/model"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
</head>
<body style="margin:0;padding:0;background-color:#f4f4f5;font-family:Arial,Helvetica,sans-serif;">
<div style="max-width:600px;margin:0 auto;padding:32px 16px;">
<div style="background-color:#ffffff;border-radius:8px;padding:32px;">
{{.Body}}
</div>
</div>
</body>
</html>
`))

type document struct {
	Title string
	Body  template.HTML
}

// AssembleDocument wraps a rendered fragment in the email page shell.
func AssembleDocument(project *model.Project, fragment string) string {
	title := ""
	if project != nil {
		title = project.Title
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, document{Title: title, Body: template.HTML(fragment)}); err != nil {
		return fragment
	}
	return buf.String()
}
