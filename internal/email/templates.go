package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var notificationTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 0; background-color: #f5f5f5;">
<table role="presentation" style="width: 100%; border: 0;">
<tr><td style="padding: 40px 0; text-align: center;">
<table role="presentation" style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px;">
<tr><td style="padding: 32px 40px; text-align: left;">
<h1 style="margin: 0 0 16px; font-size: 22px; color: #1a1a1a;">{{.Title}}</h1>
{{range .Lines}}<p style="margin: 0 0 12px; color: #444; font-size: 15px; line-height: 1.5;">{{.}}</p>
{{end}}{{if .Footer}}<p style="margin: 24px 0 0; color: #999; font-size: 13px;">{{.Footer}}</p>{{end}}
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`))

type NotificationData struct {
	Title  string
	Lines  []string
	Footer string
}

// RenderNotification renders the HTML and plain-text bodies of a notification email.
func RenderNotification(data NotificationData) (html, text string, err error) {
	var buf bytes.Buffer
	if err := notificationTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render notification template: %w", err)
	}

	parts := append([]string{data.Title, ""}, data.Lines...)
	if data.Footer != "" {
		parts = append(parts, "", data.Footer)
	}

	return buf.String(), strings.Join(parts, "\n"), nil
}
