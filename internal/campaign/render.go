package campaign

import "strings"

// Rendered is a subject/body pair ready for the mail transport. CTA is kept
// separate so the email package can wrap it in its button markup.
type Rendered struct {
	Subject string
	Body    string
	CTA     string
}

// Render substitutes {name}-style placeholders in a template's subject, body,
// and optional CTA. Placeholders with no matching variable are left in place
// so a missing variable is visible in the log rather than silently blanked.
func Render(subject, body, cta string, vars map[string]string) Rendered {
	return Rendered{
		Subject: substitute(subject, vars),
		Body:    substitute(body, vars),
		CTA:     substitute(cta, vars),
	}
}

func substitute(s string, vars map[string]string) string {
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}
