// Package report renders a grievance as a printable document.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/civicdesk/grievance-service/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05 MST"

var (
	rendererInstance goldmark.Markdown
	rendererOnce     sync.Once
)

func renderer() goldmark.Markdown {
	rendererOnce.Do(func() {
		rendererInstance = goldmark.New(goldmark.WithExtensions(extension.Table))
	})
	return rendererInstance
}

// Markdown builds the report body. Submitter-provided text is escaped so it
// renders literally.
func Markdown(g domain.Grievance, contact domain.DepartmentContact) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Grievance Report\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	row(&b, "Ticket ID", g.TicketID)
	row(&b, "Submitted", g.SubmittedAt.UTC().Format(timeLayout))
	row(&b, "Last updated", g.UpdatedAt.UTC().Format(timeLayout))
	row(&b, "Status", string(g.Status))

	fmt.Fprintf(&b, "\n## Complainant\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	row(&b, "Name", g.SubmitterName)
	row(&b, "Email", g.SubmitterEmail)
	phone := g.SubmitterPhone
	if phone == "" {
		phone = "N/A"
	}
	row(&b, "Phone", phone)

	fmt.Fprintf(&b, "\n## Analysis\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	row(&b, "Category", string(g.Category))
	row(&b, "Priority", string(g.Priority))
	row(&b, "Department", g.Department)
	row(&b, "Sentiment", fmt.Sprintf("%s (%.3f)", g.Sentiment.Label, g.Sentiment.Score))
	row(&b, "Estimated resolution", g.EstimatedResolution.String())

	fmt.Fprintf(&b, "\n## Complaint\n\n")
	for _, para := range strings.Split(g.ComplaintText, "\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		fmt.Fprintf(&b, "%s\n\n", escape(para))
	}

	if len(g.Keywords) > 0 {
		fmt.Fprintf(&b, "## Key topics\n\n")
		for _, kw := range g.Keywords {
			fmt.Fprintf(&b, "- %s\n", escape(kw))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Department contact\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	row(&b, "Phone", contact.Phone)
	row(&b, "Email", contact.Email)
	row(&b, "Office hours", contact.OfficeHours)

	return b.String()
}

// HTML renders the report as a standalone HTML document.
func HTML(g domain.Grievance, contact domain.DepartmentContact) ([]byte, error) {
	var body bytes.Buffer
	if err := renderer().Convert([]byte(Markdown(g, contact)), &body); err != nil {
		return nil, fmt.Errorf("render report %s: %w", g.TicketID, err)
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>Grievance Report %s</title>\n", html.EscapeString(g.TicketID))
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}

func row(b *strings.Builder, field, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", field, escape(value))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`<`, `&lt;`, `>`, `&gt;`, `#`, `\#`, `|`, `\|`, `!`, `\!`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
