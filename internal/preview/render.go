// Package preview renders a partially-built conversation record into a
// human-readable summary.
package preview

import (
	"fmt"
	"strings"

	"github.com/mariana/devlink-assistant/internal/types"
)

// EmptyPlaceholder is returned when nothing has been collected yet.
const EmptyPlaceholder = "Nothing to preview yet. Answer a few questions first!"

// Render projects the record into a formatted summary: non-empty sections in
// the fixed canonical order, each under its heading, empty sections omitted.
// It is pure and safe to call at any point in the conversation.
func Render(record types.ConversationRecord) string {
	var sections []string

	if p := renderPersonal(record.PersonalInfo); p != "" {
		sections = append(sections, p)
	}
	if len(record.Education) > 0 {
		var b strings.Builder
		b.WriteString("## Education\n")
		for _, e := range record.Education {
			fmt.Fprintf(&b, "- %s, %s (%s), %s\n", e.Degree, e.Institution, e.Level, e.Period)
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}
	if len(record.Experience) > 0 {
		var b strings.Builder
		b.WriteString("## Experience\n")
		for _, e := range record.Experience {
			fmt.Fprintf(&b, "- %s at %s, %s", e.Role, e.Company, e.Period)
			if e.Description != "" {
				fmt.Fprintf(&b, ": %s", e.Description)
			}
			b.WriteString("\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}
	if len(record.Projects) > 0 {
		var b strings.Builder
		b.WriteString("## Projects\n")
		for _, p := range record.Projects {
			fmt.Fprintf(&b, "- %s", p.Name)
			if p.Description != "" {
				fmt.Fprintf(&b, ": %s", p.Description)
			}
			if p.URL != "" {
				fmt.Fprintf(&b, " (%s)", p.URL)
			}
			b.WriteString("\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}
	if len(record.Languages) > 0 {
		var b strings.Builder
		b.WriteString("## Languages\n")
		for _, l := range record.Languages {
			fmt.Fprintf(&b, "- %s (%s)\n", l.Name, l.Proficiency)
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}
	if len(record.Certificates) > 0 {
		var b strings.Builder
		b.WriteString("## Certificates\n")
		for _, c := range record.Certificates {
			fmt.Fprintf(&b, "- %s, %s", c.Name, c.Issuer)
			if c.Year != "" {
				fmt.Fprintf(&b, " (%s)", c.Year)
			}
			b.WriteString("\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}
	if len(record.Skills) > 0 {
		sections = append(sections, "## Skills\n"+strings.Join(record.Skills, ", "))
	}

	if len(sections) == 0 {
		return EmptyPlaceholder
	}
	return strings.Join(sections, "\n\n")
}

// renderPersonal formats the personal-info section, or "" if nothing of it
// has been collected.
func renderPersonal(p types.PersonalInfo) string {
	if p == (types.PersonalInfo{}) {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Personal\n")
	if p.FullName != "" {
		fmt.Fprintf(&b, "Name: %s\n", p.FullName)
	}
	if p.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", p.Email)
	}
	if p.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", p.Phone)
	}
	if p.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", p.Address)
	}
	if p.PortfolioURL != "" {
		fmt.Fprintf(&b, "Portfolio: %s\n", p.PortfolioURL)
	}
	return strings.TrimRight(b.String(), "\n")
}
