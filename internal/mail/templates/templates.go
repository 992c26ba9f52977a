// Package templates renders the fixed HTML bodies of the transactional emails.
package templates

import (
	"bytes"
	"embed"
	"html/template"
	"regexp"
	"strings"
)

//go:embed html/*.html
var files embed.FS

var (
	milestoneTpl = template.Must(template.ParseFS(files, "html/milestone.html"))
	profileTpl   = template.Must(template.ParseFS(files, "html/profile_notification.html"))
)

// DefaultFirstName is used in the greeting when no first name is given.
const DefaultFirstName = "there"

type MilestoneVars struct {
	FirstName     string
	Message       string
	HasAttachment bool
}

type milestoneData struct {
	FirstName     string
	Paragraphs    [][]string
	HasAttachment bool
}

// Milestone renders the milestone email. Blank lines in Message separate
// paragraphs; single newlines become line breaks.
func Milestone(v MilestoneVars) (string, error) {
	name := strings.TrimSpace(v.FirstName)
	if name == "" {
		name = DefaultFirstName
	}
	var buf bytes.Buffer
	err := milestoneTpl.Execute(&buf, milestoneData{
		FirstName:     name,
		Paragraphs:    Paragraphs(v.Message),
		HasAttachment: v.HasAttachment,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

var blankLine = regexp.MustCompile(`\n[ \t\n]*\n`)

// Paragraphs splits text into paragraphs of lines, dropping empty ones.
func Paragraphs(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out [][]string
	for _, p := range blankLine.Split(text, -1) {
		p = strings.Trim(p, "\n")
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, strings.Split(p, "\n"))
	}
	return out
}

type ProfileVars struct {
	Email     string
	FirstName string
	LastName  string
	Company   string
	Phone     string
	AppName   string
}

// FullName joins first and last name, empty when both are blank.
func (v ProfileVars) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(v.FirstName) + " " + strings.TrimSpace(v.LastName))
}

// ProfileSubject is "Profile completed: <full name or email>".
func ProfileSubject(v ProfileVars) string {
	who := v.FullName()
	if who == "" {
		who = v.Email
	}
	return "Profile completed: " + who
}

// ProfileNotification renders the admin notification table. Only the Email
// row is unconditional.
func ProfileNotification(v ProfileVars) (string, error) {
	data := struct {
		Name, Email, Company, Phone, AppName string
	}{
		Name:    v.FullName(),
		Email:   v.Email,
		Company: strings.TrimSpace(v.Company),
		Phone:   strings.TrimSpace(v.Phone),
		AppName: strings.TrimSpace(v.AppName),
	}
	var buf bytes.Buffer
	if err := profileTpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
