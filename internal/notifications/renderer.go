// Package notifications renders and delivers task assignment emails.
package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"strings"
	"text/template"
	"time"

	"github.com/olegsavin/taskboard/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// AssignmentSubject is the subject line of every assignment email.
const AssignmentSubject = "New Task Assigned"

// noDeadline is rendered when a task has no deadline set.
const noDeadline = "Not specified"

// AssignmentData is the template input for an assignment email.
type AssignmentData struct {
	Name        string
	Title       string
	Description string
	Deadline    string
	Status      string
}

// Renderer renders assignment emails from the embedded template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer loads and parses the assignment template.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"title":      titleCase,
		"escapeHTML": html.EscapeString,
	}

	content, err := templatesFS.ReadFile("templates/assignment.tmpl")
	if err != nil {
		return nil, fmt.Errorf("read assignment template: %w", err)
	}

	tmpl, err := template.New("assignment").Funcs(funcMap).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse assignment template: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// RenderAssignment returns the subject and HTML body for a task
// assignment addressed to the given user.
func (r *Renderer) RenderAssignment(user *domain.User, task *domain.Task) (subject, body string, err error) {
	data := AssignmentData{
		Name:        user.Name,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    formatDeadline(task.Deadline),
		Status:      string(task.Status),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("execute assignment template: %w", err)
	}

	return AssignmentSubject, strings.TrimSpace(buf.String()), nil
}

func formatDeadline(deadline *time.Time) string {
	if deadline == nil {
		return noDeadline
	}
	return deadline.Format("2006-01-02")
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
