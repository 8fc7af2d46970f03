package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/rogersnm/todo/internal/model"
)

// TaskMeta is the frontmatter of a task edit file. The task text is the body.
type TaskMeta struct {
	Category  string `yaml:"category"`
	Due       string `yaml:"due,omitempty"`
	Completed bool   `yaml:"completed"`
}

// DueDate parses Due; an empty value clears the due date.
func (m TaskMeta) DueDate() (*model.Date, error) {
	if strings.TrimSpace(m.Due) == "" {
		return nil, nil
	}
	d, err := model.ParseDate(m.Due)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// MarshalTask renders t as an edit file.
func MarshalTask(t model.Task) ([]byte, error) {
	meta := TaskMeta{Category: t.Category, Completed: t.Completed}
	if t.DueDate != nil {
		meta.Due = t.DueDate.String()
	}
	return Marshal(meta, t.Text)
}

// ParseTask reads an edit file. Body lines are joined into a single line of text.
func ParseTask(r io.Reader) (TaskMeta, string, error) {
	meta, body, err := Parse[TaskMeta](r)
	if err != nil {
		return meta, "", err
	}
	return meta, strings.Join(strings.Fields(body), " "), nil
}

// Parse reads YAML frontmatter and body from r into T.
func Parse[T any](r io.Reader) (T, string, error) {
	var meta T
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, strings.TrimSpace(string(body)), nil
}

// Marshal serializes meta as YAML frontmatter followed by body.
func Marshal[T any](meta T, body string) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}
