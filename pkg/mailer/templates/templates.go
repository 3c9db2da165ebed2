package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	CompanyName string `json:"CompanyName"`
	AppName     string `json:"AppName"`

	SupportURL string `json:"SupportURL"`
	LoginURL   string `json:"LoginURL"`

	Role   string    `json:"Role"`
	Reason string    `json:"Reason"`
	Time   string    `json:"Time"`
	TimeAt time.Time `json:"TimeAt"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		if rv.IsZero() {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// Template names
const (
	Welcome            = "welcome"
	AccountDeactivated = "account_deactivated"
)

var templateNames = []string{Welcome, AccountDeactivated}

// emailTemplate is the parsed subject, text and html of one template name.
type emailTemplate struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	loadOnce sync.Once
	loaded   map[string]emailTemplate
	loadErr  error
)

// load parses every known template from FS on first use.
func load() (map[string]emailTemplate, error) {
	loadOnce.Do(func() {
		set := make(map[string]emailTemplate, len(templateNames))
		for _, name := range templateNames {
			t, err := parse(name)
			if err != nil {
				loadErr = err
				return
			}
			set[name] = t
		}
		loaded = set
	})
	return loaded, loadErr
}

func parse(name string) (emailTemplate, error) {
	var (
		t   emailTemplate
		err error
	)
	parseText := func(file string) (*texttpl.Template, error) {
		tpl, err := texttpl.New(file).Funcs(textFuncMap).ParseFS(FS, file)
		if err != nil {
			return nil, fmt.Errorf("parse text %q: %w", file, err)
		}
		return tpl, nil
	}
	if t.subject, err = parseText(name + ".subject.tmpl"); err != nil {
		return t, err
	}
	if t.text, err = parseText(name + ".text.tmpl"); err != nil {
		return t, err
	}
	file := name + ".html.tmpl"
	if t.html, err = htmpl.New(file).Funcs(htmlFuncMap).ParseFS(FS, file); err != nil {
		return t, fmt.Errorf("parse html %q: %w", file, err)
	}
	return t, nil
}

type executor interface {
	Execute(w io.Writer, data any) error
	Name() string
}

func execute(tpl executor, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}

// Render renders the subject, text and html parts of the named template.
// The subject is trimmed.
func Render(name string, data any) (subject string, text string, html string, err error) {
	set, err := load()
	if err != nil {
		return "", "", "", err
	}
	t, ok := set[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	if subject, err = execute(t.subject, data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(t.text, data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(t.html, data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
