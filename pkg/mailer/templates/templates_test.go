package templates

import (
	"strings"
	"testing"
	"time"
)

var testBranding = Branding{CompanyName: "ExpenseFlow", AppName: "identity", LoginURL: "https://app.example.com/login"}

func TestRenderWelcome(t *testing.T) {
	data := NewWelcomeData(testBranding, "Ana Lima", "ana@example.com", WithRole("Manager"))
	subject, text, html, err := Render(Welcome, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if subject != "Welcome to ExpenseFlow" {
		t.Fatalf("subject = %q", subject)
	}
	for _, want := range []string{"Ana Lima", "ana@example.com", "Manager", "https://app.example.com/login"} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(html, "<strong>ana@example.com</strong>") {
		t.Fatalf("html missing email:\n%s", html)
	}
}

func TestRenderAccountDeactivated(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	data := NewAccountDeactivatedData(testBranding, "Bo", "bo@example.com", "  contract ended ", WithTime(at))
	subject, text, html, err := Render(AccountDeactivated, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(subject, "deactivated") {
		t.Fatalf("subject = %q", subject)
	}
	if !strings.Contains(text, "Reason: contract ended") || !strings.Contains(text, "09 March 2024, 14:30") {
		t.Fatalf("text:\n%s", text)
	}
	if !strings.Contains(html, "contract ended") {
		t.Fatalf("html:\n%s", html)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	data := NewWelcomeData(testBranding, "<script>x</script>", "x@example.com")
	_, _, html, err := Render(Welcome, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("name must be escaped in html")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, _, err := Render("nope", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
