package search

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSearchQueryClampsSize(t *testing.T) {
	cases := map[int]int{0: 10, -3: 10, 51: 10, 1: 1, 50: 50}
	for in, want := range cases {
		q := searchQuery("  ana  ", in)
		if got := q["size"]; got != want {
			t.Fatalf("size(%d) = %v, want %d", in, got, want)
		}
		mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
		if mm["query"] != "ana" {
			t.Fatalf("query text = %q", mm["query"])
		}
	}
}

func TestDecodeHits(t *testing.T) {
	id := uuid.New()
	body := `{"hits":{"hits":[
		{"_id":"x","_source":{"id":"` + id.String() + `","email":"ana@example.com","full_name":"Ana Lima","role":"Manager","status":"Active","created_at":"2024-05-01T10:00:00Z"}},
		{"_id":"y","_source":{"id":"not-a-uuid","email":"broken@example.com"}}
	]}}`

	got, err := decodeHits(strings.NewReader(body))
	if err != nil {
		t.Fatalf("decodeHits: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("hits = %d, want 1 (malformed ids are skipped)", len(got))
	}
	p := got[0]
	if p.ID != id || p.Email != "ana@example.com" || p.FullName != "Ana Lima" || p.Role != "Manager" || p.Status != "Active" {
		t.Fatalf("profile = %+v", p)
	}
	if p.CreatedAt.IsZero() {
		t.Fatalf("created_at not decoded")
	}
}

func TestDisabledDirectoryIsNoop(t *testing.T) {
	d := NewUserDirectory(nil, "users", nil)
	ctx := context.Background()
	if err := d.Index(ctx, UserDocument{ID: uuid.NewString()}); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if err := d.SetStatus(ctx, uuid.New(), "Deactivated"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	res, err := d.Search(ctx, "ana", 5)
	if err != nil || res == nil || len(res) != 0 {
		t.Fatalf("Search = %v, %v", res, err)
	}
}

func TestEnsureIndexDisabled(t *testing.T) {
	if err := NewUserDirectory(nil, "users", nil).EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
}
