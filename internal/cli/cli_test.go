package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"searchlog/internal/db"
	"searchlog/internal/models"
	"searchlog/internal/terms"
)

func runCommand(t *testing.T, repo *db.Memory, args ...string) (string, error) {
	t.Helper()
	open := func(context.Context) (terms.Repository, func(), error) {
		return repo, func() {}, nil
	}

	cmd := NewRootCommand(open, terms.DefaultPolicy())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func seed(t *testing.T, repo *db.Memory, term, origin string, count int64, age time.Duration) {
	t.Helper()
	rec := &models.SearchRecord{Term: term, OriginKey: origin, Count: count, CreatedAt: time.Now().Add(-age)}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
}

func TestLogCommand(t *testing.T) {
	repo := db.NewMemory()

	out, err := runCommand(t, repo, "log", "  Terraform State ", "--origin", "ops")
	if err != nil {
		t.Fatalf("log error = %v", err)
	}
	if !strings.Contains(out, `logged "terraform state" for ops`) {
		t.Errorf("output = %q", out)
	}
	if _, err := repo.FindByTerm(context.Background(), "terraform state", "ops"); err != nil {
		t.Errorf("term not stored: %v", err)
	}
}

func TestLogCommand_Blank(t *testing.T) {
	repo := db.NewMemory()

	if _, err := runCommand(t, repo, "log", "   "); err == nil {
		t.Error("log with blank term error = nil, want error")
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestTopCommand(t *testing.T) {
	repo := db.NewMemory()
	seed(t, repo, "alpha", "a", 3, time.Hour)
	seed(t, repo, "beta", "b", 7, 2*time.Hour)
	seed(t, repo, "gamma", "a", 1, time.Minute)

	out, err := runCommand(t, repo, "top")
	if err != nil {
		t.Fatalf("top error = %v", err)
	}
	if strings.Index(out, "beta") > strings.Index(out, "alpha") {
		t.Errorf("global top not ordered by count:\n%s", out)
	}

	out, err = runCommand(t, repo, "top", "--origin", "a", "--recent", "--format", "json")
	if err != nil {
		t.Fatalf("top --recent error = %v", err)
	}
	var records []models.SearchRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, out)
	}
	if len(records) != 2 || records[0].Term != "gamma" {
		t.Errorf("recent for origin a = %+v, want gamma first", records)
	}
}

func TestTopCommand_RecentNeedsOrigin(t *testing.T) {
	if _, err := runCommand(t, db.NewMemory(), "top", "--recent"); err == nil {
		t.Error("top --recent without --origin error = nil")
	}
}

func TestConsolidateCommand(t *testing.T) {
	repo := db.NewMemory()
	seed(t, repo, "kafka", "a", 1, time.Hour)
	seed(t, repo, "kafka consumer groups", "b", 1, time.Minute)

	out, err := runCommand(t, repo, "consolidate")
	if err != nil {
		t.Fatalf("consolidate error = %v", err)
	}
	if !strings.Contains(out, "deleted 1") {
		t.Errorf("output = %q, want deleted 1", out)
	}
	if n, _ := repo.Count(context.Background()); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestConsolidateCommand_Empty(t *testing.T) {
	out, err := runCommand(t, db.NewMemory(), "consolidate")
	if err != nil {
		t.Fatalf("consolidate error = %v", err)
	}
	if !strings.Contains(out, "no searches stored") {
		t.Errorf("output = %q", out)
	}
}

func TestSuggestCommand(t *testing.T) {
	repo := db.NewMemory()
	seed(t, repo, "grpc streaming", "a", 1, time.Hour)
	seed(t, repo, "rest api", "b", 1, time.Minute)

	out, err := runCommand(t, repo, "suggest", "STREAM")
	if err != nil {
		t.Fatalf("suggest error = %v", err)
	}
	if !strings.Contains(out, "grpc streaming") || strings.Contains(out, "rest api") {
		t.Errorf("output = %q", out)
	}
}

func TestInvalidFormat(t *testing.T) {
	if _, err := runCommand(t, db.NewMemory(), "top", "--format", "yaml"); err == nil {
		t.Error("invalid format error = nil")
	}
}
