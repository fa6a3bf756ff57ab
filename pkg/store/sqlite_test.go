package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dealflowhq/contactfinder/pkg/resolve"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "contacts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func TestUpsertAndFindByName(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.Upsert(ctx, &resolve.Record{
		FirstName:   "Jane",
		LastName:    "Doe",
		CompanyName: "Acme Industrial",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	rec, err := db.FindByName(ctx, "jane", "DOE")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if rec == nil {
		t.Fatal("record not found by case-insensitive name")
	}
	if rec.ID != id || rec.CompanyName != "Acme Industrial" {
		t.Errorf("got %+v", rec)
	}

	missing, err := db.FindByName(ctx, "Nobody", "Here")
	if err != nil {
		t.Fatalf("FindByName(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown name, got %+v", missing)
	}
}

func TestFindByLinkedIn(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Upsert(ctx, &resolve.Record{
		FirstName:   "Jane",
		LastName:    "Doe",
		LinkedInURL: "https://www.linkedin.com/in/Jane-Doe-123",
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rec, err := db.FindByLinkedIn(ctx, "jane-doe-123")
	if err != nil {
		t.Fatalf("FindByLinkedIn: %v", err)
	}
	if rec == nil {
		t.Fatal("record not found by slug fragment")
	}

	if rec, err := db.FindByLinkedIn(ctx, ""); err != nil || rec != nil {
		t.Errorf("empty fragment should return (nil, nil), got %+v, %v", rec, err)
	}
}

func TestUpdateFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.Upsert(ctx, &resolve.Record{FirstName: "Jane", LastName: "Doe"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	err = db.UpdateFields(ctx, id, map[string]string{
		"email":        "jane@acme.com",
		"linkedin_url": "https://linkedin.com/in/jane-doe",
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	rec, err := db.FindByName(ctx, "Jane", "Doe")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if rec.Email != "jane@acme.com" || rec.LinkedInURL != "https://linkedin.com/in/jane-doe" {
		t.Errorf("update not applied: %+v", rec)
	}

	if err := db.UpdateFields(ctx, id, map[string]string{"id": "nope"}); err == nil {
		t.Error("expected rejection of non-allowlisted column")
	}
	if err := db.UpdateFields(ctx, "no-such-id", map[string]string{"email": "x@y.com"}); err == nil {
		t.Error("expected error for unknown record")
	}
}

func TestAuditTrail(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.Upsert(ctx, &resolve.Record{FirstName: "Jane", LastName: "Doe"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := db.AppendAudit(ctx, id, "prospeo_linkedin", "accepted, name matches"); err != nil {
		t.Fatalf("AppendAudit: %v", err)
	}
	if err := db.AppendAudit(ctx, id, "not_found", "exhausted all sources"); err != nil {
		t.Fatalf("AppendAudit: %v", err)
	}

	trail, err := db.AuditTrail(ctx, id)
	if err != nil {
		t.Fatalf("AuditTrail: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("trail = %v, want 2 rows", trail)
	}
	if trail[0] != "prospeo_linkedin: accepted, name matches" {
		t.Errorf("trail[0] = %q", trail[0])
	}
}
