package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pr4th4meshh/respondly/config"
	"github.com/pr4th4meshh/respondly/database"
	"github.com/pr4th4meshh/respondly/form"
	"github.com/pr4th4meshh/respondly/model"
	"github.com/pr4th4meshh/respondly/store"
)

// setupTestDB opens a migrated in-memory database, named per test so
// parallel tests do not share state.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.Open(config.Config{
		DBUrl: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func seedForm(t *testing.T, forms store.Forms) *model.Form {
	t.Helper()

	f, err := form.NewForm("bob", "Event signup", []model.Field{
		{Label: "Name", Kind: model.KindText, Required: true},
		{Label: "Shirt size", Kind: model.KindMCQ, Options: []string{"S", "M", "L"}},
	})
	if err != nil {
		t.Fatalf("NewForm failed: %v", err)
	}
	if err = forms.Create(context.Background(), f); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return f
}

func TestCreateGetRoundtrip(t *testing.T) {
	forms := store.NewSQLite(setupTestDB(t))
	f := seedForm(t, forms)

	got, err := forms.Get(context.Background(), f.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.Title != "Event signup" || got.Creator != "bob" || got.Version != 1 {
		t.Errorf("unexpected form: %+v", got)
	}
	if len(got.Fields) != 2 || got.Fields[0].ID != f.Fields[0].ID {
		t.Errorf("fields did not roundtrip: %+v", got.Fields)
	}
	if len(got.Responses) != 0 {
		t.Errorf("expected empty response history, got %v", got.Responses)
	}
}

func TestGetUnknownID(t *testing.T) {
	forms := store.NewSQLite(setupTestDB(t))

	_, err := forms.Get(context.Background(), "nope")
	var notFound form.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.ID != "nope" {
		t.Errorf("unexpected id in error: %q", notFound.ID)
	}
}

func TestAppendResponses(t *testing.T) {
	forms := store.NewSQLite(setupTestDB(t))
	f := seedForm(t, forms)
	ctx := context.Background()

	err := forms.AppendResponses(ctx, f.ID, []model.Response{
		{Label: "Name", Value: "Alice"},
		{Label: "Shirt size", Value: "M"},
	})
	if err != nil {
		t.Fatalf("AppendResponses failed: %v", err)
	}
	err = forms.AppendResponses(ctx, f.ID, []model.Response{
		{Label: "Name", Value: "Bob"},
	})
	if err != nil {
		t.Fatalf("AppendResponses failed: %v", err)
	}

	got, err := forms.Get(ctx, f.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(got.Responses))
	}
	if got.Responses[2].Value != "Bob" {
		t.Errorf("append order lost: %v", got.Responses)
	}

	err = forms.AppendResponses(ctx, "nope", []model.Response{{Label: "Name", Value: "x"}})
	var notFound form.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError for unknown form, got %v", err)
	}
}

func TestUpdatePersistsRewriteAtomically(t *testing.T) {
	forms := store.NewSQLite(setupTestDB(t))
	f := seedForm(t, forms)
	ctx := context.Background()

	err := forms.AppendResponses(ctx, f.ID, []model.Response{{Label: "Name", Value: "Alice"}})
	if err != nil {
		t.Fatalf("AppendResponses failed: %v", err)
	}

	f, err = forms.Get(ctx, f.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	renamed := f.Fields[0]
	renamed.Label = "Full Name"
	if err = form.ApplyEdit(f, "Event signup v2", []model.Field{renamed, f.Fields[1]}); err != nil {
		t.Fatalf("ApplyEdit failed: %v", err)
	}
	if err = forms.Update(ctx, f); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if f.Version != 2 {
		t.Errorf("expected version bump to 2, got %d", f.Version)
	}

	got, err := forms.Get(ctx, f.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Event signup v2" {
		t.Errorf("title not updated: %q", got.Title)
	}
	if got.Fields[0].Label != "Full Name" {
		t.Errorf("field rename not persisted: %q", got.Fields[0].Label)
	}
	if len(got.Responses) != 1 || got.Responses[0].Label != "Full Name" {
		t.Errorf("response rewrite not persisted with the edit: %v", got.Responses)
	}
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	forms := store.NewSQLite(setupTestDB(t))
	f := seedForm(t, forms)
	ctx := context.Background()

	stale := *f
	if err := forms.Update(ctx, f); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	err := forms.Update(ctx, &stale)
	var conflict form.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	forms := store.NewSQLite(setupTestDB(t))

	f, err := form.NewForm("bob", "Ghost", []model.Field{
		{Label: "Name", Kind: model.KindText},
	})
	if err != nil {
		t.Fatalf("NewForm failed: %v", err)
	}

	err = forms.Update(context.Background(), f)
	var notFound form.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	forms := store.NewSQLite(setupTestDB(t))
	f := seedForm(t, forms)
	ctx := context.Background()

	err := forms.AppendResponses(ctx, f.ID, []model.Response{{Label: "Name", Value: "Alice"}})
	if err != nil {
		t.Fatalf("AppendResponses failed: %v", err)
	}

	if err = forms.Delete(ctx, f.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = forms.Get(ctx, f.ID)
	var notFound form.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}

	err = forms.Delete(ctx, f.ID)
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestListByCreator(t *testing.T) {
	forms := store.NewSQLite(setupTestDB(t))
	ctx := context.Background()

	first := seedForm(t, forms)
	second, err := form.NewForm("bob", "Second form", []model.Field{
		{Label: "Q", Kind: model.KindText},
	})
	if err != nil {
		t.Fatalf("NewForm failed: %v", err)
	}
	if err = forms.Create(ctx, second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	other, err := form.NewForm("eve", "Not bob's", []model.Field{
		{Label: "Q", Kind: model.KindText},
	})
	if err != nil {
		t.Fatalf("NewForm failed: %v", err)
	}
	if err = forms.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = forms.AppendResponses(ctx, first.ID, []model.Response{{Label: "Name", Value: "Alice"}})
	if err != nil {
		t.Fatalf("AppendResponses failed: %v", err)
	}

	summaries, err := forms.ListByCreator(ctx, "bob")
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 forms for bob, got %d", len(summaries))
	}

	byID := map[string]model.FormSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	if s := byID[first.ID]; s.FieldCount != 2 || s.ResponseCount != 1 {
		t.Errorf("unexpected counts for first form: %+v", s)
	}
	if s := byID[second.ID]; s.FieldCount != 1 || s.ResponseCount != 0 {
		t.Errorf("unexpected counts for second form: %+v", s)
	}
}
