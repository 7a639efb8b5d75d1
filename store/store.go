// Package store persists forms as single documents: one row per form,
// fields and response history embedded as JSON. Keeping everything in
// one row makes the edit rewrite and the response append single-row
// writes, which is where the engine's atomicity contract comes from.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/pr4th4meshh/respondly/form"
	"github.com/pr4th4meshh/respondly/model"
)

// Forms is the persistence boundary of the form engine. Implementations
// must make Update an all-or-nothing write of title, fields and
// responses together, and AppendResponses atomic with respect to
// concurrent appends on the same form.
type Forms interface {
	Create(ctx context.Context, f *model.Form) error
	Get(ctx context.Context, id string) (*model.Form, error)
	Update(ctx context.Context, f *model.Form) error
	Delete(ctx context.Context, id string) error
	ListByCreator(ctx context.Context, creator string) ([]model.FormSummary, error)
	AppendResponses(ctx context.Context, id string, pairs []model.Response) error
}

// SQLite implements Forms on a sqlite database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Create(ctx context.Context, f *model.Form) error {
	fields, responses, err := marshalDoc(f)
	if err != nil {
		return form.StoreError{Op: "create", Err: err}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form (id, creator, version, title, fields, responses, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Creator, f.Version, f.Title, fields, responses, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return form.StoreError{Op: "create", Err: err}
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*model.Form, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, creator, version, title, fields, responses, created_at, updated_at
		FROM form
		WHERE id = ?`,
		id,
	)
	return scanForm(row, id)
}

// Update writes title, fields and the rewritten response history in one
// row update, guarded by the version column: a stale version means the
// form changed since the editor read it, and the edit is refused with
// ConflictError instead of silently clobbering the concurrent write.
func (s *SQLite) Update(ctx context.Context, f *model.Form) error {
	fields, responses, err := marshalDoc(f)
	if err != nil {
		return form.StoreError{Op: "update", Err: err}
	}

	f.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE form
		SET title = ?, fields = ?, responses = ?, version = version+1, updated_at = ?
		WHERE id = ? AND version = ?`,
		f.Title, fields, responses, f.UpdatedAt, f.ID, f.Version,
	)
	if err != nil {
		return form.StoreError{Op: "update", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return form.StoreError{Op: "update.verify", Err: err}
	}
	if n < 1 {
		var exists bool
		err = s.db.QueryRowContext(ctx, "SELECT 1 FROM form WHERE id = ?", f.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return form.NotFoundError{ID: f.ID}
		}
		if err != nil {
			return form.StoreError{Op: "update.verify", Err: err}
		}
		return form.ConflictError{FormID: f.ID}
	}

	f.Version++
	return nil
}

// Delete removes the form row; the embedded responses go with it.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM form WHERE id = ?", id)
	if err != nil {
		return form.StoreError{Op: "delete", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return form.StoreError{Op: "delete.verify", Err: err}
	}
	if n < 1 {
		return form.NotFoundError{ID: id}
	}
	return nil
}

func (s *SQLite) ListByCreator(ctx context.Context, creator string) ([]model.FormSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, fields, responses, created_at, updated_at
		FROM form
		WHERE creator = ?
		ORDER BY created_at, id`,
		creator,
	)
	if err != nil {
		return nil, form.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	summaries := []model.FormSummary{}
	for rows.Next() {
		var (
			sum       model.FormSummary
			fields    []byte
			responses []byte
		)
		err = rows.Scan(&sum.ID, &sum.Title, &fields, &responses, &sum.CreatedAt, &sum.UpdatedAt)
		if err != nil {
			return nil, form.StoreError{Op: "list.scan", Err: err}
		}

		var fs []model.Field
		var rs []model.Response
		if err = json.Unmarshal(fields, &fs); err != nil {
			return nil, form.StoreError{Op: "list.fields", Err: err}
		}
		if err = json.Unmarshal(responses, &rs); err != nil {
			return nil, form.StoreError{Op: "list.responses", Err: err}
		}
		sum.FieldCount = len(fs)
		sum.ResponseCount = len(rs)

		summaries = append(summaries, sum)
	}
	if err = rows.Err(); err != nil {
		return nil, form.StoreError{Op: "list", Err: err}
	}
	return summaries, nil
}

// AppendResponses appends validated pairs to the form's response
// history. The read-modify-write runs in one transaction so two
// concurrent submissions are both retained, never overwritten.
func (s *SQLite) AppendResponses(ctx context.Context, id string, pairs []model.Response) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return form.StoreError{Op: "append.begin", Err: err}
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx, "SELECT responses FROM form WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return form.NotFoundError{ID: id}
	}
	if err != nil {
		return form.StoreError{Op: "append.get", Err: err}
	}

	var responses []model.Response
	if err = json.Unmarshal(raw, &responses); err != nil {
		return form.StoreError{Op: "append.responses", Err: err}
	}
	responses = append(responses, pairs...)

	raw, err = json.Marshal(responses)
	if err != nil {
		return form.StoreError{Op: "append.marshal", Err: err}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE form
		SET responses = ?, updated_at = ?
		WHERE id = ?`,
		raw, time.Now().UTC(), id,
	)
	if err != nil {
		return form.StoreError{Op: "append.update", Err: err}
	}

	if err = tx.Commit(); err != nil {
		return form.StoreError{Op: "append.commit", Err: err}
	}
	return nil
}

func marshalDoc(f *model.Form) (fields, responses []byte, err error) {
	if f.Responses == nil {
		f.Responses = []model.Response{}
	}
	fields, err = json.Marshal(f.Fields)
	if err != nil {
		return
	}
	responses, err = json.Marshal(f.Responses)
	return
}

func scanForm(row *sql.Row, id string) (*model.Form, error) {
	f := &model.Form{}
	var fields, responses []byte
	err := row.Scan(&f.ID, &f.Creator, &f.Version, &f.Title, &fields, &responses, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, form.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, form.StoreError{Op: "get", Err: err}
	}

	if err = json.Unmarshal(fields, &f.Fields); err != nil {
		return nil, form.StoreError{Op: "get.fields", Err: err}
	}
	if err = json.Unmarshal(responses, &f.Responses); err != nil {
		return nil, form.StoreError{Op: "get.responses", Err: err}
	}
	return f, nil
}
