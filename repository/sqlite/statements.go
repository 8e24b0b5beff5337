package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"yt-brief/errors"
)

const (
	upsertQuery = `
        INSERT INTO videos (
            id, video_id, url, title, status, transcript,
            source, summary, summary_style, error, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(video_id) DO UPDATE SET
            url = excluded.url,
            title = excluded.title,
            status = excluded.status,
            transcript = excluded.transcript,
            source = excluded.source,
            summary = excluded.summary,
            summary_style = excluded.summary_style,
            error = excluded.error,
            updated_at = excluded.updated_at
    `

	getQuery = `
        SELECT id, video_id, url, title, status, transcript,
               source, summary, summary_style, error, created_at, updated_at
        FROM videos WHERE id = ?
    `

	getByVideoIDQuery = `
        SELECT id, video_id, url, title, status, transcript,
               source, summary, summary_style, error, created_at, updated_at
        FROM videos WHERE video_id = ?
    `
)

type preparedStatements struct {
	upsert       *sql.Stmt
	get          *sql.Stmt
	getByVideoID *sql.Stmt
}

func (stmts *preparedStatements) prepare(ctx context.Context, db *sql.DB) error {
	const op = "preparedStatements.prepare"

	var err error

	if stmts.upsert, err = db.PrepareContext(ctx, upsertQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare upsert statement")
	}

	if stmts.get, err = db.PrepareContext(ctx, getQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare get statement")
	}

	if stmts.getByVideoID, err = db.PrepareContext(ctx, getByVideoIDQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare getByVideoID statement")
	}

	return nil
}

func (stmts *preparedStatements) close() error {
	var errs []error

	for _, stmt := range [...]*sql.Stmt{stmts.upsert, stmts.get, stmts.getByVideoID} {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close prepared statements: %v", errs)
	}

	return nil
}
