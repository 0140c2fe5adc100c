package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const documentsTable = "documents"

// SQLite takes "?" placeholders.
var sqliteBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildSelectDocumentQuery(path string) (string, []any, error) {
	return sqliteBuilder.
		Select("content").
		From(documentsTable).
		Where(sq.Eq{"path": path}).
		ToSql()
}

// buildUpsertDocumentQuery inserts a new row or replaces content of the row
// with the same path. id and created_at survive replacement.
func buildUpsertDocumentQuery(id, path, content string, now time.Time) (string, []any, error) {
	return sqliteBuilder.
		Insert(documentsTable).
		Columns("id", "path", "content", "created_at", "updated_at").
		Values(id, path, content, now, now).
		Suffix("ON CONFLICT(path) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at").
		ToSql()
}

func buildRenameDocumentQuery(oldPath, newPath string, now time.Time) (string, []any, error) {
	return sqliteBuilder.
		Update(documentsTable).
		Set("path", newPath).
		Set("updated_at", now).
		Where(sq.Eq{"path": oldPath}).
		ToSql()
}

func buildDeleteDocumentQuery(path string) (string, []any, error) {
	return sqliteBuilder.
		Delete(documentsTable).
		Where(sq.Eq{"path": path}).
		ToSql()
}

func buildListDocumentsQuery() (string, []any, error) {
	return sqliteBuilder.
		Select("path").
		From(documentsTable).
		OrderBy("path").
		ToSql()
}
