package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-drive/pkg/simpledrive"
	"github.com/tendant/simple-drive/pkg/simpledrive/query"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpledrive.MetadataStore using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Sortable fields whitelist; anything else falls back to created_at.
var orderColumns = map[string]string{
	query.FieldCreatedAt: "created_at",
	query.FieldUpdatedAt: "updated_at",
	query.FieldName:      "name",
	query.FieldSize:      "size",
}

const fileColumns = `id, blob_id, name, extension, type, url, size, owner_id, account_id, users, created_at, updated_at`

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("file already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return simpledrive.ErrFileNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateFile(ctx context.Context, file *simpledrive.FileRecord) error {
	q := `
		INSERT INTO files (
			id, blob_id, name, extension, type, url, size,
			owner_id, account_id, users, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, q,
		file.ID, file.BlobID, file.Name, file.Extension, string(file.Type),
		file.URL, file.Size, file.OwnerID, file.AccountID, file.Users,
		file.CreatedAt, file.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create file", err)
	}

	return nil
}

func (r *Repository) GetFile(ctx context.Context, id uuid.UUID) (*simpledrive.FileRecord, error) {
	q := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	file, err := scanFile(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpledrive.ErrFileNotFound
		}
		return nil, r.handlePostgresError("get file", err)
	}

	return file, nil
}

func (r *Repository) UpdateFile(ctx context.Context, file *simpledrive.FileRecord) error {
	q := `
		UPDATE files SET
			name = $2, extension = $3, url = $4, size = $5,
			users = $6, updated_at = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q,
		file.ID, file.Name, file.Extension, file.URL, file.Size,
		file.Users, file.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update file", err)
	}
	if tag.RowsAffected() == 0 {
		return simpledrive.ErrFileNotFound
	}

	return nil
}

func (r *Repository) DeleteFile(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete file", err)
	}
	if tag.RowsAffected() == 0 {
		return simpledrive.ErrFileNotFound
	}

	return nil
}

// ListFiles translates the predicate list into a single SELECT. Filter
// predicates become WHERE conjuncts (the access predicate stays a single
// OR clause), order predicates pick a whitelisted column, and the limit
// predicate caps the result.
func (r *Repository) ListFiles(ctx context.Context, preds []query.Predicate) ([]*simpledrive.FileRecord, error) {
	var (
		where   []string
		args    []interface{}
		orderBy string
		limit   int
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, p := range preds {
		switch p.Op {
		case query.OpAccess:
			if len(p.Values) != 2 {
				return nil, fmt.Errorf("access predicate requires owner id and email")
			}
			where = append(where, fmt.Sprintf("(owner_id = %s::uuid OR %s = ANY(users))",
				arg(p.Values[0]), arg(p.Values[1])))
		case query.OpOwnerEq:
			if len(p.Values) != 1 {
				return nil, fmt.Errorf("owner predicate requires exactly one owner id")
			}
			where = append(where, fmt.Sprintf("owner_id = %s::uuid", arg(p.Values[0])))
		case query.OpTypeIn:
			where = append(where, fmt.Sprintf("type = ANY(%s)", arg(p.Values)))
		case query.OpNameContains:
			if len(p.Values) != 1 {
				return nil, fmt.Errorf("name predicate requires exactly one search text")
			}
			where = append(where, fmt.Sprintf("name ILIKE '%%' || %s || '%%'", arg(p.Values[0])))
		case query.OpOrderAsc, query.OpOrderDesc:
			col, ok := orderColumns[p.Field]
			if !ok {
				col = "created_at"
			}
			dir := "DESC"
			if p.Op == query.OpOrderAsc {
				dir = "ASC"
			}
			orderBy = fmt.Sprintf(" ORDER BY %s %s", col, dir)
		case query.OpLimit:
			limit = p.Limit
		default:
			return nil, fmt.Errorf("unsupported predicate op: %s", p.Op)
		}
	}

	q := `SELECT ` + fileColumns + ` FROM files`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	if orderBy != "" {
		q += orderBy
	}
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %s", arg(limit))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, r.handlePostgresError("list files", err)
	}
	defer rows.Close()

	files := make([]*simpledrive.FileRecord, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, r.handlePostgresError("list files", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list files", err)
	}

	return files, nil
}

func scanFile(row pgx.Row) (*simpledrive.FileRecord, error) {
	var file simpledrive.FileRecord
	var fileType string

	err := row.Scan(
		&file.ID, &file.BlobID, &file.Name, &file.Extension, &fileType,
		&file.URL, &file.Size, &file.OwnerID, &file.AccountID, &file.Users,
		&file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return nil, err
	}

	file.Type = simpledrive.FileType(fileType)
	if file.Users == nil {
		file.Users = []string{}
	}
	return &file, nil
}
