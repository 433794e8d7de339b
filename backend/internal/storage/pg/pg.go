package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/campusnet/campusnet/shared/config"
	"github.com/campusnet/campusnet/shared/domain"
	internal_errors "github.com/campusnet/campusnet/shared/errors"
	"github.com/campusnet/campusnet/shared/logger"
	sharedpg "github.com/campusnet/campusnet/shared/storage/pg"
	"github.com/lib/pq"
)

//go:embed migrations/init.sql
var schema string

// Storage is the document store: forums, threads, posts, comments and
// notifications in postgres.
type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, cfg config.Pg, connCfg sharedpg.ConnectionConfig) (*Storage, error) {
	logger.Log.Info("connecting to document store", "host", cfg.Host, "dbname", cfg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg, connCfg)
	if err != nil {
		return nil, err
	}
	if err := sharedpg.Migrate(ctx, db, schema); err != nil {
		db.Close()
		return nil, err
	}
	logger.Log.Info("successfully connected to document store")
	return &Storage{db: db}, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// storeErr tags a driver error so handlers can tell it from a domain error.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, internal_errors.ErrStore, err)
}

func notFound(err error, msg, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NotFound(msg)
	}
	return storeErr(op, err)
}

// affected turns a zero row update into NotFound.
func affected(res sql.Result, err error, msg, op string) error {
	if err != nil {
		return storeErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return internal_errors.NotFound(msg)
	}
	return nil
}

// table maps a kind to its table. The result is a constant and safe to
// format into a query.
func table(kind domain.Kind) (string, error) {
	switch kind {
	case domain.KindForum:
		return "forums", nil
	case domain.KindThread:
		return "threads", nil
	case domain.KindPost:
		return "posts", nil
	case domain.KindComment:
		return "comments", nil
	}
	return "", internal_errors.InvalidOperation("Unknown content kind")
}

func reactionTable(kind domain.Kind) (string, error) {
	if !kind.Reactable() {
		return "", internal_errors.InvalidOperation("Only posts and comments have reactions")
	}
	return table(kind)
}

func missing(kind domain.Kind) string {
	switch kind {
	case domain.KindForum:
		return "Forum not found"
	case domain.KindThread:
		return "Thread not found"
	case domain.KindPost:
		return "Post not found"
	case domain.KindComment:
		return "Comment not found"
	}
	return "Not found"
}

// isForeignKeyViolation reports an insert under a missing parent row.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

type scanner interface {
	Scan(dest ...any) error
}
