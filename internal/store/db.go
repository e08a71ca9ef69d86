package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/charmbracelet/log"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var itemColumns = []string{"id", "text", "completed", "created_at", "updated_at"}

// Options configures a store connection.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// SkipMigrate leaves the schema untouched on open.
	SkipMigrate bool
	Logger      *log.Logger
}

// Store is the SQL-backed ItemStore.
type Store struct {
	db      *sqlx.DB
	dialect dialect
	sb      sq.StatementBuilderType
	now     func() time.Time
	logger  *log.Logger
}

// Open returns the backend named by opts.Driver. The "memory" driver needs no DSN.
func Open(ctx context.Context, opts Options) (Backend, error) {
	if opts.Driver == "memory" {
		return NewMemory(), nil
	}
	s, err := OpenSQL(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSQL connects, pings and, unless SkipMigrate is set, migrates.
func OpenSQL(ctx context.Context, opts Options) (*Store, error) {
	d, err := lookupDialect(opts.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := dataSource(opts.Driver, opts.DSN)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	db, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	if d.singleConn {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}

	s := newStore(db, d, opts.Logger)
	if !opts.SkipMigrate {
		if _, err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// dataSource rewrites a mysql DSN so DATETIME columns scan into time.Time.
// Other drivers get the DSN unchanged.
func dataSource(driver, dsn string) (string, error) {
	if driver != "mysql" {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// NewWithDB wraps an existing connection. The dialect follows db.DriverName().
func NewWithDB(db *sqlx.DB, logger *log.Logger) (*Store, error) {
	d, err := lookupDialect(db.DriverName())
	if err != nil {
		return nil, err
	}
	return newStore(db, d, logger), nil
}

func newStore(db *sqlx.DB, d dialect, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		db:      db,
		dialect: d,
		sb:      sq.StatementBuilder.PlaceholderFormat(d.placeholder),
		now:     defaultClock,
		logger:  logger,
	}
}

// SetClock overrides the timestamp source.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) Close() error { return s.db.Close() }

type itemRow struct {
	ID        int64          `db:"id"`
	Text      sql.NullString `db:"text"`
	Completed sql.NullBool   `db:"completed"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r itemRow) item() Item {
	return Item{
		ID:        r.ID,
		Text:      r.Text.String,
		Completed: r.Completed.Valid && r.Completed.Bool,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *Store) Create(ctx context.Context, text string) (Item, error) {
	now := s.now()
	q := s.sb.Insert(itemsTable).
		Columns("text", "completed", "created_at", "updated_at").
		Values(text, false, now, now)

	var id int64
	if s.dialect.returning {
		query, args, err := q.Suffix("RETURNING id").ToSql()
		if err != nil {
			return Item{}, &Error{Op: "create", Table: itemsTable, Err: err}
		}
		if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return Item{}, &Error{Op: "create", Table: itemsTable, Err: err}
		}
	} else {
		query, args, err := q.ToSql()
		if err != nil {
			return Item{}, &Error{Op: "create", Table: itemsTable, Err: err}
		}
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return Item{}, &Error{Op: "create", Table: itemsTable, Err: err}
		}
		if id, err = res.LastInsertId(); err != nil {
			return Item{}, &Error{Op: "create", Table: itemsTable, Err: err}
		}
	}
	s.logger.Debug("item created", "id", id)
	return Item{ID: id, Text: text, Completed: false, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *Store) Find(ctx context.Context, id int64) (Item, error) {
	query, args, err := s.sb.Select(itemColumns...).From(itemsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Item{}, &Error{Op: "find", Table: itemsTable, Err: err}
	}
	var row itemRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, NotFound("find")
		}
		return Item{}, &Error{Op: "find", Table: itemsTable, Err: err}
	}
	return row.item(), nil
}

func (s *Store) All(ctx context.Context) ([]Item, error) {
	query, args, err := s.sb.Select(itemColumns...).From(itemsTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, &Error{Op: "all", Table: itemsTable, Err: err}
	}
	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &Error{Op: "all", Table: itemsTable, Err: err}
	}
	out := make([]Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.item())
	}
	return out, nil
}

func (s *Store) UpdateCompleted(ctx context.Context, id int64) (Item, error) {
	it, err := s.Find(ctx, id)
	if err != nil {
		return Item{}, err
	}
	now := s.now()
	query, args, err := s.sb.Update(itemsTable).
		Set("completed", true).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Item{}, &Error{Op: "update_completed", Table: itemsTable, Err: err}
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return Item{}, &Error{Op: "update_completed", Table: itemsTable, Err: err}
	}
	it.Completed = true
	it.UpdatedAt = now
	return it, nil
}

func (s *Store) DestroyAll(ctx context.Context) error {
	query, args, err := s.sb.Delete(itemsTable).ToSql()
	if err != nil {
		return &Error{Op: "destroy_all", Table: itemsTable, Err: err}
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &Error{Op: "destroy_all", Table: itemsTable, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil {
		s.logger.Debug("items destroyed", "count", n)
	}
	return nil
}
