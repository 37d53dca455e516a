// Package store persists users, accounts, campaigns, leads and messages in a
// SQL database. Queries are built with ent's dialect-aware builder so the same
// code runs on PostgreSQL and SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/autoigdm/api/pkg/database"
	"github.com/autoigdm/api/pkg/domain"
)

const (
	usersTable     = "users"
	accountsTable  = "instagram_accounts"
	campaignsTable = "campaigns"
	leadsTable     = "leads"
	messagesTable  = "messages"
)

// conn is satisfied by both *sql.DB and *sql.Tx
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// Store implements domain.Store on a SQL database
type Store struct {
	db      *sql.DB
	conn    conn
	dialect string
	inTx    bool
}

var _ domain.Store = (*Store)(nil)

// New creates a Store on an opened database client
func New(client *database.Client) *Store {
	return &Store{db: client.DB, conn: client.DB, dialect: client.Dialect}
}

func (s *Store) Users() domain.UserRepository         { return &userRepo{s} }
func (s *Store) Accounts() domain.AccountRepository   { return &accountRepo{s} }
func (s *Store) Campaigns() domain.CampaignRepository { return &campaignRepo{s} }
func (s *Store) Leads() domain.LeadRepository         { return &leadRepo{s} }
func (s *Store) Messages() domain.MessageRepository   { return &messageRepo{s} }

// WithTx runs fn inside a database transaction. Nested calls reuse the
// enclosing transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txStore := &Store{db: s.db, conn: tx, dialect: s.dialect, inTx: true}
	if err := fn(txStore); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// sql returns a query builder for the store's dialect
func (s *Store) sql() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

func (s *Store) exec(ctx context.Context, query string, args []any) (int64, error) {
	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) count(ctx context.Context, table string, where *entsql.Predicate) (int, error) {
	b := s.sql()
	query, args := b.Select(entsql.Count("*")).From(b.Table(table)).Where(where).Query()

	var n int
	if err := s.conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
