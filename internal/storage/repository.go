package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vovakirdan/graveyard/internal/session"
)

// txRepository is a session.Repository bound to one transaction.
type txRepository struct {
	ctx  context.Context
	tx   *sql.Tx
	name string // overrides the stored profile when set
}

func (r *txRepository) UserName() string {
	if r.name != "" {
		return r.name
	}
	// A profile that cannot be read still lets the record through.
	p, _ := loadProfile(r.ctx, r.tx)
	return p.Name
}

func (r *txRepository) AppendRecord(rec session.Record) error {
	_, err := appendRecord(r.ctx, r.tx, rec)
	return err
}

// WithRepository runs fn inside a transaction. The transaction commits when
// fn returns nil and rolls back when it returns an error or panics.
func (s *Store) WithRepository(ctx context.Context, fn func(session.Repository) error) error {
	return s.withRepository(ctx, "", fn)
}

func (s *Store) withRepository(ctx context.Context, name string, fn func(session.Repository) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txRepository{ctx: ctx, tx: tx, name: name}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// NamedStore is a RecordStore whose records carry a fixed player name
// instead of the stored profile, e.g. the SSH user of a remote session.
type NamedStore struct {
	store *Store
	name  string
}

// As returns a view of the store that records results under name.
func (s *Store) As(name string) *NamedStore {
	return &NamedStore{store: s, name: name}
}

// WithRepository implements session.RecordStore.
func (n *NamedStore) WithRepository(ctx context.Context, fn func(session.Repository) error) error {
	return n.store.withRepository(ctx, n.name, fn)
}

// Ensure both stores implement session.RecordStore
var (
	_ session.RecordStore = (*Store)(nil)
	_ session.RecordStore = (*NamedStore)(nil)
)
