// Package profile stores Jellyfin logins in SQLite so the CLI can reuse a
// token across runs.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/migrations"
)

// Memory opens a store that lives only as long as the process.
const Memory = ":memory:"

// Profile is one saved login.
type Profile struct {
	Name      string
	ServerURL string
	ServerID  string
	UserID    string
	UserName  string
	Token     string
	DeviceID  string
	Default   bool
	CreatedAt time.Time
}

func (p *Profile) validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case p.ServerURL == "":
		return fmt.Errorf("%w: server url is required", ErrInvalid)
	case p.UserID == "" || p.Token == "":
		return fmt.Errorf("%w: user id and token are required", ErrInvalid)
	case p.DeviceID == "":
		return fmt.Errorf("%w: device id is required", ErrInvalid)
	}
	return nil
}

// Store is the profile database. It is opened with Open and released with
// Close; there is no process-wide instance.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// Open opens or creates the database at path and brings its schema up to
// date. Pass Memory for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure db: %w", err)
	}
	if _, err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.db, nil
}

// Save inserts p or replaces the stored profile of the same name. CreatedAt
// is set on first save and kept on later ones. The default flag is managed
// by SetDefault and ignored here.
func (s *Store) Save(ctx context.Context, p *Profile) error {
	if err := p.validate(); err != nil {
		return err
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO profiles (name, server_url, server_id, user_id, user_name, token, device_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   server_url = excluded.server_url,
		   server_id = excluded.server_id,
		   user_id = excluded.user_id,
		   user_name = excluded.user_name,
		   token = excluded.token,
		   device_id = excluded.device_id`,
		p.Name, p.ServerURL, p.ServerID, p.UserID, p.UserName, p.Token, p.DeviceID, p.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.Name, err)
	}
	return nil
}

const selectProfile = `SELECT name, server_url, server_id, user_id, user_name, token, device_id, is_default, created_at FROM profiles`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*Profile, error) {
	var (
		p       Profile
		isDef   int
		created int64
	)
	err := row.Scan(&p.Name, &p.ServerURL, &p.ServerID, &p.UserID, &p.UserName, &p.Token, &p.DeviceID, &isDef, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Default = isDef == 1
	p.CreatedAt = time.Unix(created, 0)
	return &p, nil
}

// Get returns the profile called name.
func (s *Store) Get(ctx context.Context, name string) (*Profile, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	p, err := scanProfile(db.QueryRowContext(ctx, selectProfile+` WHERE name = ?`, name))
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", name, err)
	}
	return p, nil
}

// List returns every profile ordered by name.
func (s *Store) List(ctx context.Context) ([]*Profile, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, selectProfile+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes the profile called name.
func (s *Store) Delete(ctx context.Context, name string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete profile %s: %w", name, ErrNotFound)
	}
	return nil
}

// SetDefault marks name as the profile used when none is named.
func (s *Store) SetDefault(ctx context.Context, name string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE profiles SET is_default = 0 WHERE is_default = 1`); err != nil {
		return fmt.Errorf("set default %s: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE profiles SET is_default = 1 WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("set default %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set default %s: %w", name, ErrNotFound)
	}
	return tx.Commit()
}

// Default returns the default profile. When none is marked and exactly one
// profile exists, that profile is returned.
func (s *Store) Default(ctx context.Context) (*Profile, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	p, err := scanProfile(db.QueryRowContext(ctx, selectProfile+` WHERE is_default = 1`))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("default profile: %w", err)
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 1 {
		return all[0], nil
	}
	return nil, fmt.Errorf("default profile: %w", ErrNotFound)
}
