package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkeene/pihome/pkg/remote"
)

var ErrRemoteNotFound = errors.New("remote not found")

// Remote is one stored record: the configuration pushed in through the
// API plus the state observed by the control cycle.
type Remote struct {
	remote.Config
	Data      *string
	DoorOpen  *bool
	Motion    *string
	Photo     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemoteStore provides remote CRUD and the state-upsert used by the
// control cycle.
type RemoteStore interface {
	List(ctx context.Context) ([]*Remote, error)
	Get(ctx context.Context, pin int) (*Remote, error)
	Create(ctx context.Context, cfg remote.Config) error
	UpdateConfig(ctx context.Context, pin int, cfg remote.Config) error
	Delete(ctx context.Context, pin int) error

	// Configs returns just the configuration records, for the poll loop.
	Configs(ctx context.Context) ([]remote.Config, error)

	// UpdateState upserts the observed-state fields for the record
	// matching pin. Nil fields are left untouched.
	UpdateState(ctx context.Context, pin int, st remote.State) error
}

// Remotes returns a RemoteStore for this database.
func (db *DB) Remotes() RemoteStore {
	return &remoteStore{db: db}
}

type remoteStore struct {
	db *DB
}

const remoteColumns = `pin, name, kind, keep_on, photo_toggle, pin_buzzer, pin_motion, emails,
	data, door_open, motion, photo, created_at, updated_at`

func scanRemote(scan func(dest ...any) error) (*Remote, error) {
	r := &Remote{}
	var kind string
	var doorOpen sql.NullBool
	var createdAt, updatedAt string
	err := scan(&r.Pin, &r.Name, &kind, &r.KeepOn, &r.PhotoToggle,
		&r.PinBuzzer, &r.PinMotion, &r.Emails,
		&r.Data, &doorOpen, &r.Motion, &r.Photo, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.Kind = remote.Kind(kind)
	if doorOpen.Valid {
		r.DoorOpen = &doorOpen.Bool
	}
	r.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	r.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return r, nil
}

func (s *remoteStore) List(ctx context.Context) ([]*Remote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+remoteColumns+` FROM remotes ORDER BY pin
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var remotes []*Remote
	for rows.Next() {
		r, err := scanRemote(rows.Scan)
		if err != nil {
			return nil, err
		}
		remotes = append(remotes, r)
	}
	return remotes, rows.Err()
}

func (s *remoteStore) Get(ctx context.Context, pin int) (*Remote, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+remoteColumns+` FROM remotes WHERE pin = ?
	`, pin)

	r, err := scanRemote(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrRemoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *remoteStore) Create(ctx context.Context, cfg remote.Config) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO remotes (pin, name, kind, keep_on, photo_toggle, pin_buzzer, pin_motion, emails)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, cfg.Pin, cfg.Name, string(cfg.Kind), cfg.KeepOn, cfg.PhotoToggle,
		cfg.PinBuzzer, cfg.PinMotion, cfg.Emails)
	if err != nil {
		return fmt.Errorf("create remote: %w", err)
	}
	return nil
}

func (s *remoteStore) UpdateConfig(ctx context.Context, pin int, cfg remote.Config) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE remotes
		SET pin = ?, name = ?, kind = ?, keep_on = ?, photo_toggle = ?,
		    pin_buzzer = ?, pin_motion = ?, emails = ?, updated_at = datetime('now')
		WHERE pin = ?
	`, cfg.Pin, cfg.Name, string(cfg.Kind), cfg.KeepOn, cfg.PhotoToggle,
		cfg.PinBuzzer, cfg.PinMotion, cfg.Emails, pin)
	if err != nil {
		return fmt.Errorf("update remote: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRemoteNotFound
	}
	return nil
}

func (s *remoteStore) Delete(ctx context.Context, pin int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM remotes WHERE pin = ?`, pin)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRemoteNotFound
	}
	return nil
}

func (s *remoteStore) Configs(ctx context.Context) ([]remote.Config, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pin, name, kind, keep_on, photo_toggle, pin_buzzer, pin_motion, emails
		FROM remotes ORDER BY pin
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cfgs []remote.Config
	for rows.Next() {
		var cfg remote.Config
		var kind string
		if err := rows.Scan(&cfg.Pin, &cfg.Name, &kind, &cfg.KeepOn, &cfg.PhotoToggle,
			&cfg.PinBuzzer, &cfg.PinMotion, &cfg.Emails); err != nil {
			return nil, err
		}
		cfg.Kind = remote.Kind(kind)
		cfgs = append(cfgs, cfg)
	}
	return cfgs, rows.Err()
}

func (s *remoteStore) UpdateState(ctx context.Context, pin int, st remote.State) error {
	sets := []string{"updated_at = datetime('now')"}
	args := []any{}

	if st.Data != nil {
		sets = append(sets, "data = ?")
		args = append(args, *st.Data)
	}
	if st.DoorOpen != nil {
		sets = append(sets, "door_open = ?")
		args = append(args, *st.DoorOpen)
	}
	if st.Motion != nil {
		sets = append(sets, "motion = ?")
		args = append(args, *st.Motion)
	}
	if st.Photo != nil {
		sets = append(sets, "photo = ?")
		args = append(args, *st.Photo)
	}
	args = append(args, pin)

	result, err := s.db.ExecContext(ctx,
		`UPDATE remotes SET `+strings.Join(sets, ", ")+` WHERE pin = ?`, args...)
	if err != nil {
		return fmt.Errorf("update remote state: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRemoteNotFound
	}
	return nil
}
