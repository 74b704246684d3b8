// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/thor"
)

// EventDB is the append-only journal of applied operations.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its only connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite library.
func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Insert appends events in one transaction and assigns their sequence numbers.
func (db *EventDB) Insert(ctx context.Context, events ...*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, ev := range events {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO event(time, op, caller, amount, taskID, data) VALUES (?, ?, ?, ?, ?, ?)",
			ev.Time,
			ev.Op,
			ev.Caller.Bytes(),
			int64(ev.Amount), // #nosec G115 stored as its two's complement bits
			int64(ev.TaskID), // #nosec G115
			ev.Data,
		)
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
		seq, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return err
		}
		ev.Seq = uint64(seq) // #nosec G115
	}
	return tx.Commit()
}

// Filter returns events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Caller != nil {
		args = append(args, filter.Caller.Bytes())
		stmt += " AND caller = ? "
	}
	if filter.Op != "" {
		args = append(args, filter.Op)
		stmt += " AND op = ? "
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}
	if filter.Limit > 0 {
		stmt += " limit ?, ? "
		args = append(args, filter.Offset, filter.Limit)
	}
	return db.query(ctx, stmt, args...)
}

// Last returns the most recent event, or nil if the journal is empty.
func (db *EventDB) Last(ctx context.Context) (*Event, error) {
	events, err := db.query(ctx, "SELECT * FROM event ORDER BY seq DESC limit 1")
	if err != nil || len(events) == 0 {
		return nil, err
	}
	return events[0], nil
}

// Count returns the number of journaled events.
func (db *EventDB) Count(ctx context.Context) (n uint64, err error) {
	err = db.db.QueryRowContext(ctx, "SELECT count(*) FROM event").Scan(&n)
	return
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq    int64
			time   int64
			op     string
			caller []byte
			amount int64
			taskID int64
			data   []byte
		)
		if err := rows.Scan(
			&seq,
			&time,
			&op,
			&caller,
			&amount,
			&taskID,
			&data,
		); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			Seq:    uint64(seq), // #nosec G115
			Time:   time,
			Op:     op,
			Caller: thor.BytesToAddress(caller),
			Amount: uint64(amount), // #nosec G115
			TaskID: uint64(taskID), // #nosec G115
			Data:   data,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
