// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/vechain/skillstake/stackedmap"
	"github.com/vechain/skillstake/thor"
)

// Space partitions records by kind. Each space is a separate kv bucket.
type Space byte

// Record spaces.
const (
	PolicySpace  Space = 'p'
	StakeSpace   Space = 's'
	BalanceSpace Space = 'b'
	TokenSpace   Space = 't'
)

// Key locates a record: its space and the identity it is stored at.
type Key struct {
	Space Space
	Addr  thor.Address
}

// Bytes returns the kv key of the record.
func (k Key) Bytes() []byte {
	return append([]byte{byte(k.Space)}, k.Addr[:]...)
}

func (k Key) String() string {
	return fmt.Sprintf("%c/%v", k.Space, k.Addr)
}

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Source reads committed records. A missing record returns nil value and nil error.
type Source interface {
	Get(key Key) ([]byte, error)
}

// State holds the records touched by one transaction on top of the committed store.
// Writes are journaled so they can be reverted to any checkpoint, and reach the
// store only through Stage.
type State struct {
	src Source
	sm  *stackedmap.StackedMap[Key, []byte]
}

// New create state object.
func New(src Source) *State {
	s := &State{src: src}
	s.sm = stackedmap.New(func(key Key) ([]byte, bool, error) {
		v, err := s.src.Get(key)
		if err != nil {
			return nil, false, err
		}
		return v, v != nil, nil
	})
	return s
}

// Get returns the raw record stored at key, or nil if absent.
func (s *State) Get(key Key) ([]byte, error) {
	v, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// Put stores the raw record at key. An empty value deletes the record on commit.
func (s *State) Put(key Key, value []byte) {
	s.sm.Put(key, bytes.Clone(value))
}

// DecodeRecord decodes the record at key with dec. A missing record is passed as nil.
func (s *State) DecodeRecord(key Key, dec func([]byte) error) error {
	v, err := s.Get(key)
	if err != nil {
		return err
	}
	return dec(v)
}

// EncodeRecord stores the record at key encoded by enc.
func (s *State) EncodeRecord(key Key, enc func() ([]byte, error)) error {
	data, err := enc()
	if err != nil {
		return err
	}
	s.Put(key, data)
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the latest value of every record written since the state was created.
func (s *State) Stage() *Stage {
	changes := make(map[Key][]byte)
	s.sm.Journal(func(k Key, v []byte) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes}
}
