// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
)

// Stage abstracts the changes of a state, ready to be committed.
type Stage struct {
	changes map[Key][]byte
}

// Len returns the number of changed records.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Keys returns keys of changed records in ascending order.
func (s *Stage) Keys() []Key {
	keys := make([]Key, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) < 0
	})
	return keys
}

// Commit writes all changes into the stater's store in one atomic batch.
func (s *Stage) Commit(stater *Stater) error {
	if len(s.changes) == 0 {
		return nil
	}
	bulk := stater.store.Bulk()
	for _, k := range s.Keys() {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.Bytes())
		} else {
			err = bulk.Put(k.Bytes(), v)
		}
		if err != nil {
			return &Error{errors.WithMessage(err, "stage")}
		}
	}
	if err := bulk.Write(); err != nil {
		stater.purge(s.changes)
		return &Error{errors.WithMessage(err, "commit")}
	}
	stater.update(s.changes)
	return nil
}
