// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/vechain/skillstake/cache"
	"github.com/vechain/skillstake/kv"
	"github.com/vechain/skillstake/thor"
)

const defaultCacheSize = 1024

// Stater is the state creator. It reads committed records through an LRU cache.
type Stater struct {
	store kv.Store
	cache *cache.LRU
}

// NewStater create a new stater. cacheSize is the number of records kept in memory.
func NewStater(store kv.Store, cacheSize int) *Stater {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	lru, err := cache.NewLRU(cacheSize)
	if err != nil {
		panic(err) // unreachable with positive size
	}
	return &Stater{store, lru}
}

// NewState create a new state object on top of the committed records.
func (s *Stater) NewState() *State {
	return New(s)
}

// CacheStats returns the hit/miss statistics of the record cache.
func (s *Stater) CacheStats() *cache.Stats {
	return s.cache.Stats()
}

// Get implements Source.
func (s *Stater) Get(key Key) ([]byte, error) {
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		data, err := s.store.Get(key.Bytes())
		if err != nil {
			if s.store.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, errors.WithMessage(err, "load record "+key.String())
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return bytes.Clone(v.([]byte)), nil
}

// ForEach iterates committed records in the given space, in address order.
// The iteration stops when fn returns false or an error.
func (s *Stater) ForEach(space Space, fn func(addr thor.Address, value []byte) (bool, error)) error {
	it := kv.Bucket([]byte{byte(space)}).NewStore(s.store).Iterate(kv.Range{})
	defer it.Release()

	for it.Next() {
		cont, err := fn(thor.BytesToAddress(it.Key()), bytes.Clone(it.Value()))
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return errors.WithMessage(it.Error(), "iterate records")
}

// Count returns the number of committed records in the given space.
func (s *Stater) Count(space Space) (n int, err error) {
	err = s.ForEach(space, func(thor.Address, []byte) (bool, error) {
		n++
		return true, nil
	})
	return
}

func (s *Stater) update(changes map[Key][]byte) {
	for k, v := range changes {
		if len(v) == 0 {
			s.cache.Add(k, []byte(nil))
		} else {
			s.cache.Add(k, bytes.Clone(v))
		}
	}
}

func (s *Stater) purge(changes map[Key][]byte) {
	for k := range changes {
		s.cache.Remove(k)
	}
}
