package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/crypto"
)

// registerPrefix records a state-key prefix into statePrefixes so that
// ComputeRoot() always covers it. All prefix constants must be declared via
// this function.
func registerPrefix(p string) string {
	statePrefixes = append(statePrefixes, p)
	return p
}

// statePrefixes is populated by registerPrefix() below. ComputeRoot()
// iterates these prefixes to build the full world-state view.
var statePrefixes []string

var (
	prefixGame   = registerPrefix("game:")
	prefixBal    = registerPrefix("bal:")
	prefixActive = registerPrefix("active:")
	prefixWNext  = registerPrefix("wnext:")
	prefixWPrev  = registerPrefix("wprev:")
)

type stateSnapshot struct {
	dirty   map[string][]byte
	deleted map[string]bool
}

// StateDB implements core.State on top of a DB with an in-memory write
// buffer, snapshot/rollback, and deterministic state-root computation. One
// operation = one snapshot; a failed operation reverts and leaves no trace.
type StateDB struct {
	db        DB
	dirty     map[string][]byte
	deleted   map[string]bool
	snapshots []stateSnapshot
}

// NewStateDB creates a StateDB backed by db.
func NewStateDB(db DB) *StateDB {
	return &StateDB{
		db:      db,
		dirty:   make(map[string][]byte),
		deleted: make(map[string]bool),
	}
}

// ---- internal helpers ----

func (s *StateDB) get(key string) ([]byte, error) {
	if s.deleted[key] {
		return nil, core.ErrNotFound
	}
	if v, ok := s.dirty[key]; ok {
		return v, nil
	}
	return s.db.Get([]byte(key))
}

func (s *StateDB) set(key string, val []byte) {
	delete(s.deleted, key)
	s.dirty[key] = val
}

func (s *StateDB) del(key string) {
	delete(s.dirty, key)
	s.deleted[key] = true
}

// ---- Games ----

func (s *StateDB) GetGame(id crypto.Hash) (*core.Game, error) {
	data, err := s.get(prefixGame + id.Hex())
	if err != nil {
		return nil, err
	}
	var g core.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *StateDB) SetGame(g *core.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	s.set(prefixGame+g.ID.Hex(), data)
	return nil
}

func (s *StateDB) DeleteGame(id crypto.Hash) error {
	s.del(prefixGame + id.Hex())
	return nil
}

// ---- Balances ----

func (s *StateDB) GetBalance(user string) (*core.UserBalance, error) {
	data, err := s.get(prefixBal + user)
	if errors.Is(err, core.ErrNotFound) {
		return &core.UserBalance{User: user}, nil // zero-value record
	}
	if err != nil {
		return nil, err
	}
	var b core.UserBalance
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *StateDB) SetBalance(b *core.UserBalance) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	s.set(prefixBal+b.User, data)
	return nil
}

// ---- Active-game mapping ----

func (s *StateDB) GetActiveGame(user string) (crypto.Hash, error) {
	data, err := s.get(prefixActive + user)
	if errors.Is(err, core.ErrNotFound) {
		return crypto.ZeroHash, nil
	}
	if err != nil {
		return crypto.ZeroHash, err
	}
	var id crypto.Hash
	copy(id[:], data)
	return id, nil
}

func (s *StateDB) SetActiveGame(user string, id crypto.Hash) error {
	s.set(prefixActive+user, append([]byte(nil), id[:]...))
	return nil
}

func (s *StateDB) ClearActiveGame(user string) error {
	s.del(prefixActive + user)
	return nil
}

// ---- Waiting-ring pointers ----

func (s *StateDB) GetWaitingNext(id crypto.Hash) (crypto.Hash, error) {
	return s.getPtr(prefixWNext + id.Hex())
}

func (s *StateDB) SetWaitingNext(id, next crypto.Hash) error {
	s.set(prefixWNext+id.Hex(), append([]byte(nil), next[:]...))
	return nil
}

func (s *StateDB) DeleteWaitingNext(id crypto.Hash) error {
	s.del(prefixWNext + id.Hex())
	return nil
}

func (s *StateDB) GetWaitingPrev(id crypto.Hash) (crypto.Hash, error) {
	return s.getPtr(prefixWPrev + id.Hex())
}

func (s *StateDB) SetWaitingPrev(id, prev crypto.Hash) error {
	s.set(prefixWPrev+id.Hex(), append([]byte(nil), prev[:]...))
	return nil
}

func (s *StateDB) DeleteWaitingPrev(id crypto.Hash) error {
	s.del(prefixWPrev + id.Hex())
	return nil
}

func (s *StateDB) getPtr(key string) (crypto.Hash, error) {
	data, err := s.get(key)
	if err != nil {
		return crypto.ZeroHash, err
	}
	var h crypto.Hash
	copy(h[:], data)
	return h, nil
}

// ---- Snapshot / Rollback / Commit ----

// Snapshot saves the current write buffer and returns a snapshot ID.
func (s *StateDB) Snapshot() (int, error) {
	snap := stateSnapshot{
		dirty:   make(map[string][]byte, len(s.dirty)),
		deleted: make(map[string]bool, len(s.deleted)),
	}
	for k, v := range s.dirty {
		cp := make([]byte, len(v))
		copy(cp, v)
		snap.dirty[k] = cp
	}
	for k, v := range s.deleted {
		snap.deleted[k] = v
	}
	s.snapshots = append(s.snapshots, snap)
	return len(s.snapshots) - 1, nil
}

// RevertToSnapshot restores the write buffer to a previously saved snapshot.
// The snapshot maps are deep-copied so subsequent writes cannot corrupt them.
func (s *StateDB) RevertToSnapshot(id int) error {
	if id < 0 || id >= len(s.snapshots) {
		return fmt.Errorf("invalid snapshot id %d", id)
	}
	snap := s.snapshots[id]

	dirty := make(map[string][]byte, len(snap.dirty))
	for k, v := range snap.dirty {
		cp := make([]byte, len(v))
		copy(cp, v)
		dirty[k] = cp
	}
	deleted := make(map[string]bool, len(snap.deleted))
	for k, v := range snap.deleted {
		deleted[k] = v
	}

	s.dirty = dirty
	s.deleted = deleted
	s.snapshots = s.snapshots[:id]
	return nil
}

// ComputeRoot returns the deterministic hash of the complete engine state:
// all persisted entries under the registered prefixes merged with the
// current write buffer, sorted, length-prefix encoded and hashed. It does
// not flush or modify state, so off-chain simulators can cross-check it
// after every operation.
func (s *StateDB) ComputeRoot() string {
	merged := make(map[string][]byte)
	for _, prefix := range statePrefixes {
		it := s.db.NewIterator([]byte(prefix))
		for it.Next() {
			k := string(it.Key())
			v := make([]byte, len(it.Value()))
			copy(v, it.Value())
			merged[k] = v
		}
		it.Release()
	}

	for k, v := range s.dirty {
		merged[k] = v
	}
	for k := range s.deleted {
		delete(merged, k)
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	var lenBuf [4]byte
	for _, k := range keys {
		v := merged[k]
		kb := []byte(k)
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(kb)))
		buf.Write(lenBuf[:])
		buf.Write(kb)
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v)))
		buf.Write(lenBuf[:])
		buf.Write(v)
	}
	return crypto.Keccak256(buf.Bytes()).Hex()
}

// Commit atomically flushes the write buffer to the underlying DB via a
// Batch and then clears it. Call ComputeRoot() first if the root is needed.
func (s *StateDB) Commit() error {
	batch := s.db.NewBatch()
	for k, v := range s.dirty {
		batch.Set([]byte(k), v)
	}
	for k := range s.deleted {
		batch.Delete([]byte(k))
	}
	if err := batch.Write(); err != nil {
		return err
	}
	s.dirty = make(map[string][]byte)
	s.deleted = make(map[string]bool)
	s.snapshots = nil
	return nil
}
