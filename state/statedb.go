package state

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// StorageEntry is a single persisted word.
type StorageEntry struct {
	Address common.Address
	Slot    common.Hash
	Value   common.Hash
}

// Changeset holds the words written and the logs emitted since the last commit.
type Changeset struct {
	Storage []StorageEntry
	Logs    []*Log
}

type revision struct {
	id           int
	journalIndex int
}

// StateDB is an in-memory word store keyed by contract address and slot. Every
// write is journaled so nested call frames can be reverted.
// A zero value deletes the word.
type StateDB struct {
	storage map[common.Address]map[common.Hash]common.Hash
	logs    []*Log

	journal        *journal
	validRevisions []revision
	nextRevisionID int
}

// New creates an empty StateDB
func New() *StateDB {
	return &StateDB{
		storage: make(map[common.Address]map[common.Hash]common.Hash),
		journal: &journal{},
	}
}

// GetState returns the word at slot of addr.
func (s *StateDB) GetState(addr common.Address, slot common.Hash) common.Hash {
	return s.storage[addr][slot]
}

// SetState writes the word at slot of addr.
func (s *StateDB) SetState(addr common.Address, slot common.Hash, value common.Hash) {
	prev := s.GetState(addr, slot)
	if prev == value {
		return
	}
	s.journal.append(storageChange{address: addr, slot: slot, prev: prev})
	s.setState(addr, slot, value)
}

func (s *StateDB) setState(addr common.Address, slot common.Hash, value common.Hash) {
	words, ok := s.storage[addr]
	if !ok {
		if value == (common.Hash{}) {
			return
		}
		words = make(map[common.Hash]common.Hash)
		s.storage[addr] = words
	}
	if value == (common.Hash{}) {
		delete(words, slot)
		if len(words) == 0 {
			delete(s.storage, addr)
		}
		return
	}
	words[slot] = value
}

// AddLog records an event emitted by addr.
func (s *StateDB) AddLog(addr common.Address, event Event) {
	s.journal.append(addLogChange{})
	s.logs = append(s.logs, &Log{Address: addr, Event: event, Index: uint(len(s.logs))})
}

// Logs returns the logs emitted since the last commit.
func (s *StateDB) Logs() []*Log {
	return s.logs
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snapshot := s.validRevisions[idx].journalIndex

	s.journal.revertTo(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

// Pending returns the changes applied since the last commit without clearing them.
// Every touched word is reported once with its current value, sorted by address and slot.
func (s *StateDB) Pending() *Changeset {
	type key struct {
		address common.Address
		slot    common.Hash
	}
	seen := make(map[key]struct{})
	var entries []StorageEntry
	for _, e := range s.journal.entries {
		ch, ok := e.(storageChange)
		if !ok {
			continue
		}
		k := key{ch.address, ch.slot}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		entries = append(entries, StorageEntry{Address: ch.address, Slot: ch.slot, Value: s.GetState(ch.address, ch.slot)})
	}
	sortEntries(entries)
	logs := make([]*Log, len(s.logs))
	copy(logs, s.logs)
	return &Changeset{Storage: entries, Logs: logs}
}

// Commit returns the pending changes and clears the journal, the logs and every revision.
func (s *StateDB) Commit() *Changeset {
	cs := s.Pending()
	s.journal = &journal{}
	s.logs = nil
	s.validRevisions = s.validRevisions[:0]
	return cs
}

// Load writes persisted words without journaling them.
func (s *StateDB) Load(entries []StorageEntry) {
	for _, e := range entries {
		s.setState(e.Address, e.Slot, e.Value)
	}
}

// Dump returns every stored word, sorted by address and slot.
func (s *StateDB) Dump() []StorageEntry {
	var entries []StorageEntry
	for addr, words := range s.storage {
		for slot, value := range words {
			entries = append(entries, StorageEntry{Address: addr, Slot: slot, Value: value})
		}
	}
	sortEntries(entries)
	return entries
}

func sortEntries(entries []StorageEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if c := bytes.Compare(entries[i].Address.Bytes(), entries[j].Address.Bytes()); c != 0 {
			return c < 0
		}
		return bytes.Compare(entries[i].Slot.Bytes(), entries[j].Slot.Bytes()) < 0
	})
}
