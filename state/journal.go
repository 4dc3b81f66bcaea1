package state

import "github.com/ethereum/go-ethereum/common"

type journalEntry interface {
	revert(s *StateDB)
}

type journal struct {
	entries []journalEntry
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

func (j *journal) length() int {
	return len(j.entries)
}

func (j *journal) revertTo(s *StateDB, length int) {
	for i := len(j.entries) - 1; i >= length; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:length]
}

type (
	storageChange struct {
		address common.Address
		slot    common.Hash
		prev    common.Hash
	}
	addLogChange struct{}
)

func (ch storageChange) revert(s *StateDB) {
	s.setState(ch.address, ch.slot, ch.prev)
}

func (ch addLogChange) revert(s *StateDB) {
	s.logs = s.logs[:len(s.logs)-1]
}
