package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// PlayRecord is one settled play in the audit ledger.
type PlayRecord struct {
	PlayID    string    `json:"playId"`
	Won       bool      `json:"won"`
	PrizeID   *int      `json:"prizeId,omitempty"`
	PrizeName string    `json:"prizeName,omitempty"`
	SettledAt time.Time `json:"settledAt"`
}

// PlayLedger appends settled plays to plays.json under the data dir. It is an
// audit trail only; game state lives in the Store.
type PlayLedger struct {
	mu      sync.Mutex
	dataDir string
}

func NewPlayLedger(dataDir string) *PlayLedger {
	if dataDir == "" {
		dataDir = "data"
	}
	return &PlayLedger{dataDir: dataDir}
}

func (l *PlayLedger) path() string {
	return filepath.Join(l.dataDir, "plays.json")
}

func (l *PlayLedger) readLocked() ([]PlayRecord, error) {
	data, err := os.ReadFile(l.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []PlayRecord
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Append adds one settled play to the ledger file.
func (l *PlayLedger) Append(rec PlayRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(l.dataDir, 0755); err != nil {
		return err
	}
	list, err := l.readLocked()
	if err != nil {
		return err
	}
	list = append(list, rec)
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path(), data, 0644)
}

// Recent returns the last n plays, newest first.
func (l *PlayLedger) Recent(n int) ([]PlayRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	list, err := l.readLocked()
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > len(list) {
		n = len(list)
	}
	out := make([]PlayRecord, 0, n)
	for i := len(list) - 1; i >= len(list)-n; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
