package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mroblesdev/scratch-win-server/game"
)

// FileStore keeps the catalog, settings, and stats in memory behind a single
// mutex and persists each to a JSON file under dataDir (prizes.json,
// settings.json, stats.json). The mutex serializes every read-modify-write,
// so concurrent plays cannot drive a finite stock below zero.
type FileStore struct {
	mu       sync.Mutex
	dataDir  string
	prizes   []game.Prize // ascending by id
	nextID   int
	settings game.GameSettings
	stats    game.GameStats
}

// NewFileStore opens (or initializes) a file store under dataDir. A fresh
// directory is seeded with the default catalog, settings, and stats.
func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	s := &FileStore{dataDir: dataDir, nextID: 1}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) prizesPath() string   { return filepath.Join(s.dataDir, "prizes.json") }
func (s *FileStore) settingsPath() string { return filepath.Join(s.dataDir, "settings.json") }
func (s *FileStore) statsPath() string    { return filepath.Join(s.dataDir, "stats.json") }

type prizesFile struct {
	NextID int          `json:"nextId"`
	Prizes []game.Prize `json:"prizes"`
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.prizesPath())
	switch {
	case err == nil:
		var f prizesFile
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		s.prizes = f.Prizes
		s.nextID = f.NextID
		sort.Slice(s.prizes, func(i, j int) bool { return s.prizes[i].ID < s.prizes[j].ID })
		if s.nextID < 1 {
			s.nextID = 1
			for _, p := range s.prizes {
				if p.ID >= s.nextID {
					s.nextID = p.ID + 1
				}
			}
		}
	case os.IsNotExist(err):
		for _, p := range DefaultPrizes() {
			p.ID = s.nextID
			s.nextID++
			s.prizes = append(s.prizes, p)
		}
		if err := s.savePrizesLocked(); err != nil {
			return err
		}
	default:
		return err
	}

	data, err = os.ReadFile(s.settingsPath())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.settings); err != nil {
			return err
		}
	case os.IsNotExist(err):
		s.settings = DefaultSettings()
		if err := writeJSONFile(s.settingsPath(), &s.settings); err != nil {
			return err
		}
	default:
		return err
	}

	data, err = os.ReadFile(s.statsPath())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.stats); err != nil {
			return err
		}
	case os.IsNotExist(err):
		s.stats = DefaultStats()
		if err := writeJSONFile(s.statsPath(), &s.stats); err != nil {
			return err
		}
	default:
		return err
	}
	return nil
}

// writeJSONFile writes via a temp file and rename so a crash mid-write never
// leaves a truncated file behind.
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// savePrizesLocked writes the catalog to disk. Caller must hold s.mu (or be
// in single-threaded initialization).
func (s *FileStore) savePrizesLocked() error {
	return writeJSONFile(s.prizesPath(), prizesFile{NextID: s.nextID, Prizes: s.prizes})
}

func (s *FileStore) PrizesSnapshot(ctx context.Context) ([]game.Prize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]game.Prize, len(s.prizes))
	copy(out, s.prizes)
	return out, nil
}

func (s *FileStore) DecrementStock(ctx context.Context, prizeID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prizes {
		p := &s.prizes[i]
		if p.ID != prizeID {
			continue
		}
		if p.Stock == nil || *p.Stock <= 0 {
			return false, nil
		}
		prev := p.Stock
		remaining := *p.Stock - 1
		p.Stock = &remaining
		if err := s.savePrizesLocked(); err != nil {
			// A unit is consumed only once it is durably recorded.
			p.Stock = prev
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *FileStore) GlobalWinRate(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.GlobalWinRate, nil
}

func (s *FileStore) IncrementStats(ctx context.Context, gamesPlayedDelta, prizesWonDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.GamesPlayed += gamesPlayedDelta
	s.stats.PrizesWon += prizesWonDelta
	if err := writeJSONFile(s.statsPath(), &s.stats); err != nil {
		s.stats.GamesPlayed -= gamesPlayedDelta
		s.stats.PrizesWon -= prizesWonDelta
		return err
	}
	return nil
}

func (s *FileStore) ListPrizes(ctx context.Context) ([]game.Prize, error) {
	return s.PrizesSnapshot(ctx)
}

func (s *FileStore) GetPrize(ctx context.Context, id int) (*game.Prize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prizes {
		if s.prizes[i].ID == id {
			p := s.prizes[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) CreatePrize(ctx context.Context, np NewPrize) (*game.Prize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := game.Prize{
		ID:          s.nextID,
		Name:        np.Name,
		Description: np.Description,
		Type:        np.Type,
		Value:       np.Value,
		Icon:        np.Icon,
		Stock:       np.Stock,
		IsActive:    np.IsActive,
		Probability: np.Probability,
	}
	s.nextID++
	s.prizes = append(s.prizes, p)
	if err := s.savePrizesLocked(); err != nil {
		return nil, err
	}
	out := p
	return &out, nil
}

func (s *FileStore) UpdatePrize(ctx context.Context, id int, np NewPrize) (*game.Prize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prizes {
		if s.prizes[i].ID != id {
			continue
		}
		s.prizes[i] = game.Prize{
			ID:          id,
			Name:        np.Name,
			Description: np.Description,
			Type:        np.Type,
			Value:       np.Value,
			Icon:        np.Icon,
			Stock:       np.Stock,
			IsActive:    np.IsActive,
			Probability: np.Probability,
		}
		if err := s.savePrizesLocked(); err != nil {
			return nil, err
		}
		out := s.prizes[i]
		return &out, nil
	}
	return nil, ErrNotFound
}

func (s *FileStore) DeletePrize(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prizes {
		if s.prizes[i].ID == id {
			s.prizes = append(s.prizes[:i], s.prizes[i+1:]...)
			return s.savePrizesLocked()
		}
	}
	return ErrNotFound
}

func (s *FileStore) Settings(ctx context.Context) (*game.GameSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.settings
	return &out, nil
}

func (s *FileStore) UpdateSettings(ctx context.Context, in game.GameSettings) (*game.GameSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = s.settings.ID
	s.settings = in
	if err := writeJSONFile(s.settingsPath(), &s.settings); err != nil {
		return nil, err
	}
	out := s.settings
	return &out, nil
}

func (s *FileStore) Stats(ctx context.Context) (*game.GameStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.stats
	return &out, nil
}

func (s *FileStore) Close() error { return nil }
