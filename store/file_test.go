package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mroblesdev/scratch-win-server/game"
)

func TestFileStore_SeedsDefaults(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	prizes, err := s.ListPrizes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(prizes) != 6 {
		t.Fatalf("expected 6 seeded prizes, got %d", len(prizes))
	}
	if prizes[0].ID != 1 || prizes[0].Name != "$100" {
		t.Errorf("first seeded prize: %+v", prizes[0])
	}
	unlimited := 0
	for _, p := range prizes {
		if p.Stock == nil {
			unlimited++
		}
	}
	if unlimited != 2 {
		t.Errorf("expected 2 unlimited prizes in seed, got %d", unlimited)
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.GlobalWinRate != 25 || settings.Title != "Scratch & Win" {
		t.Errorf("seeded settings: %+v", settings)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 0 || stats.PrizesWon != 0 {
		t.Errorf("seeded stats should start at zero: %+v", stats)
	}
}

func TestFileStore_PrizeCRUD(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	created, err := s.CreatePrize(ctx, NewPrize{
		Name: "Mug", Description: "Coffee Mug", Type: game.TypePhysical,
		Value: "$9.99", Icon: "cup", Stock: intp(3), IsActive: true, Probability: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != 7 {
		t.Errorf("expected id 7 after 6 seeds, got %d", created.ID)
	}

	got, err := s.GetPrize(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Mug" || got.Stock == nil || *got.Stock != 3 {
		t.Errorf("got %+v", got)
	}

	updated, err := s.UpdatePrize(ctx, created.ID, NewPrize{
		Name: "Mug", Description: "Coffee Mug", Type: game.TypePhysical,
		Value: "$9.99", Icon: "cup", Stock: nil, IsActive: false, Probability: 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Stock != nil || updated.IsActive || updated.Probability != 20 {
		t.Errorf("updated %+v", updated)
	}

	if err := s.DeletePrize(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPrize(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: %v", err)
	}
	if err := s.DeletePrize(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: %v", err)
	}
	if _, err := s.UpdatePrize(ctx, 999, NewPrize{Name: "x", Type: game.TypeDigital}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: %v", err)
	}
}

func TestFileStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s1.CreatePrize(ctx, NewPrize{Name: "Sticker", Type: game.TypePhysical, Value: "$1", Icon: "tag", IsActive: true, Probability: 1}); err != nil {
		t.Fatal(err)
	}
	if ok, err := s1.DecrementStock(ctx, 1); err != nil || !ok {
		t.Fatalf("decrement seeded prize 1: ok=%v err=%v", ok, err)
	}
	if err := s1.IncrementStats(ctx, 3, 1); err != nil {
		t.Fatal(err)
	}
	settings, _ := s1.Settings(ctx)
	settings.GlobalWinRate = 60
	if _, err := s1.UpdateSettings(ctx, *settings); err != nil {
		t.Fatal(err)
	}

	s2, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	prizes, err := s2.ListPrizes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(prizes) != 7 {
		t.Fatalf("expected 7 prizes after reload, got %d", len(prizes))
	}
	if prizes[0].Stock == nil || *prizes[0].Stock != 9 {
		t.Errorf("decrement not persisted: %v", prizes[0].Stock)
	}
	if prizes[6].Name != "Sticker" || prizes[6].Stock != nil {
		t.Errorf("created prize not persisted: %+v", prizes[6])
	}
	if rate, _ := s2.GlobalWinRate(ctx); rate != 60 {
		t.Errorf("settings not persisted: rate %d", rate)
	}
	stats, _ := s2.Stats(ctx)
	if stats.GamesPlayed != 3 || stats.PrizesWon != 1 {
		t.Errorf("stats not persisted: %+v", stats)
	}

	// New prize ids keep counting up after reload, never reusing deleted ids.
	p, err := s2.CreatePrize(ctx, NewPrize{Name: "Pin", Type: game.TypePhysical, Value: "$2", Icon: "pin", IsActive: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 8 {
		t.Errorf("expected id 8 after reload, got %d", p.ID)
	}

	for _, name := range []string{"prizes.json.tmp", "settings.json.tmp", "stats.json.tmp"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("temp file %s left behind", name)
		}
	}
}

func TestFileStore_DecrementStock(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	p, err := s.CreatePrize(ctx, NewPrize{Name: "Cap", Type: game.TypePhysical, Value: "$5", Icon: "cap", Stock: intp(2), IsActive: true, Probability: 1})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		ok, err := s.DecrementStock(ctx, p.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("decrement %d should succeed", i+1)
		}
	}
	ok, err := s.DecrementStock(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("decrement on exhausted stock must report false")
	}
	got, _ := s.GetPrize(ctx, p.ID)
	if got.Stock == nil || *got.Stock != 0 {
		t.Errorf("stock must end at exactly 0, got %v", got.Stock)
	}

	// Unlimited prize: no-op, no error.
	unlimited, err := s.CreatePrize(ctx, NewPrize{Name: "Code", Type: game.TypeDigital, Value: "$0", Icon: "key", Stock: nil, IsActive: true, Probability: 1})
	if err != nil {
		t.Fatal(err)
	}
	ok, err = s.DecrementStock(ctx, unlimited.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unlimited stock must not report a decrement")
	}

	ok, err = s.DecrementStock(ctx, 9999)
	if err != nil || ok {
		t.Errorf("absent prize: ok=%v err=%v", ok, err)
	}
}

func TestFileStore_FailedWriteKeepsState(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// Replace prizes.json with a directory so the next persist fails.
	prizesPath := filepath.Join(dir, "prizes.json")
	if err := os.Remove(prizesPath); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(prizesPath, 0755); err != nil {
		t.Fatal(err)
	}

	ok, err := s.DecrementStock(ctx, 1)
	if err == nil {
		t.Fatal("expected a write error")
	}
	if ok {
		t.Error("a failed persist must not report a consumed unit")
	}
	p, err := s.GetPrize(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock == nil || *p.Stock != 10 {
		t.Errorf("stock must be unchanged after a failed write, got %v", p.Stock)
	}

	statsPath := filepath.Join(dir, "stats.json")
	if err := os.Remove(statsPath); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(statsPath, 0755); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrementStats(ctx, 1, 1); err == nil {
		t.Fatal("expected a write error")
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 0 || stats.PrizesWon != 0 {
		t.Errorf("counters must be unchanged after a failed write: %+v", stats)
	}
}

func TestFileStore_ConcurrentPlays(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for id := 1; id <= 6; id++ {
		if err := s.DeletePrize(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	last, err := s.CreatePrize(ctx, NewPrize{
		Name: "Last", Type: game.TypePhysical, Value: "$50", Icon: "gift",
		Stock: intp(1), IsActive: true, Probability: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	settings.GlobalWinRate = 100
	if _, err := s.UpdateSettings(ctx, *settings); err != nil {
		t.Fatal(err)
	}

	// One unit, every play tries to win it. Exactly one may succeed; the
	// rest degrade to losses on the conditional decrement.
	eng := game.NewEngine(s, s, s)
	const plays = 32
	outcomes := make(chan game.Outcome, plays)
	errs := make(chan error, plays)
	var wg sync.WaitGroup
	for i := 0; i < plays; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := eng.ResolvePlay(ctx)
			if err != nil {
				errs <- err
				return
			}
			outcomes <- o
		}()
	}
	wg.Wait()
	close(outcomes)
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	wins := 0
	for o := range outcomes {
		if o.Won {
			wins++
			if o.Prize == nil || o.Prize.ID != last.ID {
				t.Errorf("win carried the wrong prize: %+v", o)
			}
		}
	}
	if wins != 1 {
		t.Errorf("exactly one play can win the last unit, got %d wins", wins)
	}
	got, err := s.GetPrize(ctx, last.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stock == nil || *got.Stock != 0 {
		t.Errorf("stock must end at exactly 0, got %v", got.Stock)
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != plays || stats.PrizesWon != 1 {
		t.Errorf("stats after %d concurrent plays: %+v", plays, stats)
	}
}

func TestFileStore_SnapshotOrder(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.DeletePrize(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreatePrize(ctx, NewPrize{Name: "New", Type: game.TypeDigital, Value: "$1", Icon: "dot", IsActive: true}); err != nil {
		t.Fatal(err)
	}
	prizes, err := s.PrizesSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(prizes); i++ {
		if prizes[i-1].ID >= prizes[i].ID {
			t.Fatalf("snapshot not in ascending id order: %d before %d", prizes[i-1].ID, prizes[i].ID)
		}
	}
}
