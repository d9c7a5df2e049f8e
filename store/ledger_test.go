package store

import (
	"testing"
	"time"
)

func TestPlayLedger_AppendAndRecent(t *testing.T) {
	l := NewPlayLedger(t.TempDir())

	recent, err := l.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Fatalf("fresh ledger should be empty, got %d records", len(recent))
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := PlayRecord{
			PlayID:    string(rune('a' + i)),
			Won:       i%2 == 0,
			SettledAt: base.Add(time.Duration(i) * time.Second),
		}
		if i%2 == 0 {
			rec.PrizeID = intp(i + 1)
			rec.PrizeName = "Prize"
		}
		if err := l.Append(rec); err != nil {
			t.Fatal(err)
		}
	}

	recent, err = l.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recent))
	}
	if recent[0].PlayID != "e" || recent[2].PlayID != "c" {
		t.Errorf("expected newest first, got %q .. %q", recent[0].PlayID, recent[2].PlayID)
	}
	if !recent[0].Won || recent[0].PrizeID == nil {
		t.Errorf("winning record lost its prize fields: %+v", recent[0])
	}
	if recent[1].PrizeID != nil {
		t.Errorf("losing record should carry no prize id: %+v", recent[1])
	}

	// Asking for more than exists returns everything.
	all, err := l.Recent(100)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 records, got %d", len(all))
	}
}

func TestPlayLedger_Reload(t *testing.T) {
	dir := t.TempDir()

	l1 := NewPlayLedger(dir)
	if err := l1.Append(PlayRecord{PlayID: "p1", Won: false, SettledAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}

	l2 := NewPlayLedger(dir)
	recent, err := l2.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].PlayID != "p1" {
		t.Fatalf("ledger not readable from a fresh handle: %+v", recent)
	}
}
