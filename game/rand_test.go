package game

import (
	"context"
	"errors"
	"testing"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("entropy source unavailable")
}

func TestCryptoRand_InRange(t *testing.T) {
	r := CryptoRand{}
	for i := 0; i < 1000; i++ {
		if v := r.Intn(7); v < 0 || v >= 7 {
			t.Fatalf("Intn(7) = %d", v)
		}
	}
	if v := r.Intn(0); v != 0 {
		t.Errorf("Intn(0) = %d, want 0", v)
	}
}

func TestCryptoRand_FailureNeverWins(t *testing.T) {
	r := CryptoRand{Reader: failingReader{}}
	if v := r.Intn(100); v != 99 {
		t.Fatalf("failed read: got %d, want n-1", v)
	}

	st := &fakeStore{
		prizes:  []Prize{{ID: 1, IsActive: true, Probability: 100}},
		winRate: 99,
	}
	eng := NewEngineWithRand(st, st, st, r)
	for i := 0; i < 10; i++ {
		o, err := eng.ResolvePlay(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if o.Won {
			t.Fatal("a dead random source must not produce wins")
		}
	}
	if st.gamesPlayed != 10 || st.prizesWon != 0 {
		t.Errorf("stats: gamesPlayed=%d prizesWon=%d, want 10/0", st.gamesPlayed, st.prizesWon)
	}
}
