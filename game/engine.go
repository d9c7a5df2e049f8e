package game

import "context"

// PrizeStore is the prize-catalog collaborator the engine draws against.
type PrizeStore interface {
	// PrizesSnapshot returns the full catalog in ascending-id order. The draw
	// iterates it in that order, so the same random stream always yields the
	// same outcome for the same catalog state.
	PrizesSnapshot(ctx context.Context) ([]Prize, error)
	// DecrementStock atomically decrements stock by 1 if stock > 0. It returns
	// false without error when the prize is unlimited, absent, or already
	// exhausted; stock never goes below zero.
	DecrementStock(ctx context.Context, prizeID int) (bool, error)
}

// SettingsStore exposes the one setting the engine reads.
type SettingsStore interface {
	GlobalWinRate(ctx context.Context) (int, error)
}

// StatsStore applies aggregate counter deltas atomically.
type StatsStore interface {
	IncrementStats(ctx context.Context, gamesPlayedDelta, prizesWonDelta int) error
}

// Engine resolves one play at a time: the global win-rate gate, then weighted
// selection over the eligible prizes, then stock and stats mutation. Every
// ambiguous state (no eligible prizes, zero total weight, stock raced to zero)
// is a defined loss, not an error.
type Engine struct {
	prizes   PrizeStore
	settings SettingsStore
	stats    StatsStore
	rand     Rand
}

// NewEngine creates an engine over the given stores using crypto/rand.
func NewEngine(prizes PrizeStore, settings SettingsStore, stats StatsStore) *Engine {
	return NewEngineWithRand(prizes, settings, stats, CryptoRand{})
}

// NewEngineWithRand creates an engine with an explicit random source (tests).
func NewEngineWithRand(prizes PrizeStore, settings SettingsStore, stats StatsStore, r Rand) *Engine {
	return &Engine{prizes: prizes, settings: settings, stats: stats, rand: r}
}

// ResolvePlay resolves exactly one play. Per call it applies one gamesPlayed
// increment, at most one prizesWon increment, and at most one stock decrement.
// Store failures propagate unmodified; the stock decrement is applied before
// the stats increments so a failed write can never over-award a finite prize.
func (e *Engine) ResolvePlay(ctx context.Context) (Outcome, error) {
	rate, err := e.settings.GlobalWinRate(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if rate < 0 {
		rate = 0
	} else if rate > 100 {
		rate = 100
	}
	// Gate: r1 in [0,100); r1 >= rate is a loss. rate=0 never wins, rate=100
	// always proceeds to selection.
	if e.rand.Intn(100) >= rate {
		return e.loss(ctx)
	}

	all, err := e.prizes.PrizesSnapshot(ctx)
	if err != nil {
		return Outcome{}, err
	}
	eligible := make([]Prize, 0, len(all))
	totalWeight := 0
	for _, p := range all {
		if !p.Eligible() {
			continue
		}
		if p.Probability < 0 {
			continue
		}
		eligible = append(eligible, p)
		totalWeight += p.Probability
	}
	if len(eligible) == 0 || totalWeight == 0 {
		// Win gate passed but there is nothing to award.
		return e.loss(ctx)
	}

	// Roulette selection: r2 in [0, totalWeight), cumulative subtraction in
	// snapshot order. Zero-weight prizes can never be selected.
	r2 := e.rand.Intn(totalWeight)
	var won *Prize
	for i := range eligible {
		r2 -= eligible[i].Probability
		if r2 < 0 {
			won = &eligible[i]
			break
		}
	}
	if won == nil {
		// Unreachable when the random source honors [0, totalWeight); guard so
		// a misbehaving source still terminates in a defined outcome.
		won = &eligible[0]
	}

	if won.Stock != nil {
		decremented, err := e.prizes.DecrementStock(ctx, won.ID)
		if err != nil {
			return Outcome{}, err
		}
		if !decremented {
			// A concurrent play took the last unit between snapshot and
			// decrement. Degrade to a loss rather than over-award.
			return e.loss(ctx)
		}
		remaining := *won.Stock - 1
		won.Stock = &remaining
	}

	if err := e.stats.IncrementStats(ctx, 1, 1); err != nil {
		return Outcome{}, err
	}
	return Outcome{Won: true, Prize: won}, nil
}

func (e *Engine) loss(ctx context.Context) (Outcome, error) {
	if err := e.stats.IncrementStats(ctx, 1, 0); err != nil {
		return Outcome{}, err
	}
	return Outcome{}, nil
}
