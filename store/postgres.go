package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/mroblesdev/scratch-win-server/game"
)

// PostgresStore persists the catalog, settings, and stats in Postgres. Stock
// decrements and stats increments are single conditional UPDATEs, so
// concurrent plays serialize on the row instead of racing a read-then-write.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects using the given DSN. The simple query protocol is
// used so the store works behind PgBouncer-style poolers without
// "prepared statement already exists" failures.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	db := stdlib.OpenDB(*cfg)
	db.SetConnMaxIdleTime(4 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

const prizeColumns = `id, name, COALESCE(description, ''), type, value, icon, stock, COALESCE(is_active, true), probability`

func scanPrize(row interface{ Scan(...interface{}) error }) (game.Prize, error) {
	var p game.Prize
	var stock sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Type, &p.Value, &p.Icon, &stock, &p.IsActive, &p.Probability)
	if err != nil {
		return game.Prize{}, err
	}
	if stock.Valid {
		v := int(stock.Int64)
		p.Stock = &v
	}
	return p, nil
}

func stockValue(stock *int) interface{} {
	if stock == nil {
		return nil
	}
	return *stock
}

func (s *PostgresStore) PrizesSnapshot(ctx context.Context) ([]game.Prize, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+prizeColumns+` FROM prizes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []game.Prize
	for rows.Next() {
		p, err := scanPrize(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DecrementStock is the conditional decrement the draw engine relies on: one
// atomic UPDATE, no row affected means unlimited, absent, or exhausted.
func (s *PostgresStore) DecrementStock(ctx context.Context, prizeID int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE prizes SET stock = stock - 1 WHERE id = $1 AND stock > 0`, prizeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *PostgresStore) GlobalWinRate(ctx context.Context) (int, error) {
	var rate int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(global_win_rate, 0) FROM game_settings ORDER BY id LIMIT 1`).Scan(&rate)
	if err != nil {
		return 0, err
	}
	return rate, nil
}

func (s *PostgresStore) IncrementStats(ctx context.Context, gamesPlayedDelta, prizesWonDelta int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE game_stats
		SET games_played = games_played + $1,
		    prizes_won = prizes_won + $2
		WHERE id = (SELECT MIN(id) FROM game_stats)
	`, gamesPlayedDelta, prizesWonDelta)
	return err
}

func (s *PostgresStore) ListPrizes(ctx context.Context) ([]game.Prize, error) {
	return s.PrizesSnapshot(ctx)
}

func (s *PostgresStore) GetPrize(ctx context.Context, id int) (*game.Prize, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+prizeColumns+` FROM prizes WHERE id = $1`, id)
	p, err := scanPrize(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) CreatePrize(ctx context.Context, np NewPrize) (*game.Prize, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO prizes (name, description, type, value, icon, stock, is_active, probability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+prizeColumns,
		np.Name, np.Description, np.Type, np.Value, np.Icon, stockValue(np.Stock), np.IsActive, np.Probability)
	p, err := scanPrize(row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) UpdatePrize(ctx context.Context, id int, np NewPrize) (*game.Prize, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE prizes
		SET name = $2, description = $3, type = $4, value = $5, icon = $6,
		    stock = $7, is_active = $8, probability = $9
		WHERE id = $1
		RETURNING `+prizeColumns,
		id, np.Name, np.Description, np.Type, np.Value, np.Icon, stockValue(np.Stock), np.IsActive, np.Probability)
	p, err := scanPrize(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) DeletePrize(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prizes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const settingsColumns = `id, title, COALESCE(instruction_text, ''), COALESCE(card_background, ''),
	COALESCE(primary_color, ''), COALESCE(secondary_color, ''),
	COALESCE(enable_game, true), COALESCE(show_prize_gallery, true),
	COALESCE(enable_win_animations, true), COALESCE(require_user_registration, false),
	COALESCE(enable_social_sharing, false), COALESCE(plays_per_user, ''),
	COALESCE(countdown_timer, 0), COALESCE(timer_type, ''), COALESCE(game_duration, ''),
	COALESCE(global_win_rate, 0), admin_notifications, user_notifications`

func (s *PostgresStore) Settings(ctx context.Context) (*game.GameSettings, error) {
	var gs game.GameSettings
	var adminJSON, userJSON []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM game_settings ORDER BY id LIMIT 1`).Scan(
		&gs.ID, &gs.Title, &gs.InstructionText, &gs.CardBackground,
		&gs.PrimaryColor, &gs.SecondaryColor,
		&gs.EnableGame, &gs.ShowPrizeGallery,
		&gs.EnableWinAnimations, &gs.RequireUserRegistration,
		&gs.EnableSocialSharing, &gs.PlaysPerUser,
		&gs.CountdownTimer, &gs.TimerType, &gs.GameDuration,
		&gs.GlobalWinRate, &adminJSON, &userJSON)
	if err != nil {
		return nil, err
	}
	if len(adminJSON) > 0 {
		_ = json.Unmarshal(adminJSON, &gs.AdminNotifications)
	}
	if len(userJSON) > 0 {
		_ = json.Unmarshal(userJSON, &gs.UserNotifications)
	}
	return &gs, nil
}

func (s *PostgresStore) UpdateSettings(ctx context.Context, in game.GameSettings) (*game.GameSettings, error) {
	adminJSON, err := json.Marshal(in.AdminNotifications)
	if err != nil {
		return nil, err
	}
	userJSON, err := json.Marshal(in.UserNotifications)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE game_settings
		SET title = $1, instruction_text = $2, card_background = $3,
		    primary_color = $4, secondary_color = $5, enable_game = $6,
		    show_prize_gallery = $7, enable_win_animations = $8,
		    require_user_registration = $9, enable_social_sharing = $10,
		    plays_per_user = $11, countdown_timer = $12, timer_type = $13,
		    game_duration = $14, global_win_rate = $15,
		    admin_notifications = $16, user_notifications = $17
		WHERE id = (SELECT MIN(id) FROM game_settings)
	`,
		in.Title, in.InstructionText, in.CardBackground,
		in.PrimaryColor, in.SecondaryColor, in.EnableGame,
		in.ShowPrizeGallery, in.EnableWinAnimations,
		in.RequireUserRegistration, in.EnableSocialSharing,
		in.PlaysPerUser, in.CountdownTimer, in.TimerType,
		in.GameDuration, in.GlobalWinRate,
		string(adminJSON), string(userJSON))
	if err != nil {
		return nil, err
	}
	return s.Settings(ctx)
}

func (s *PostgresStore) Stats(ctx context.Context) (*game.GameStats, error) {
	var st game.GameStats
	err := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(total_players, 0), COALESCE(prizes_won, 0),
		       COALESCE(games_played, 0), COALESCE(weekly_growth, 0)
		FROM game_stats ORDER BY id LIMIT 1
	`).Scan(&st.ID, &st.TotalPlayers, &st.PrizesWon, &st.GamesPlayed, &st.WeeklyGrowth)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// EnsureSchema creates the tables if they do not exist. Run by cmd/seed; the
// server itself assumes the schema is in place.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prizes (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			type TEXT NOT NULL,
			value TEXT NOT NULL,
			icon TEXT NOT NULL,
			stock INTEGER,
			is_active BOOLEAN DEFAULT true,
			probability INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS game_settings (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL DEFAULT 'Scratch & Win',
			instruction_text TEXT,
			card_background TEXT,
			primary_color TEXT,
			secondary_color TEXT,
			enable_game BOOLEAN DEFAULT true,
			show_prize_gallery BOOLEAN DEFAULT true,
			enable_win_animations BOOLEAN DEFAULT true,
			require_user_registration BOOLEAN DEFAULT false,
			enable_social_sharing BOOLEAN DEFAULT false,
			plays_per_user TEXT,
			countdown_timer INTEGER DEFAULT 24,
			timer_type TEXT,
			game_duration TEXT,
			global_win_rate INTEGER DEFAULT 25,
			admin_notifications JSONB,
			user_notifications JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS game_stats (
			id SERIAL PRIMARY KEY,
			total_players INTEGER DEFAULT 0,
			prizes_won INTEGER DEFAULT 0,
			games_played INTEGER DEFAULT 0,
			weekly_growth INTEGER DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SeedDefaults inserts the default catalog, settings, and stats rows when the
// corresponding table is empty. Idempotent.
func (s *PostgresStore) SeedDefaults(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prizes`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		for _, p := range DefaultPrizes() {
			if _, err := s.CreatePrize(ctx, NewPrize{
				Name: p.Name, Description: p.Description, Type: p.Type,
				Value: p.Value, Icon: p.Icon, Stock: p.Stock,
				IsActive: p.IsActive, Probability: p.Probability,
			}); err != nil {
				return err
			}
		}
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM game_settings`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		def := DefaultSettings()
		adminJSON, _ := json.Marshal(def.AdminNotifications)
		userJSON, _ := json.Marshal(def.UserNotifications)
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO game_settings (
				title, instruction_text, card_background, primary_color, secondary_color,
				enable_game, show_prize_gallery, enable_win_animations,
				require_user_registration, enable_social_sharing, plays_per_user,
				countdown_timer, timer_type, game_duration, global_win_rate,
				admin_notifications, user_notifications
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`,
			def.Title, def.InstructionText, def.CardBackground, def.PrimaryColor, def.SecondaryColor,
			def.EnableGame, def.ShowPrizeGallery, def.EnableWinAnimations,
			def.RequireUserRegistration, def.EnableSocialSharing, def.PlaysPerUser,
			def.CountdownTimer, def.TimerType, def.GameDuration, def.GlobalWinRate,
			string(adminJSON), string(userJSON))
		if err != nil {
			return err
		}
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM game_stats`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		def := DefaultStats()
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO game_stats (total_players, prizes_won, games_played, weekly_growth)
			VALUES ($1, $2, $3, $4)
		`, def.TotalPlayers, def.PrizesWon, def.GamesPlayed, def.WeeklyGrowth)
		if err != nil {
			return err
		}
	}
	return nil
}
