// Package save provides durable player-state storage over two slots,
// primary and backup, backed by SQLite. Every save first copies the current
// primary into the backup slot so a torn or corrupt write never loses more
// than one checkpoint.
package save

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/velobay/shopsim/internal/catalog"
	"github.com/velobay/shopsim/internal/clock"
	"github.com/velobay/shopsim/internal/state"
)

// FormatVersion is the save format this engine reads and writes. A stored
// version above this is from a newer engine and is never loaded.
const FormatVersion = 1

// ErrVersionMismatch marks a save written by a newer engine version.
var ErrVersionMismatch = errors.New("save format version is newer than engine")

const (
	slotPrimary = "primary"
	slotBackup  = "backup"
)

// Record is the persisted envelope around the player state.
type Record struct {
	Version int                `json:"version"`
	SavedAt string             `json:"saved_at"`
	Player  *state.PlayerState `json:"player"`
}

// LoadResult reports the outcome of a load attempt. Player is always
// non-nil; when OK is false it holds a fresh default state.
type LoadResult struct {
	OK                 bool
	Player             *state.PlayerState
	RestoredFromBackup bool
	ErrorMessage       string
}

// Store wraps the SQLite connection holding both save slots.
type Store struct {
	db  *sqlx.DB
	clk clock.Clock
}

// Open opens or creates the save database at the given path.
func Open(path string, clk clock.Clock) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open save db: %w", err)
	}
	if clk == nil {
		clk = clock.System{}
	}

	s := &Store{db: db, clk: clk}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate save db: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		slot TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		saved_at TEXT NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS save_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

type slotRow struct {
	Slot    string `db:"slot"`
	Version int    `db:"version"`
	SavedAt string `db:"saved_at"`
	Payload string `db:"payload"`
}

// Save durably writes the player state to the primary slot, rotating the
// previous primary into the backup slot first. The backup copy is best
// effort; a primary write failure is returned to the caller.
func (s *Store) Save(p *state.PlayerState) error {
	// Rotate primary into backup. Losing the rotation is survivable, so a
	// failure here is logged and the save continues.
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO slots (slot, version, saved_at, payload)
		SELECT ?, version, saved_at, payload FROM slots WHERE slot = ?`,
		slotBackup, slotPrimary,
	)
	if err != nil {
		slog.Warn("backup slot rotation failed", "error", err)
	}

	rec := Record{
		Version: FormatVersion,
		SavedAt: s.clk.Now().Format("2006-01-02 15:04:05"),
		Player:  p,
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO slots (slot, version, saved_at, payload)
		VALUES (?, ?, ?, ?)`,
		slotPrimary, rec.Version, rec.SavedAt, string(payload),
	)
	if err != nil {
		return fmt.Errorf("write primary slot: %w", err)
	}

	slog.Info("game saved", "saved_at", rec.SavedAt, "day", p.Day)
	return nil
}

// SaveMeta stores a key/value pair in engine bookkeeping.
func (s *Store) SaveMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO save_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves an engine bookkeeping value.
func (s *Store) GetMeta(key string) (string, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM save_meta WHERE key = ?", key)
	return value, err
}

// Load restores the player state. The primary slot is tried first; if it is
// absent, corrupt, or invalid the backup slot is tried. A save from a newer
// engine version fails immediately and is never downgraded via the backup.
// When both slots fail the result carries a fresh default state.
func (s *Store) Load() (LoadResult, error) {
	row, err := s.readSlot(slotPrimary)
	switch {
	case err == nil:
		if row.Version > FormatVersion {
			return LoadResult{
				OK:           false,
				Player:       state.New(catalog.DefaultBrand),
				ErrorMessage: fmt.Sprintf("save version %d, engine supports %d", row.Version, FormatVersion),
			}, fmt.Errorf("load primary: version %d: %w", row.Version, ErrVersionMismatch)
		}
		if p, perr := decodeSlot(row); perr == nil {
			return LoadResult{OK: true, Player: p}, nil
		} else {
			slog.Warn("primary slot unreadable, trying backup", "error", perr)
		}
	case errors.Is(err, sql.ErrNoRows):
		slog.Info("no primary save slot, trying backup")
	default:
		slog.Warn("primary slot read failed, trying backup", "error", err)
	}

	row, err = s.readSlot(slotBackup)
	if err == nil {
		if row.Version > FormatVersion {
			return LoadResult{
				OK:           false,
				Player:       state.New(catalog.DefaultBrand),
				ErrorMessage: fmt.Sprintf("backup version %d, engine supports %d", row.Version, FormatVersion),
			}, fmt.Errorf("load backup: version %d: %w", row.Version, ErrVersionMismatch)
		}
		if p, perr := decodeSlot(row); perr == nil {
			slog.Warn("restored player state from backup slot")
			return LoadResult{OK: true, Player: p, RestoredFromBackup: true}, nil
		} else {
			slog.Warn("backup slot unreadable", "error", perr)
		}
	}

	slog.Warn("no usable save found, starting from defaults")
	return LoadResult{
		OK:           false,
		Player:       state.New(catalog.DefaultBrand),
		ErrorMessage: "no usable save slot",
	}, nil
}

func (s *Store) readSlot(slot string) (slotRow, error) {
	var row slotRow
	err := s.db.Get(&row, "SELECT slot, version, saved_at, payload FROM slots WHERE slot = ?", slot)
	return row, err
}

func decodeSlot(row slotRow) (*state.PlayerState, error) {
	var rec Record
	if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
		return nil, fmt.Errorf("decode slot %s: %w", row.Slot, err)
	}
	if rec.Player == nil {
		return nil, fmt.Errorf("slot %s has no player record", row.Slot)
	}
	Validate(rec.Player)
	return rec.Player, nil
}

// Validate repairs a loaded player record in place: nil collections are
// default-initialized and out-of-range counters are clamped. Repairs are
// logged but never surfaced as failures.
func Validate(p *state.PlayerState) {
	if p.Money < 0 {
		slog.Warn("loaded save had negative money, clamping to 0", "money", p.Money)
		p.Money = 0
	}
	if p.Reputation < 0 {
		slog.Warn("loaded save had negative reputation, clamping to 0", "reputation", p.Reputation)
		p.Reputation = 0
	}
	if p.Day < 1 {
		p.Day = 1
	}
	if p.UnlockedBrands == nil {
		slog.Warn("loaded save had no brand list, initializing")
		p.UnlockedBrands = []string{catalog.DefaultBrand}
	}
	if p.UnlockedItems == nil {
		p.UnlockedItems = []string{}
	}
	if p.CompletedMilestones == nil {
		p.CompletedMilestones = []string{}
	}
	if p.CustomerFriends == nil {
		p.CustomerFriends = []string{}
	}
}

// Delete removes both save slots. Failures are logged, not raised.
func (s *Store) Delete() {
	if _, err := s.db.Exec("DELETE FROM slots"); err != nil {
		slog.Error("delete save slots failed", "error", err)
		return
	}
	slog.Info("save slots deleted")
}

// HasValidSave reports whether a load attempt would succeed from either slot.
func (s *Store) HasValidSave() bool {
	res, err := s.Load()
	return err == nil && res.OK
}
