package storage

import (
	"database/sql"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

// Holding is one recorded position. PriceUSD is the last unit price seen by
// a refresh; the local-currency value is always recomputed from it, never
// stored.
type Holding struct {
	Symbol    string
	Name      string
	Amount    float64
	PriceUSD  float64
	UpdatedAt time.Time
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS holdings(
		symbol TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		amount REAL NOT NULL,
		price_usd REAL NOT NULL DEFAULT 0,
		updated_ts INTEGER NOT NULL
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// List returns all holdings ordered by display name.
func (s *Store) List() ([]Holding, error) {
	rows, err := s.db.Query(`SELECT symbol,name,amount,price_usd,updated_ts FROM holdings ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Holding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Get returns the holding for symbol, or nil when none is recorded.
func (s *Store) Get(symbol string) (*Holding, error) {
	rows, err := s.db.Query(`SELECT symbol,name,amount,price_usd,updated_ts FROM holdings WHERE symbol=?`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	h, err := scanHolding(rows)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) Upsert(h Holding) error {
	_, err := s.db.Exec(`INSERT INTO holdings(symbol,name,amount,price_usd,updated_ts) VALUES(?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET name=excluded.name, amount=excluded.amount,
		price_usd=excluded.price_usd, updated_ts=excluded.updated_ts`,
		h.Symbol, h.Name, h.Amount, h.PriceUSD, h.UpdatedAt.Unix())
	return err
}

func (s *Store) Delete(symbol string) error {
	_, err := s.db.Exec(`DELETE FROM holdings WHERE symbol=?`, symbol)
	return err
}

// UpdatePrice records the latest known unit price for symbol without
// touching the rest of the row.
func (s *Store) UpdatePrice(symbol string, price float64) error {
	_, err := s.db.Exec(`UPDATE holdings SET price_usd=?, updated_ts=? WHERE symbol=?`,
		price, time.Now().Unix(), symbol)
	return err
}

func scanHolding(rows *sql.Rows) (Holding, error) {
	var h Holding
	var ts int64
	if err := rows.Scan(&h.Symbol, &h.Name, &h.Amount, &h.PriceUSD, &ts); err != nil {
		return Holding{}, err
	}
	h.UpdatedAt = time.Unix(ts, 0)
	return h, nil
}
