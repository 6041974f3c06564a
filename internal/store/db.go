package store

import (
	"database/sql"
	"errors"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found or unavailable")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrOrderNotFound    = errors.New("order not found")
)

type Store struct {
	DB *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

func (s *Store) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS menu_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT DEFAULT '',
		price REAL NOT NULL,
		image_url TEXT DEFAULT '',
		category TEXT DEFAULT '',
		food_partner TEXT DEFAULT '',
		available INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cart_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_key TEXT NOT NULL,
		menu_item_id INTEGER NOT NULL REFERENCES menu_items(id),
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (owner_key, menu_item_id)
	);

	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_key TEXT NOT NULL,
		customer_name TEXT DEFAULT '',
		total_amount REAL NOT NULL,
		tip_amount REAL DEFAULT 0,
		payment_method TEXT NOT NULL,
		pickup_date TEXT NOT NULL,
		pickup_time TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		cancel_reason TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders(id),
		menu_item_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		food_partner TEXT DEFAULT '',
		quantity INTEGER NOT NULL,
		price_at_purchase REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS favorites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_key TEXT NOT NULL,
		menu_item_id INTEGER NOT NULL REFERENCES menu_items(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (owner_key, menu_item_id)
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'member',
		food_partner TEXT DEFAULT '',
		full_name TEXT DEFAULT '',
		sr_code TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.DB.Exec(query)
	if err != nil {
		slog.Error("Error creating schema", "error", err)
		return err
	}
	return nil
}
