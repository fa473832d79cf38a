package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // registers the pure-Go sqlite driver
)

// SQLStore is a Store backed by a SQLite database file. Besides the blob
// it denormalizes display name and state into their own columns, which
// keeps the table queryable by plain SQL tooling.
type SQLStore struct {
	db *sql.DB
}

var _ Store = &SQLStore{}

const createTableSQL = `CREATE TABLE IF NOT EXISTS materials (
	name TEXT PRIMARY KEY,
	display_name TEXT,
	type TEXT,
	properties TEXT NOT NULL
);`

// OpenSQLite opens (or creates) a SQLite material database. With reset
// set, an existing database file is removed first.
func OpenSQLite(path string, reset bool) (*SQLStore, error) {
	if reset {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("cannot reset database %q: %w", path, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %q: %w", path, err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize database %q: %w", path, err)
	}
	tracer().Infof("opened material database %q", path)
	return &SQLStore{db: db}, nil
}

// blobHead are the blob fields mirrored into table columns.
type blobHead struct {
	DisplayName string  `json:"display_name"`
	State       *string `json:"state"`
}

func head(blob []byte) (displayName string, state string) {
	var h blobHead
	if err := json.Unmarshal(blob, &h); err != nil {
		return "", ""
	}
	if h.State != nil {
		state = *h.State
	}
	return h.DisplayName, state
}

// Put stores a new blob. Duplicate names are rejected.
func (st *SQLStore) Put(name string, blob []byte) error {
	if _, err := st.Get(name); err == nil {
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	displayName, state := head(blob)
	_, err := st.db.Exec(
		"INSERT INTO materials (name, display_name, type, properties) VALUES (?, ?, ?, ?);",
		name, displayName, state, string(blob))
	if err != nil {
		return fmt.Errorf("cannot insert material %q: %w", name, err)
	}
	return nil
}

// Get returns the blob for a name.
func (st *SQLStore) Get(name string) ([]byte, error) {
	var blob string
	err := st.db.QueryRow(
		"SELECT properties FROM materials WHERE name = ?;", name).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read material %q: %w", name, err)
	}
	return []byte(blob), nil
}

// Update replaces the blob for an existing name.
func (st *SQLStore) Update(name string, blob []byte) error {
	displayName, state := head(blob)
	res, err := st.db.Exec(
		"UPDATE materials SET display_name = ?, type = ?, properties = ? WHERE name = ?;",
		displayName, state, string(blob), name)
	if err != nil {
		return fmt.Errorf("cannot update material %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return nil
}

// Delete removes a name from the store.
func (st *SQLStore) Delete(name string) error {
	res, err := st.db.Exec("DELETE FROM materials WHERE name = ?;", name)
	if err != nil {
		return fmt.Errorf("cannot delete material %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return nil
}

// Names lists all stored names in insertion (rowid) order.
func (st *SQLStore) Names() ([]string, error) {
	rows, err := st.db.Query("SELECT name FROM materials ORDER BY rowid;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (st *SQLStore) Close() error {
	return st.db.Close()
}
