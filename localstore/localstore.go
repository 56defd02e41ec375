package localstore

import (
	"database/sql"
	"errors"
	"log"

	"eshopClient/models"

	_ "github.com/mattn/go-sqlite3"
)

// Storage keys. KeyToken holds the bearer credential and is cleared on
// logout; KeyRememberedUsername only prefills the login form.
const (
	KeyToken              = "token"
	KeyRememberedUsername = "rememberedUsername"
)

// Store is the durable client-side key/value storage: the browser
// localStorage analog. State survives restarts of the client.
type Store interface {
	Get(key string) (value string, exists bool, err error)
	Set(key string, value string) error
	Delete(key string) error
	Close() error
}

type KVStore struct {
	db *sql.DB
}

// Open creates or opens the state database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("path must be non-empty")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one connection only: the client is serial, and a second pooled
	// connection to ":memory:" would see its own empty database
	db.SetMaxOpenConns(1)
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)")
	if err != nil {
		db.Close()
		return nil, err
	}
	return &KVStore{db: db}, nil
}

func (s *KVStore) Get(key string) (value string, exists bool, err error) {
	row := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key)
	err = row.Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
			return
		}
		log.Printf("Get: %v", err)
		err = models.ErrServerError
		return
	}
	exists = true
	return
}

func (s *KVStore) Set(key string, value string) error {
	_, err := s.db.Exec("INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", key, value)
	if err != nil {
		log.Printf("Set: %v", err)
		err = models.ErrServerError
	}
	return err
}

func (s *KVStore) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		log.Printf("Delete: %v", err)
		err = models.ErrServerError
	}
	return err
}

func (s *KVStore) Close() error {
	return s.db.Close()
}
