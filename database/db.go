// Package database gère la connexion PostgreSQL et l'import en masse des
// tables CSV (outil de seed). L'API de dashboard elle-même travaille en
// mémoire et ne touche jamais la base.
package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// Init ouvre la connexion et vérifie qu'elle répond. Le pool reste petit :
// l'import COPY est séquentiel, une poignée de connexions suffit.
func Init(connStr string) error {
	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(5)
	DB.SetMaxIdleConns(2)
	DB.SetConnMaxLifetime(5 * time.Minute)

	return DB.Ping()
}

// Close ferme la connexion si elle est ouverte.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
