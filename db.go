package gravityrun

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/bodgit/gravityrun/block"
	"github.com/bodgit/gravityrun/palette"
	"github.com/bodgit/gravityrun/tile"
	_ "github.com/mattn/go-sqlite3" // register driver
)

// BlockDB stores serialized blocks by name.
type BlockDB struct {
	db *sql.DB
}

// NewBlockDB opens or creates the sqlite3 database in file.
func NewBlockDB(file string) (*BlockDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// sqlite3 allows a single writer
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, colors INTEGER NOT NULL, data TEXT NOT NULL, UNIQUE(sha1, colors))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS block (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, image_id INTEGER, data TEXT NOT NULL, x REAL NOT NULL DEFAULT 0, y REAL NOT NULL DEFAULT 0, FOREIGN KEY(image_id) REFERENCES image(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &BlockDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *BlockDB) Close() error {
	return db.db.Close()
}

func (db *BlockDB) put(name, data string, imageID sql.NullInt64, x, y float64) error {
	_, err := db.db.Exec("INSERT INTO block (name, image_id, data, x, y) VALUES (?, ?, ?, ?, ?) ON CONFLICT(name) DO UPDATE SET image_id = excluded.image_id, data = excluded.data, x = excluded.x, y = excluded.y", name, imageID, data, x, y)
	return err
}

// Put stores b under name, replacing any existing block with that name.
func (db *BlockDB) Put(name string, b *block.Block) error {
	data, err := b.Serialize()
	if err != nil {
		return err
	}
	return db.put(name, data, sql.NullInt64{}, b.X(), b.Y())
}

// Get returns the block stored under name using palette p, or nil if there
// isn't one.
func (db *BlockDB) Get(name string, p *palette.Palette) (*block.Block, error) {
	var data string
	var x, y float64
	switch err := db.db.QueryRow("SELECT data, x, y FROM block WHERE name = ?", name).Scan(&data, &x, &y); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		b := block.New(p)
		if err := b.Deserialize(data); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		b.SetPosition(x, y)
		return b, nil
	default:
		return nil, err
	}
}

// Names returns the name of every stored block in order.
func (db *BlockDB) Names() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM block ORDER BY name")
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

// Delete removes the block stored under name, returning false if there
// wasn't one.
func (db *BlockDB) Delete(name string) (bool, error) {
	result, err := db.db.Exec("DELETE FROM block WHERE name = ?", name)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ImportImage encodes the image in file with e, or the default encoder if
// e is nil, and stores it under name. Encoded images are remembered by the
// SHA-1 of the file so importing the same image again reuses the result.
func (db *BlockDB) ImportImage(name, file string, e *tile.Encoder) error {
	if e == nil {
		e = new(tile.Encoder)
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha1.New()
	m, _, err := image.Decode(io.TeeReader(f, h))
	if err != nil {
		return err
	}
	sha := fmt.Sprintf("%X", h.Sum(nil))

	var id int64
	var data string
	switch err := db.db.QueryRow("SELECT id, data FROM image WHERE sha1 = ? AND colors = ?", sha, e.Colors).Scan(&id, &data); err {
	case sql.ErrNoRows:
		b, err := e.Block(m)
		if err != nil {
			return err
		}
		if data, err = b.Serialize(); err != nil {
			return err
		}
		if _, err = db.db.Exec("INSERT INTO image (sha1, colors, data) VALUES (?, ?, ?) ON CONFLICT(sha1, colors) DO NOTHING", sha, e.Colors, data); err != nil {
			return err
		}
		if err = db.db.QueryRow("SELECT id FROM image WHERE sha1 = ? AND colors = ?", sha, e.Colors).Scan(&id); err != nil {
			return err
		}
	case nil:
	default:
		return err
	}

	return db.put(name, data, sql.NullInt64{Int64: id, Valid: true}, 0, 0)
}
