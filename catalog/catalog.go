/*
Package catalog maintains an SQLite index of TGA images found on disk.

Each image is recorded with its dimensions, format and checksum together with
a small run-length encoded thumbnail. Thumbnails are compressed with zstd and
shared between files with identical content.
*/
package catalog

import (
	"bytes"
	"database/sql"
	"fmt"

	"github.com/bodgit/tga"
	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// Entry describes a single indexed image.
type Entry struct {
	Path   string
	SHA1   string
	Width  int
	Height int
	Format tga.Format
	RLE    bool
}

// Catalog is the image index.
type Catalog struct {
	db     *sql.DB
	logger hclog.Logger

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New opens or creates the catalog stored in file. A nil logger discards
// all output.
func New(file string, logger hclog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS thumbnail (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, tga BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, format INTEGER NOT NULL, rle INTEGER NOT NULL, thumbnail_id INTEGER NOT NULL, FOREIGN KEY(thumbnail_id) REFERENCES thumbnail(id))"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &Catalog{
		db:     db,
		logger: logger,
		enc:    enc,
		dec:    dec,
	}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	c.dec.Close()
	if err := c.enc.Close(); err != nil {
		c.db.Close()
		return err
	}
	return c.db.Close()
}

func (c *Catalog) addThumbnail(sha string, thumbnail []byte) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM thumbnail WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO thumbnail (sha1, tga) VALUES (?, ?)", sha, c.enc.EncodeAll(thumbnail, nil))
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func (c *Catalog) add(e *Entry, thumbnail []byte) error {
	id, err := c.addThumbnail(e.SHA1, thumbnail)
	if err != nil {
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO image (path, sha1, width, height, format, rle, thumbnail_id) VALUES (?, ?, ?, ?, ?, ?, ?)", e.Path, e.SHA1, e.Width, e.Height, int(e.Format), e.RLE, id); err != nil {
		return err
	}

	c.logger.Debug("indexed image", "path", e.Path, "sha1", e.SHA1, "width", e.Width, "height", e.Height, "format", e.Format)

	return nil
}

// Lookup returns the entry for path, or nil if it has not been indexed.
func (c *Catalog) Lookup(path string) (*Entry, error) {
	e := Entry{Path: path}
	var format int
	switch err := c.db.QueryRow("SELECT sha1, width, height, format, rle FROM image WHERE path = ?", path).Scan(&e.SHA1, &e.Width, &e.Height, &format, &e.RLE); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		e.Format = tga.Format(format)
		return &e, nil
	default:
		return nil, err
	}
}

// List returns every entry ordered by path.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query("SELECT path, sha1, width, height, format, rle FROM image ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var format int
		if err := rows.Scan(&e.Path, &e.SHA1, &e.Width, &e.Height, &format, &e.RLE); err != nil {
			return nil, err
		}
		e.Format = tga.Format(format)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Thumbnail returns the thumbnail stored for path, or nil if it has not
// been indexed.
func (c *Catalog) Thumbnail(path string) (*tga.Image, error) {
	var b []byte
	switch err := c.db.QueryRow("SELECT t.tga FROM image AS i JOIN thumbnail AS t ON i.thumbnail_id = t.id WHERE i.path = ?", path).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		raw, err := c.dec.DecodeAll(b, nil)
		if err != nil {
			return nil, err
		}
		m, err := tga.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		return m.(*tga.Image), nil
	default:
		return nil, err
	}
}
