package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/matsen/biporcid/internal/reference"
	_ "modernc.org/sqlite"
)

// DB is the ephemeral SQLite index over refs.jsonl used for export lookups.
type DB struct {
	db *sql.DB
}

// Filter narrows Select. Zero fields do not filter.
type Filter struct {
	YearFrom int    // Minimum publication year
	YearTo   int    // Maximum publication year
	Venue    string // Case-insensitive substring of the venue
	// IdentifiedOnly keeps references with a DOI, PMID, PMCID or arXiv id.
	IdentifiedOnly bool
	Limit          int
}

const selectRefFields = `id, doi, title, abstract, venue,
	pub_year, pub_month, pub_day,
	pdf_path, authors_json,
	pmid, pmcid, arxiv_id`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS refs (
			id TEXT PRIMARY KEY,
			doi TEXT,
			doi_key TEXT,
			title TEXT NOT NULL,
			abstract TEXT,
			venue TEXT,
			pub_year INTEGER NOT NULL,
			pub_month INTEGER,
			pub_day INTEGER,
			pdf_path TEXT,
			authors_json TEXT NOT NULL,
			pmid TEXT,
			pmcid TEXT,
			arxiv_id TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_refs_doi_key ON refs(doi_key) WHERE doi_key IS NOT NULL;
		CREATE INDEX IF NOT EXISTS idx_refs_year ON refs(pub_year);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL replaces the index contents with the references in a JSONL
// file. The rebuild runs in one transaction; on error the old contents remain.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	refs, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM refs"); err != nil {
		return 0, fmt.Errorf("clearing refs table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO refs (
			id, doi, doi_key, title, abstract, venue,
			pub_year, pub_month, pub_day,
			pdf_path, authors_json,
			pmid, pmcid, arxiv_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing refs insert: %w", err)
	}
	defer stmt.Close()

	for _, ref := range refs {
		authorsJSON, err := json.Marshal(ref.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", ref.ID, err)
		}

		_, err = stmt.Exec(
			ref.ID, nullableString(ref.DOI), nullableString(reference.DOIKey(ref.DOI)),
			ref.Title, nullableString(ref.Abstract), nullableString(ref.Venue),
			ref.Published.Year, nullableInt(ref.Published.Month), nullableInt(ref.Published.Day),
			nullableString(ref.PDFPath), string(authorsJSON),
			nullableString(ref.PMID), nullableString(ref.PMCID), nullableString(ref.ArXivID),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting ref %s: %w", ref.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(refs), nil
}

// GetByID retrieves a reference by its ID. Returns nil, nil when absent.
func (d *DB) GetByID(id string) (*reference.Reference, error) {
	row := d.db.QueryRow(`SELECT `+selectRefFields+` FROM refs WHERE id = ?`, id)
	return scanReference(row)
}

// GetByDOI retrieves a reference by DOI, ignoring case and resolver prefixes.
// Returns nil, nil when absent.
func (d *DB) GetByDOI(doi string) (*reference.Reference, error) {
	key := reference.DOIKey(doi)
	if key == "" {
		return nil, nil
	}
	row := d.db.QueryRow(`SELECT `+selectRefFields+` FROM refs WHERE doi_key = ? ORDER BY id LIMIT 1`, key)
	return scanReference(row)
}

// Select returns the references matching every set field of f, ordered by ID.
func (d *DB) Select(f Filter) ([]reference.Reference, error) {
	query := `SELECT ` + selectRefFields + ` FROM refs WHERE 1=1`
	var args []interface{}

	if f.YearFrom > 0 {
		query += " AND pub_year >= ?"
		args = append(args, f.YearFrom)
	}
	if f.YearTo > 0 {
		query += " AND pub_year <= ?"
		args = append(args, f.YearTo)
	}
	if f.Venue != "" {
		query += " AND venue LIKE ?"
		args = append(args, "%"+f.Venue+"%")
	}
	if f.IdentifiedOnly {
		query += " AND (doi IS NOT NULL OR pmid IS NOT NULL OR pmcid IS NOT NULL OR arxiv_id IS NOT NULL)"
	}

	query += " ORDER BY id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting refs: %w", err)
	}
	defer rows.Close()

	return scanReferences(rows)
}

// Count returns the total number of references.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM refs").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReference(s scanner) (*reference.Reference, error) {
	var ref reference.Reference
	var authorsJSON string
	var doi, abstract, venue, pdfPath sql.NullString
	var pmid, pmcid, arxivID sql.NullString
	var pubMonth, pubDay sql.NullInt64

	err := s.Scan(
		&ref.ID, &doi, &ref.Title, &abstract, &venue,
		&ref.Published.Year, &pubMonth, &pubDay,
		&pdfPath, &authorsJSON,
		&pmid, &pmcid, &arxivID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	ref.DOI = doi.String
	ref.Abstract = abstract.String
	ref.Venue = venue.String
	ref.PDFPath = pdfPath.String
	ref.PMID = pmid.String
	ref.PMCID = pmcid.String
	ref.ArXivID = arxivID.String
	ref.Published.Month = int(pubMonth.Int64)
	ref.Published.Day = int(pubDay.Int64)

	if err := json.Unmarshal([]byte(authorsJSON), &ref.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", ref.ID, err)
	}

	return &ref, nil
}

func scanReferences(rows *sql.Rows) ([]reference.Reference, error) {
	var refs []reference.Reference
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs, rows.Err()
}

// nullableString converts a string to sql.NullString, treating empty as NULL.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullableInt treats zero as NULL.
func nullableInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
