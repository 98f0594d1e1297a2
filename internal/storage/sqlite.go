package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/jahody/papers2/internal/graph"
	"github.com/jahody/papers2/internal/paper"
)

// DB wraps the SQLite query cache. It is derived data: Rebuild recreates
// it from the JSONL files at any time.
type DB struct {
	db *sql.DB
}

const selectPaperFields = `id, title, pub_year, arxiv_id, doi, authors_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			pub_year INTEGER,
			arxiv_id TEXT,
			doi TEXT,
			authors_json TEXT NOT NULL,
			authors_text TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(pub_year);

		CREATE TABLE IF NOT EXISTS edges (
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			confidence REAL NOT NULL,
			PRIMARY KEY (source, target)
		);

		CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
	`
	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the cache and repopulates it from the given papers and
// edges. Returns the number of papers inserted.
func (d *DB) Rebuild(papers []paper.Paper, edges []graph.Edge) (int, error) {
	if _, err := d.db.Exec("DELETE FROM papers"); err != nil {
		return 0, fmt.Errorf("clearing papers table: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM edges"); err != nil {
		return 0, fmt.Errorf("clearing edges table: %w", err)
	}

	paperStmt, err := d.db.Prepare(`
		INSERT INTO papers (id, title, pub_year, arxiv_id, doi, authors_json, authors_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer paperStmt.Close()

	for _, p := range papers {
		authorsJSON, err := json.Marshal(p.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", p.ID, err)
		}
		_, err = paperStmt.Exec(p.ID, p.RawTitle, p.Year, p.ArXivID, p.DOI,
			string(authorsJSON), formatAuthorsText(p.Authors))
		if err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
	}

	edgeStmt, err := d.db.Prepare(`
		INSERT INTO edges (source, target, confidence) VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing edges insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range edges {
		if _, err := edgeStmt.Exec(e.Source, e.Target, e.Confidence); err != nil {
			return 0, fmt.Errorf("inserting edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	return len(papers), nil
}

// formatAuthorsText creates a searchable text representation of authors.
func formatAuthorsText(authors []paper.Author) string {
	var names []string
	for _, a := range authors {
		if a.First != "" {
			names = append(names, a.First+" "+a.Last)
		} else {
			names = append(names, a.Last)
		}
	}
	return strings.Join(names, ", ")
}

// PaperFilter narrows ListPapers results. Zero values mean no filter.
type PaperFilter struct {
	Year   int
	Author string
	Limit  int
}

// ListPapers returns cached papers matching the filter, ordered by ID.
func (d *DB) ListPapers(filter PaperFilter) ([]paper.Paper, error) {
	query := `SELECT ` + selectPaperFields + ` FROM papers`
	var conds []string
	var args []any

	if filter.Year != 0 {
		conds = append(conds, "pub_year = ?")
		args = append(args, filter.Year)
	}
	if filter.Author != "" {
		conds = append(conds, "authors_text LIKE ?")
		args = append(args, "%"+filter.Author+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// GetPaper retrieves one cached paper by ID.
func (d *DB) GetPaper(id string) (*paper.Paper, error) {
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE id = ?`, id)
	p, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting paper %s: %w", id, err)
	}
	return &p, nil
}

// Citers returns the IDs of papers citing the given paper, sorted.
func (d *DB) Citers(id string) ([]string, error) {
	rows, err := d.db.Query(`SELECT source FROM edges WHERE target = ? ORDER BY source`, id)
	if err != nil {
		return nil, fmt.Errorf("querying citers: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// Cited returns the IDs of papers the given paper cites, sorted.
func (d *DB) Cited(id string) ([]string, error) {
	rows, err := d.db.Query(`SELECT target FROM edges WHERE source = ? ORDER BY target`, id)
	if err != nil {
		return nil, fmt.Errorf("querying cited: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// CitationCount is one paper's in-degree within the corpus.
type CitationCount struct {
	PaperID string `json:"paper_id"`
	Count   int    `json:"count"`
}

// MostCited returns papers ordered by in-degree, strongest first.
func (d *DB) MostCited(limit int) ([]CitationCount, error) {
	rows, err := d.db.Query(`
		SELECT target, COUNT(*) AS n FROM edges
		GROUP BY target
		ORDER BY n DESC, target
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying most cited: %w", err)
	}
	defer rows.Close()

	var counts []CitationCount
	for rows.Next() {
		var c CitationCount
		if err := rows.Scan(&c.PaperID, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning citation count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (paper.Paper, error) {
	var p paper.Paper
	var authorsJSON string
	if err := row.Scan(&p.ID, &p.RawTitle, &p.Year, &p.ArXivID, &p.DOI, &authorsJSON); err != nil {
		return paper.Paper{}, err
	}
	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return paper.Paper{}, fmt.Errorf("parsing authors for %s: %w", p.ID, err)
	}
	return p, nil
}

func scanPapers(rows *sql.Rows) ([]paper.Paper, error) {
	var papers []paper.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
