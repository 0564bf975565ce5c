package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"marketlens/internal/model"
)

// SQLiteCatalog keeps the symbol directory in a SQLite database so operators can add
// symbols without a rebuild. Missing built-in symbols are inserted on open.
type SQLiteCatalog struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// NewSQLiteCatalog opens (or creates) the database, runs migrations and seeds it.
func NewSQLiteCatalog(dbPath string, log logrus.FieldLogger) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCatalog{db: db, log: log}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := c.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite catalog opened")
	return c, nil
}

func (c *SQLiteCatalog) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS symbols (
			symbol   TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			type     TEXT NOT NULL,
			featured INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_position ON symbols(position)`,
	}

	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (c *SQLiteCatalog) seed() error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, e := range seed {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO symbols (symbol, name, type, featured, position)
			VALUES (?,?,?,?,?)`,
			e.Symbol, e.Name, string(e.Type), e.Featured, i,
		); err != nil {
			return fmt.Errorf("insert %s: %w", e.Symbol, err)
		}
	}
	return tx.Commit()
}

// Add inserts or replaces a symbol, placing it after the existing ones.
func (c *SQLiteCatalog) Add(ctx context.Context, info model.SymbolInfo, featured bool) error {
	_, err := c.db.ExecContext(ctx, `INSERT OR REPLACE INTO symbols (symbol, name, type, featured, position)
		VALUES (?,?,?,?, (SELECT COALESCE(MAX(position), -1) + 1 FROM symbols))`,
		info.Symbol, info.Name, string(info.Type), featured,
	)
	return err
}

func (c *SQLiteCatalog) Grouped(ctx context.Context) (Grouped, error) {
	g := newGrouped()
	rows, err := c.db.QueryContext(ctx,
		`SELECT symbol, name, type FROM symbols WHERE featured = 1 ORDER BY position`)
	if err != nil {
		return g, fmt.Errorf("query featured: %w", err)
	}
	infos, err := scanSymbols(rows)
	if err != nil {
		return g, err
	}
	for _, s := range infos {
		g.add(s)
	}
	return g, nil
}

func (c *SQLiteCatalog) Search(ctx context.Context, q string) ([]model.SymbolInfo, error) {
	if q == "" {
		return []model.SymbolInfo{}, nil
	}
	q = strings.ToUpper(q)
	rows, err := c.db.QueryContext(ctx,
		`SELECT symbol, name, type FROM symbols
		 WHERE instr(upper(symbol), ?) > 0 OR instr(upper(name), ?) > 0
		 ORDER BY position LIMIT ?`,
		q, q, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}
	return scanSymbols(rows)
}

func scanSymbols(rows *sql.Rows) ([]model.SymbolInfo, error) {
	defer rows.Close()
	out := []model.SymbolInfo{}
	for rows.Next() {
		var s model.SymbolInfo
		var typ string
		if err := rows.Scan(&s.Symbol, &s.Name, &typ); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		s.Type = model.SymbolType(typ)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (c *SQLiteCatalog) Close() error {
	c.log.Info("closing sqlite catalog")
	return c.db.Close()
}
