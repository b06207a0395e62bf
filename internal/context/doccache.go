// Document cache keyed by absolute URI (spec.md §5 "Resource
// discipline": population is the caller's responsibility via the
// loader callback; network/file I/O never happens implicitly here).
// The in-memory map is the default backing; an optional SQLite-backed
// ledger lets repeated fn:doc/fn:doc-available calls across process
// restarts skip re-invoking the loader, per SPEC_FULL.md's domain-
// stack wiring for modernc.org/sqlite.
package context

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/funvibe/xpathlite/internal/adapter"
)

// DocumentCache holds loaded document roots and the registration
// order used for cross-document ordering (DESIGN.md's Open Question
// decision).
type DocumentCache struct {
	mu        sync.Mutex
	byURI     map[string]adapter.Node
	order     []adapter.Node
	ledger    *sql.DB // optional, nil unless EnableLedger is called
	ledgerURI string
}

func NewDocumentCache() *DocumentCache {
	return &DocumentCache{byURI: map[string]adapter.Node{}}
}

// EnableLedger opens (creating if needed) a SQLite-backed cache-
// presence ledger at path. This does not store document contents —
// only which URIs have already been fetched — so fn:doc-available
// can answer without calling the loader again.
func (dc *DocumentCache) EnableLedger(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening document-cache ledger: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS doc_ledger (uri TEXT PRIMARY KEY, loaded INTEGER NOT NULL)`); err != nil {
		db.Close()
		return fmt.Errorf("initializing document-cache ledger: %w", err)
	}
	dc.mu.Lock()
	dc.ledger = db
	dc.ledgerURI = path
	dc.mu.Unlock()
	return nil
}

func (dc *DocumentCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if dc.ledger != nil {
		return dc.ledger.Close()
	}
	return nil
}

// Register records root as the next document in registration order
// (idempotent per distinct root). Returns its registration index.
func (dc *DocumentCache) Register(root adapter.Node) int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	for i, n := range dc.order {
		if n == root {
			return i + 1
		}
	}
	dc.order = append(dc.order, root)
	return len(dc.order)
}

// Get returns the cached document for uri, if any.
func (dc *DocumentCache) Get(uri string) (adapter.Node, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	n, ok := dc.byURI[uri]
	return n, ok
}

// URIOf is the reverse of Get, for fn:document-uri.
func (dc *DocumentCache) URIOf(root adapter.Node) (string, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	for uri, n := range dc.byURI {
		if n == root {
			return uri, true
		}
	}
	return "", false
}

// Put stores a loaded document under uri and registers it in
// document order; it also records presence in the optional ledger.
func (dc *DocumentCache) Put(uri string, root adapter.Node) {
	dc.mu.Lock()
	dc.byURI[uri] = root
	ledger := dc.ledger
	dc.mu.Unlock()
	dc.Register(root)
	if ledger != nil {
		_, _ = ledger.Exec(`INSERT INTO doc_ledger(uri, loaded) VALUES (?, 1)
			ON CONFLICT(uri) DO UPDATE SET loaded = 1`, uri)
	}
}

// Available reports whether uri has ever been successfully loaded,
// consulting the ledger when the in-memory cache has been cleared
// across a process restart (fn:doc-available).
func (dc *DocumentCache) Available(uri string) bool {
	dc.mu.Lock()
	_, inMemory := dc.byURI[uri]
	ledger := dc.ledger
	dc.mu.Unlock()
	if inMemory {
		return true
	}
	if ledger == nil {
		return false
	}
	var loaded int
	if err := ledger.QueryRow(`SELECT loaded FROM doc_ledger WHERE uri = ?`, uri).Scan(&loaded); err != nil {
		return false
	}
	return loaded == 1
}
