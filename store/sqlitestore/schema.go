package sqlitestore

const schema = `
CREATE TABLE IF NOT EXISTS objects (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    class TEXT NOT NULL,
    id TEXT NOT NULL,
    fields TEXT NOT NULL,
    created_at DATETIME DEFAULT (datetime('now')),
    updated_at DATETIME DEFAULT (datetime('now')),
    UNIQUE (class, id)
);

CREATE TABLE IF NOT EXISTS relations (
    source_class TEXT NOT NULL,
    source_id TEXT NOT NULL,
    relation TEXT NOT NULL,
    target_class TEXT NOT NULL,
    target_id TEXT NOT NULL,
    PRIMARY KEY (source_class, source_id, relation, target_class, target_id)
);

CREATE INDEX IF NOT EXISTS idx_relations_target ON relations(target_class, target_id);
`

const (
	queryInsertObject = `INSERT INTO objects (class, id, fields) VALUES (?, ?, ?)`
	queryUpdateObject = `UPDATE objects SET fields = ?, updated_at = datetime('now') WHERE class = ? AND id = ?`
	queryGetObject    = `SELECT fields FROM objects WHERE class = ? AND id = ?`
	queryObjectExists = `SELECT COUNT(*) FROM objects WHERE class = ? AND id = ?`
	queryClassObjects = `SELECT id, fields FROM objects WHERE class = ? ORDER BY seq`

	queryRelationClass = `
SELECT target_class FROM relations
WHERE source_class = ? AND source_id = ? AND relation = ?
LIMIT 1`
	queryAddRelation = `
INSERT OR IGNORE INTO relations (source_class, source_id, relation, target_class, target_id)
VALUES (?, ?, ?, ?, ?)`
	queryRemoveRelation = `
DELETE FROM relations
WHERE source_class = ? AND source_id = ? AND relation = ? AND target_class = ? AND target_id = ?`
	queryRelatedObjects = `
SELECT o.class, o.id, o.fields
FROM relations r
JOIN objects o ON o.class = r.target_class AND o.id = r.target_id
WHERE r.source_class = ? AND r.source_id = ? AND r.relation = ?
ORDER BY o.seq`
)
