package db

// exportsTable holds the export history; series tables never use this name
const exportsTable = "exports"

const createExportsTable = `
CREATE TABLE IF NOT EXISTS exports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    series TEXT NOT NULL,
    url TEXT,
    fingerprint TEXT,
    table_name TEXT NOT NULL,
    row_count INTEGER,
    column_count INTEGER,
    from_cache INTEGER DEFAULT 0,
    exported_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exports_series ON exports(series);
`

const insertExport = `
INSERT INTO exports (
    series, url, fingerprint, table_name,
    row_count, column_count, from_cache, exported_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const selectExports = `
SELECT id, series, COALESCE(url, ''), COALESCE(fingerprint, ''), table_name,
    COALESCE(row_count, 0), COALESCE(column_count, 0), from_cache, exported_at
FROM exports
ORDER BY id DESC
LIMIT ?
`

const selectExportsForSeries = `
SELECT id, series, COALESCE(url, ''), COALESCE(fingerprint, ''), table_name,
    COALESCE(row_count, 0), COALESCE(column_count, 0), from_cache, exported_at
FROM exports
WHERE series = ?
ORDER BY id DESC
`

const selectTables = `
SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'exports'
ORDER BY name
`
