package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS budget (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    monthly_budget       TEXT NOT NULL,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    seq                  INTEGER PRIMARY KEY,
    date                 TEXT NOT NULL,
    category             TEXT NOT NULL,
    amount               TEXT NOT NULL,
    description          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);
`
