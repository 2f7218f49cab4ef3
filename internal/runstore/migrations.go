package runstore

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    lint_command TEXT NOT NULL,
    work_dir TEXT,
    parser_model TEXT,
    fix_model TEXT,
    concurrency INTEGER NOT NULL DEFAULT 1,
    outcome TEXT NOT NULL,
    issue_count INTEGER NOT NULL DEFAULT 0,
    unresolved_count INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);

CREATE TABLE IF NOT EXISTS issues (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    file_path TEXT NOT NULL,
    loc INTEGER NOT NULL,
    col INTEGER NOT NULL,
    lint_message TEXT NOT NULL,
    suggestions_text TEXT,
    status TEXT,
    summary TEXT,
    PRIMARY KEY (run_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_issues_file_path ON issues(file_path);
`
