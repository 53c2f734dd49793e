package sqlstore

// Schema DDL per dialect. Statements are split on ";" at init time, so no
// statement body may contain a semicolon.

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS platforms (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    public INTEGER NOT NULL DEFAULT 0,
    branch_id TEXT NOT NULL,
    branch_name TEXT,
    branch_version INTEGER NOT NULL DEFAULT 0,
    meta TEXT,
    created_by TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_platforms_branch ON platforms(branch_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_platforms_owner_name ON platforms(created_by, name);

CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    public INTEGER NOT NULL DEFAULT 0,
    platform_id TEXT NOT NULL REFERENCES platforms(id),
    branch_id TEXT NOT NULL,
    branch_version INTEGER NOT NULL DEFAULT 0,
    meta TEXT,
    created_by TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_owner_name ON projects(created_by, name);

CREATE TABLE IF NOT EXISTS addressing_modes (
    id TEXT PRIMARY KEY,
    platform_id TEXT NOT NULL REFERENCES platforms(id),
    name TEXT NOT NULL,
    size INTEGER NOT NULL DEFAULT 0,
    format TEXT,
    parse_regex TEXT,
    UNIQUE(platform_id, name)
);

CREATE TABLE IF NOT EXISTS instruction_groups (
    id TEXT PRIMARY KEY,
    platform_id TEXT NOT NULL REFERENCES platforms(id),
    name TEXT NOT NULL,
    meta TEXT,
    UNIQUE(platform_id, name)
);

CREATE TABLE IF NOT EXISTS instruction_codes (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES instruction_groups(id),
    mode_id TEXT NOT NULL REFERENCES addressing_modes(id),
    code INTEGER NOT NULL,
    UNIQUE(group_id, mode_id)
);

CREATE TABLE IF NOT EXISTS vectors (
    id TEXT PRIMARY KEY,
    platform_id TEXT NOT NULL REFERENCES platforms(id),
    name TEXT NOT NULL,
    address INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    name TEXT NOT NULL,
    type TEXT,
    range_start INTEGER NOT NULL DEFAULT 0,
    range_end INTEGER NOT NULL DEFAULT 0,
    compressed INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS blocks (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    name TEXT NOT NULL,
    movable INTEGER NOT NULL DEFAULT 0,
    block_group TEXT,
    meta TEXT,
    UNIQUE(project_id, name)
);

CREATE TABLE IF NOT EXISTS block_parts (
    id TEXT PRIMARY KEY,
    block_id TEXT NOT NULL REFERENCES blocks(id),
    name TEXT NOT NULL,
    range_start INTEGER NOT NULL DEFAULT 0,
    range_end INTEGER NOT NULL DEFAULT 0,
    type TEXT
);

CREATE TABLE IF NOT EXISTS block_transforms (
    id TEXT PRIMARY KEY,
    block_id TEXT NOT NULL REFERENCES blocks(id),
    map_key TEXT NOT NULL,
    value TEXT
);

CREATE TABLE IF NOT EXISTS string_types (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    name TEXT NOT NULL,
    delimiter TEXT,
    shift_type TEXT,
    char_map TEXT,
    UNIQUE(project_id, name)
);

CREATE TABLE IF NOT EXISTS string_commands (
    id TEXT PRIMARY KEY,
    string_type_id TEXT NOT NULL REFERENCES string_types(id),
    cmd_key TEXT NOT NULL,
    code INTEGER NOT NULL,
    types TEXT,
    delimiter INTEGER NOT NULL DEFAULT 0,
    halt INTEGER NOT NULL DEFAULT 0,
    UNIQUE(string_type_id, code)
);

CREATE TABLE IF NOT EXISTS labels (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    location INTEGER NOT NULL,
    text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS overrides (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    location INTEGER NOT NULL,
    register TEXT,
    value INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS rewrites (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    location INTEGER NOT NULL,
    value INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS structs (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    name TEXT NOT NULL,
    types TEXT,
    delimiter INTEGER NOT NULL DEFAULT 0,
    discriminator INTEGER NOT NULL DEFAULT 0,
    parent TEXT,
    UNIQUE(project_id, name)
);

CREATE TABLE IF NOT EXISTS cops (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    code INTEGER NOT NULL,
    mnemonic TEXT NOT NULL,
    parts TEXT,
    halt INTEGER NOT NULL DEFAULT 0,
    UNIQUE(project_id, code, mnemonic)
)
`

const schemaMySQL = `
CREATE TABLE IF NOT EXISTS platforms (
    id VARCHAR(32) PRIMARY KEY,
    name VARCHAR(191) NOT NULL,
    public TINYINT(1) NOT NULL DEFAULT 0,
    branch_id VARCHAR(64) NOT NULL,
    branch_name VARCHAR(191),
    branch_version INT NOT NULL DEFAULT 0,
    meta TEXT,
    created_by VARCHAR(191),
    created_at DATETIME(3) NOT NULL,
    updated_at DATETIME(3) NOT NULL,
    INDEX idx_platforms_branch (branch_id),
    UNIQUE KEY idx_platforms_owner_name (created_by, name)
);

CREATE TABLE IF NOT EXISTS projects (
    id VARCHAR(32) PRIMARY KEY,
    name VARCHAR(191) NOT NULL,
    public TINYINT(1) NOT NULL DEFAULT 0,
    platform_id VARCHAR(32) NOT NULL,
    branch_id VARCHAR(64) NOT NULL,
    branch_version INT NOT NULL DEFAULT 0,
    meta TEXT,
    created_by VARCHAR(191),
    created_at DATETIME(3) NOT NULL,
    updated_at DATETIME(3) NOT NULL,
    UNIQUE KEY idx_projects_owner_name (created_by, name),
    FOREIGN KEY (platform_id) REFERENCES platforms(id)
);

CREATE TABLE IF NOT EXISTS addressing_modes (
    id VARCHAR(32) PRIMARY KEY,
    platform_id VARCHAR(32) NOT NULL,
    name VARCHAR(191) NOT NULL,
    size INT NOT NULL DEFAULT 0,
    format VARCHAR(191),
    parse_regex VARCHAR(191),
    UNIQUE KEY (platform_id, name),
    FOREIGN KEY (platform_id) REFERENCES platforms(id)
);

CREATE TABLE IF NOT EXISTS instruction_groups (
    id VARCHAR(32) PRIMARY KEY,
    platform_id VARCHAR(32) NOT NULL,
    name VARCHAR(191) NOT NULL,
    meta TEXT,
    UNIQUE KEY (platform_id, name),
    FOREIGN KEY (platform_id) REFERENCES platforms(id)
);

CREATE TABLE IF NOT EXISTS instruction_codes (
    id VARCHAR(32) PRIMARY KEY,
    group_id VARCHAR(32) NOT NULL,
    mode_id VARCHAR(32) NOT NULL,
    code INT NOT NULL,
    UNIQUE KEY (group_id, mode_id),
    FOREIGN KEY (group_id) REFERENCES instruction_groups(id),
    FOREIGN KEY (mode_id) REFERENCES addressing_modes(id)
);

CREATE TABLE IF NOT EXISTS vectors (
    id VARCHAR(32) PRIMARY KEY,
    platform_id VARCHAR(32) NOT NULL,
    name VARCHAR(191) NOT NULL,
    address INT NOT NULL,
    FOREIGN KEY (platform_id) REFERENCES platforms(id)
);

CREATE TABLE IF NOT EXISTS files (
    id VARCHAR(32) PRIMARY KEY,
    project_id VARCHAR(32) NOT NULL,
    name VARCHAR(191) NOT NULL,
    type VARCHAR(64),
    range_start INT NOT NULL DEFAULT 0,
    range_end INT NOT NULL DEFAULT 0,
    compressed TINYINT(1) NOT NULL DEFAULT 0,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS blocks (
    id VARCHAR(32) PRIMARY KEY,
    project_id VARCHAR(32) NOT NULL,
    name VARCHAR(191) NOT NULL,
    movable TINYINT(1) NOT NULL DEFAULT 0,
    block_group VARCHAR(191),
    meta TEXT,
    UNIQUE KEY (project_id, name),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS block_parts (
    id VARCHAR(32) PRIMARY KEY,
    block_id VARCHAR(32) NOT NULL,
    name VARCHAR(191) NOT NULL,
    range_start INT NOT NULL DEFAULT 0,
    range_end INT NOT NULL DEFAULT 0,
    type VARCHAR(64),
    FOREIGN KEY (block_id) REFERENCES blocks(id)
);

CREATE TABLE IF NOT EXISTS block_transforms (
    id VARCHAR(32) PRIMARY KEY,
    block_id VARCHAR(32) NOT NULL,
    map_key VARCHAR(191) NOT NULL,
    value TEXT,
    FOREIGN KEY (block_id) REFERENCES blocks(id)
);

CREATE TABLE IF NOT EXISTS string_types (
    id VARCHAR(32) PRIMARY KEY,
    project_id VARCHAR(32) NOT NULL,
    name VARCHAR(191) NOT NULL,
    delimiter VARCHAR(64),
    shift_type VARCHAR(64),
    char_map TEXT,
    UNIQUE KEY (project_id, name),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS string_commands (
    id VARCHAR(32) PRIMARY KEY,
    string_type_id VARCHAR(32) NOT NULL,
    cmd_key VARCHAR(191) NOT NULL,
    code INT NOT NULL,
    types TEXT,
    delimiter TINYINT(1) NOT NULL DEFAULT 0,
    halt TINYINT(1) NOT NULL DEFAULT 0,
    UNIQUE KEY (string_type_id, code),
    FOREIGN KEY (string_type_id) REFERENCES string_types(id)
);

CREATE TABLE IF NOT EXISTS labels (
    id VARCHAR(32) PRIMARY KEY,
    project_id VARCHAR(32) NOT NULL,
    location INT NOT NULL,
    text VARCHAR(191) NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS overrides (
    id VARCHAR(32) PRIMARY KEY,
    project_id VARCHAR(32) NOT NULL,
    location INT NOT NULL,
    register VARCHAR(16),
    value INT NOT NULL DEFAULT 0,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS rewrites (
    id VARCHAR(32) PRIMARY KEY,
    project_id VARCHAR(32) NOT NULL,
    location INT NOT NULL,
    value INT NOT NULL DEFAULT 0,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS structs (
    id VARCHAR(32) PRIMARY KEY,
    project_id VARCHAR(32) NOT NULL,
    name VARCHAR(191) NOT NULL,
    types TEXT,
    delimiter INT NOT NULL DEFAULT 0,
    discriminator INT NOT NULL DEFAULT 0,
    parent VARCHAR(191),
    UNIQUE KEY (project_id, name),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS cops (
    id VARCHAR(32) PRIMARY KEY,
    project_id VARCHAR(32) NOT NULL,
    code INT NOT NULL,
    mnemonic VARCHAR(64) NOT NULL,
    parts TEXT,
    halt TINYINT(1) NOT NULL DEFAULT 0,
    UNIQUE KEY (project_id, code, mnemonic),
    FOREIGN KEY (project_id) REFERENCES projects(id)
)
`
