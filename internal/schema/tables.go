package schema

// Statement is one named DDL statement in the canonical dialect.
type Statement struct {
	Name string
	SQL  string
}

// Tables are declared in dependency order.
var Tables = []Statement{
	{"departments", `CREATE TABLE IF NOT EXISTS departments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`},
	{"employees", `CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		department_id INTEGER NOT NULL REFERENCES departments(id),
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'staff',
		created_at DATETIME DEFAULT (datetime('now', 'localtime'))
	)`},
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER REFERENCES employees(id),
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'staff',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`},
	{"kpi_metrics", `CREATE TABLE IF NOT EXISTS kpi_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		department_id INTEGER NOT NULL REFERENCES departments(id),
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		target REAL NOT NULL DEFAULT 0,
		weight REAL NOT NULL DEFAULT 1
	)`},
	{"kpi_entries", `CREATE TABLE IF NOT EXISTS kpi_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		metric_id INTEGER NOT NULL REFERENCES kpi_metrics(id),
		entry_date TEXT NOT NULL,
		value REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (employee_id, metric_id, entry_date)
	)`},
	{"attendance", `CREATE TABLE IF NOT EXISTS attendance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id),
		work_date TEXT NOT NULL,
		check_in TEXT,
		check_out TEXT,
		status TEXT NOT NULL DEFAULT 'present',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (employee_id, work_date)
	)`},
}

// Indexes are created after all tables exist.
var Indexes = []Statement{
	{"idx_employees_department", `CREATE INDEX IF NOT EXISTS idx_employees_department ON employees (department_id)`},
	{"idx_kpi_entries_date", `CREATE INDEX IF NOT EXISTS idx_kpi_entries_date ON kpi_entries (entry_date)`},
	{"idx_attendance_date", `CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance (work_date)`},
}
