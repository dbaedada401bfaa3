// Package schema brings a fresh or partially evolved store into the shape
// the application expects. Every step is idempotent, so Run is called on
// each process start and nothing records how far a previous run got.
package schema

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopfloor/kpidash/internal/db"
)

// DefaultPassword is the login password of seeded accounts unless configured.
const DefaultPassword = "changeme"

// Options configure an Initializer.
type Options struct {
	// DefaultPassword is hashed for every seeded login.
	DefaultPassword string

	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	// Seed overrides the embedded seed data.
	Seed *SeedData
}

// Report counts what a run did. Zero seeds on a re-run is the normal case.
type Report struct {
	RunID             string
	Tables            int
	Indexes           int
	Columns           int
	DepartmentsSeeded int
	MetricsSeeded     int
	EmployeesSeeded   int
	UsersSeeded       int
}

// Initializer declares tables, evolves columns and seeds reference data.
type Initializer struct {
	db     *db.DB
	logger *slog.Logger
	opts   Options
}

// New creates an Initializer over the facade.
func New(d *db.DB, logger *slog.Logger, opts Options) *Initializer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.DefaultPassword == "" {
		opts.DefaultPassword = DefaultPassword
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Initializer{db: d, logger: logger, opts: opts}
}

// Run walks all four steps in order and stops at the first failure.
func (i *Initializer) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	log := i.logger.With(slog.String("run_id", report.RunID), slog.String("dialect", i.db.Dialect()))

	seed := i.opts.Seed
	if seed == nil {
		var err error
		if seed, err = DefaultSeed(); err != nil {
			return report, err
		}
	}

	log.Debug("declaring tables")
	for _, t := range Tables {
		if err := i.db.Exec(ctx, t.SQL); err != nil {
			return report, fmt.Errorf("failed to declare table %s: %w", t.Name, err)
		}
		report.Tables++
	}
	for _, idx := range Indexes {
		if err := i.db.Exec(ctx, idx.SQL); err != nil {
			return report, fmt.Errorf("failed to create index %s: %w", idx.Name, err)
		}
		report.Indexes++
	}

	log.Debug("evolving columns")
	for _, c := range Columns {
		if err := i.db.Exec(ctx, c.SQL()); err != nil {
			return report, fmt.Errorf("failed to add column %s.%s: %w", c.Table, c.Name, err)
		}
		report.Columns++
	}

	log.Debug("seeding reference data")
	n, err := i.seedDepartments(ctx, seed.Departments)
	if err != nil {
		return report, err
	}
	report.DepartmentsSeeded = n

	depts, err := i.departmentIDs(ctx)
	if err != nil {
		return report, err
	}

	if report.MetricsSeeded, err = i.seedMetrics(ctx, seed.Metrics, depts); err != nil {
		return report, err
	}

	log.Debug("seeding roster")
	if err := i.seedRoster(ctx, seed.Roster, depts, &report); err != nil {
		return report, err
	}

	log.Info("schema ready",
		slog.Int("departments_seeded", report.DepartmentsSeeded),
		slog.Int("metrics_seeded", report.MetricsSeeded),
		slog.Int("employees_seeded", report.EmployeesSeeded),
		slog.Int("users_seeded", report.UsersSeeded))
	return report, nil
}

type countRow struct {
	N int64 `db:"n"`
}

// isEmpty reports whether table has no rows.
func (i *Initializer) isEmpty(ctx context.Context, table string) (bool, error) {
	row, err := i.db.Get(ctx, "SELECT COUNT(*) AS n FROM "+table)
	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", table, err)
	}
	var c countRow
	if err := db.Decode(row, &c); err != nil {
		return false, err
	}
	return c.N == 0, nil
}

func (i *Initializer) seedDepartments(ctx context.Context, depts []Department) (int, error) {
	empty, err := i.isEmpty(ctx, "departments")
	if err != nil || !empty {
		return 0, err
	}
	for _, d := range depts {
		if _, err := i.db.Run(ctx, "INSERT INTO departments (code, name) VALUES (?, ?)", d.Code, d.Name); err != nil {
			return 0, fmt.Errorf("failed to seed department %s: %w", d.Code, err)
		}
	}
	return len(depts), nil
}

func (i *Initializer) departmentIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := i.db.All(ctx, "SELECT id, code FROM departments")
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	var list []struct {
		ID   int64  `db:"id"`
		Code string `db:"code"`
	}
	if err := db.DecodeAll(rows, &list); err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(list))
	for _, d := range list {
		ids[d.Code] = d.ID
	}
	return ids, nil
}

func (i *Initializer) seedMetrics(ctx context.Context, metrics []Metric, depts map[string]int64) (int, error) {
	empty, err := i.isEmpty(ctx, "kpi_metrics")
	if err != nil || !empty {
		return 0, err
	}
	for _, m := range metrics {
		deptID, ok := depts[m.Department]
		if !ok {
			return 0, fmt.Errorf("metric %s: department %q not in store", m.Code, m.Department)
		}
		_, err := i.db.Run(ctx,
			"INSERT INTO kpi_metrics (department_id, code, name, unit, target, weight) VALUES (?, ?, ?, ?, ?, ?)",
			deptID, m.Code, m.Name, m.Unit, m.Target, m.Weight)
		if err != nil {
			return 0, fmt.Errorf("failed to seed metric %s: %w", m.Code, err)
		}
	}
	return len(metrics), nil
}

// seedRoster inserts each member's employee row and login unless a row with
// the same email already exists.
func (i *Initializer) seedRoster(ctx context.Context, roster []Member, depts map[string]int64, report *Report) error {
	for _, m := range roster {
		deptID, ok := depts[m.Department]
		if !ok {
			return fmt.Errorf("roster %s: department %q not in store", m.Email, m.Department)
		}
		role := m.Role
		if role == "" {
			role = "staff"
		}

		emp, err := i.db.Get(ctx, "SELECT id FROM employees WHERE email = ?", m.Email)
		if err != nil {
			return fmt.Errorf("failed to look up employee %s: %w", m.Email, err)
		}
		var empID int64
		if emp == nil {
			res, err := i.db.Run(ctx,
				"INSERT INTO employees (department_id, name, email, role, phone) VALUES (?, ?, ?, ?, ?)",
				deptID, m.Name, m.Email, role, nullable(m.Phone))
			if err != nil {
				return fmt.Errorf("failed to seed employee %s: %w", m.Email, err)
			}
			empID = res.LastInsertID.Int64
			report.EmployeesSeeded++
		} else {
			var row struct {
				ID int64 `db:"id"`
			}
			if err := db.Decode(emp, &row); err != nil {
				return err
			}
			empID = row.ID
		}

		user, err := i.db.Get(ctx, "SELECT id FROM users WHERE email = ?", m.Email)
		if err != nil {
			return fmt.Errorf("failed to look up user %s: %w", m.Email, err)
		}
		if user != nil {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(i.opts.DefaultPassword), i.opts.BcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if _, err := i.db.Run(ctx,
			"INSERT INTO users (employee_id, email, password_hash, role) VALUES (?, ?, ?, ?)",
			empID, m.Email, string(hash), role); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", m.Email, err)
		}
		report.UsersSeeded++
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
