package server

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/unicode/norm"

	"github.com/shopfloor/kpidash/internal/db"
)

var attendanceStatuses = map[string]bool{
	"present": true,
	"late":    true,
	"absent":  true,
	"leave":   true,
}

// Handlers serves the API routes over a Store.
type Handlers struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{store: store, logger: logger, now: time.Now}
}

// internalError logs err and answers with a generic 500.
func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// Health reports whether the database answers.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Get(r.Context(), "SELECT 1 AS ok"); err != nil {
		h.logger.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unavailable",
			"dialect": h.store.Dialect(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "dialect": h.store.Dialect()})
}

// ListDepartments returns all departments.
func (h *Handlers) ListDepartments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.All(r.Context(), "SELECT id, code, name FROM departments ORDER BY id")
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	out := []Department{}
	if err := db.DecodeAll(rows, &out); err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

const employeeColumns = `SELECT e.id, e.name, e.email, e.role, d.code AS department, e.phone, e.hired_on, e.active
	FROM employees e JOIN departments d ON d.id = e.department_id`

// ListEmployees returns employees, optionally filtered by ?department=<code>.
func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	query := employeeColumns
	var args []any
	if dept := r.URL.Query().Get("department"); dept != "" {
		query += " WHERE d.code = ?"
		args = append(args, dept)
	}
	query += " ORDER BY e.id"

	rows, err := h.store.All(r.Context(), query, args...)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	out := []Employee{}
	if err := db.DecodeAll(rows, &out); err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetEmployee returns one employee by id.
func (h *Handlers) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	row, err := h.store.Get(r.Context(), employeeColumns+" WHERE e.id = ?", id)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if row == nil {
		writeError(w, http.StatusNotFound, "employee not found")
		return
	}

	var e Employee
	if err := db.Decode(row, &e); err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// CreateEmployee adds an employee. A duplicate email answers 409.
func (h *Handlers) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in NewEmployee
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Names are stored composed so lookups match however the client typed them.
	in.Name = norm.NFC.String(strings.TrimSpace(in.Name))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if in.HiredOn != "" {
		if _, err := time.Parse(time.DateOnly, in.HiredOn); err != nil {
			writeError(w, http.StatusBadRequest, "hired_on must be YYYY-MM-DD")
			return
		}
	}
	if in.Role == "" {
		in.Role = "staff"
	}

	dept, err := h.store.Get(r.Context(), "SELECT id FROM departments WHERE code = ?", in.Department)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if dept == nil {
		writeError(w, http.StatusBadRequest, "unknown department")
		return
	}

	res, err := h.store.Run(r.Context(),
		"INSERT INTO employees (department_id, name, email, role, phone, hired_on) VALUES (?, ?, ?, ?, ?, ?)",
		dept["id"], in.Name, in.Email, in.Role, nullable(in.Phone), nullable(in.HiredOn))
	if err != nil {
		if h.store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "an employee with this email already exists")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": res.LastInsertID.Int64})
}

// ListAttendance returns the attendance of one day, today by default.
func (h *Handlers) ListAttendance(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("date")
	if day == "" {
		day = h.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, day); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rows, err := h.store.All(r.Context(), `SELECT a.id, a.employee_id, e.name AS employee, a.work_date,
			a.check_in, a.check_out, a.status, a.checklist, a.photo_url
		FROM attendance a JOIN employees e ON e.id = a.employee_id
		WHERE a.work_date = ?
		ORDER BY e.name`, day)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	out := []Attendance{}
	if err := db.DecodeAll(rows, &out); err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// RecordAttendance stores one check-in record per employee and day.
func (h *Handlers) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	var in NewAttendance
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.WorkDate == "" {
		in.WorkDate = h.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, in.WorkDate); err != nil {
		writeError(w, http.StatusBadRequest, "work_date must be YYYY-MM-DD")
		return
	}
	if in.Status == "" {
		in.Status = "present"
	}
	if !attendanceStatuses[in.Status] {
		writeError(w, http.StatusBadRequest, "unknown attendance status")
		return
	}
	if !h.employeeExists(w, r, in.EmployeeID) {
		return
	}

	res, err := h.store.Run(r.Context(),
		`INSERT INTO attendance (employee_id, work_date, check_in, check_out, status, checklist, photo_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.EmployeeID, in.WorkDate, nullable(in.CheckIn), nullable(in.CheckOut), in.Status,
		nullable(in.Checklist), nullable(in.PhotoURL))
	if err != nil {
		if h.store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "attendance already recorded for this day")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": res.LastInsertID.Int64})
}

// RecordKPI stores one metric value. Re-recording the same day answers 409.
func (h *Handlers) RecordKPI(w http.ResponseWriter, r *http.Request) {
	var in NewKPIEntry
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.EntryDate == "" {
		in.EntryDate = h.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, in.EntryDate); err != nil {
		writeError(w, http.StatusBadRequest, "entry_date must be YYYY-MM-DD")
		return
	}
	if in.Value.IsNegative() {
		writeError(w, http.StatusBadRequest, "value must not be negative")
		return
	}

	metric, err := h.store.Get(r.Context(), "SELECT id FROM kpi_metrics WHERE code = ?", in.Metric)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if metric == nil {
		writeError(w, http.StatusBadRequest, "unknown metric")
		return
	}
	if !h.employeeExists(w, r, in.EmployeeID) {
		return
	}

	res, err := h.store.Run(r.Context(),
		"INSERT INTO kpi_entries (employee_id, metric_id, entry_date, value, note) VALUES (?, ?, ?, ?, ?)",
		in.EmployeeID, metric["id"], in.EntryDate, in.Value, nullable(in.Note))
	if err != nil {
		if h.store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "value already recorded for this day")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": res.LastInsertID.Int64})
}

// employeeExists writes a 400 and returns false when id is unknown.
func (h *Handlers) employeeExists(w http.ResponseWriter, r *http.Request, id int64) bool {
	row, err := h.store.Get(r.Context(), "SELECT id FROM employees WHERE id = ?", id)
	if err != nil {
		h.internalError(w, r, err)
		return false
	}
	if row == nil {
		writeError(w, http.StatusBadRequest, "unknown employee")
		return false
	}
	return true
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
