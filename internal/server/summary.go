package server

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfloor/kpidash/internal/db"
	"github.com/shopfloor/kpidash/pkg/core"
)

// summaryRow is one entry joined with its employee and metric.
type summaryRow struct {
	EmployeeID int64           `db:"employee_id"`
	Employee   string          `db:"employee"`
	Department string          `db:"department"`
	Metric     string          `db:"metric"`
	Target     decimal.Decimal `db:"target"`
	Weight     decimal.Decimal `db:"weight"`
	Value      decimal.Decimal `db:"value"`
}

const summaryQuery = `SELECT e.id AS employee_id, e.name AS employee, d.code AS department,
		m.code AS metric, m.target AS target, m.weight AS weight, k.value AS value
	FROM kpi_entries k
	JOIN employees e ON e.id = k.employee_id
	JOIN departments d ON d.id = e.department_id
	JOIN kpi_metrics m ON m.id = k.metric_id
	WHERE k.entry_date >= ? AND k.entry_date < ?
	ORDER BY e.id, m.code`

// KPISummary totals each employee's entries for ?month=YYYY-MM (current
// month by default) and scores them against the metric targets.
func (h *Handlers) KPISummary(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	var start time.Time
	if month == "" {
		now := h.now()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		var err error
		if start, err = time.Parse("2006-01", month); err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
	}
	end := start.AddDate(0, 1, 0)

	rows, err := h.store.All(r.Context(), summaryQuery, start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	summary, err := summarize(rows)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	summary.Month = start.Format("2006-01")
	writeJSON(w, http.StatusOK, summary)
}

// summarize folds ordered entry rows into per-employee totals. Rows must
// be sorted by employee then metric.
func summarize(rows []core.Row) (KPISummary, error) {
	var entries []summaryRow
	if err := db.DecodeAll(rows, &entries); err != nil {
		return KPISummary{}, err
	}

	out := KPISummary{Employees: []EmployeeSummary{}}
	for _, e := range entries {
		n := len(out.Employees)
		if n == 0 || out.Employees[n-1].EmployeeID != e.EmployeeID {
			out.Employees = append(out.Employees, EmployeeSummary{
				EmployeeID: e.EmployeeID,
				Employee:   e.Employee,
				Department: e.Department,
			})
			n++
		}
		emp := &out.Employees[n-1]

		m := len(emp.Metrics)
		if m == 0 || emp.Metrics[m-1].Metric != e.Metric {
			emp.Metrics = append(emp.Metrics, MetricSummary{
				Metric: e.Metric,
				Target: e.Target,
				Weight: e.Weight,
			})
			m++
		}
		emp.Metrics[m-1].Total = emp.Metrics[m-1].Total.Add(e.Value)
	}

	for i := range out.Employees {
		emp := &out.Employees[i]
		for j := range emp.Metrics {
			ms := &emp.Metrics[j]
			if !ms.Target.IsZero() {
				ms.Attainment = ms.Total.DivRound(ms.Target, 4)
			}
			emp.Score = emp.Score.Add(ms.Attainment.Mul(ms.Weight))
		}
		emp.Score = emp.Score.Round(4)
	}
	return out, nil
}
