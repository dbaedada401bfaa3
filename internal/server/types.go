package server

import "github.com/shopspring/decimal"

// Department is one row of /api/departments.
type Department struct {
	ID   int64  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// Employee is one row of /api/employees.
type Employee struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	Email      string  `db:"email" json:"email"`
	Role       string  `db:"role" json:"role"`
	Department string  `db:"department" json:"department"`
	Phone      *string `db:"phone" json:"phone,omitempty"`
	HiredOn    *string `db:"hired_on" json:"hired_on,omitempty"`
	Active     bool    `db:"active" json:"active"`
}

// NewEmployee is the body of POST /api/employees.
type NewEmployee struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Phone      string `json:"phone"`
	HiredOn    string `json:"hired_on"`
}

// Attendance is one row of /api/attendance.
type Attendance struct {
	ID         int64   `db:"id" json:"id"`
	EmployeeID int64   `db:"employee_id" json:"employee_id"`
	Employee   string  `db:"employee" json:"employee"`
	WorkDate   string  `db:"work_date" json:"work_date"`
	CheckIn    *string `db:"check_in" json:"check_in,omitempty"`
	CheckOut   *string `db:"check_out" json:"check_out,omitempty"`
	Status     string  `db:"status" json:"status"`
	Checklist  *string `db:"checklist" json:"checklist,omitempty"`
	PhotoURL   *string `db:"photo_url" json:"photo_url,omitempty"`
}

// NewAttendance is the body of POST /api/attendance.
type NewAttendance struct {
	EmployeeID int64  `json:"employee_id"`
	WorkDate   string `json:"work_date"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Status     string `json:"status"`
	Checklist  string `json:"checklist"`
	PhotoURL   string `json:"photo_url"`
}

// NewKPIEntry is the body of POST /api/kpi.
type NewKPIEntry struct {
	EmployeeID int64           `json:"employee_id"`
	Metric     string          `json:"metric"`
	EntryDate  string          `json:"entry_date"`
	Value      decimal.Decimal `json:"value"`
	Note       string          `json:"note"`
}

// MetricSummary is the monthly total of one metric for one employee.
type MetricSummary struct {
	Metric     string          `json:"metric"`
	Total      decimal.Decimal `json:"total"`
	Target     decimal.Decimal `json:"target"`
	Attainment decimal.Decimal `json:"attainment"`
	Weight     decimal.Decimal `json:"weight"`
}

// EmployeeSummary groups an employee's metric summaries with a weighted score.
type EmployeeSummary struct {
	EmployeeID int64           `json:"employee_id"`
	Employee   string          `json:"employee"`
	Department string          `json:"department"`
	Metrics    []MetricSummary `json:"metrics"`
	Score      decimal.Decimal `json:"score"`
}

// KPISummary is the body of GET /api/kpi/summary.
type KPISummary struct {
	Month     string            `json:"month"`
	Employees []EmployeeSummary `json:"employees"`
}
