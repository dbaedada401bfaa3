package schema

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Department is a reference row in departments.
type Department struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Metric is a reference row in kpi_metrics.
type Metric struct {
	Code       string  `yaml:"code"`
	Department string  `yaml:"department"`
	Name       string  `yaml:"name"`
	Unit       string  `yaml:"unit"`
	Target     float64 `yaml:"target"`
	Weight     float64 `yaml:"weight"`
}

// Member is one roster entry. Each member gets an employee row and a login.
type Member struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Department string `yaml:"department"`
	Role       string `yaml:"role"`
	Phone      string `yaml:"phone"`
}

// SeedData is the full content of a seed file.
type SeedData struct {
	Departments []Department `yaml:"departments"`
	Metrics     []Metric     `yaml:"metrics"`
	Roster      []Member     `yaml:"roster"`
}

// DefaultSeed returns the seed data compiled into the binary.
func DefaultSeed() (*SeedData, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed decodes seed YAML and checks references between sections.
func ParseSeed(data []byte) (*SeedData, error) {
	var s SeedData
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *SeedData) validate() error {
	known := make(map[string]bool, len(s.Departments))
	for _, d := range s.Departments {
		if d.Code == "" {
			return fmt.Errorf("seed department with empty code")
		}
		if known[d.Code] {
			return fmt.Errorf("duplicate seed department %q", d.Code)
		}
		known[d.Code] = true
	}
	for _, m := range s.Metrics {
		if !known[m.Department] {
			return fmt.Errorf("metric %q references unknown department %q", m.Code, m.Department)
		}
	}
	emails := make(map[string]bool, len(s.Roster))
	for _, r := range s.Roster {
		if r.Email == "" {
			return fmt.Errorf("roster entry %q has no email", r.Name)
		}
		if emails[r.Email] {
			return fmt.Errorf("duplicate roster email %q", r.Email)
		}
		emails[r.Email] = true
		if !known[r.Department] {
			return fmt.Errorf("roster entry %q references unknown department %q", r.Email, r.Department)
		}
	}
	return nil
}
