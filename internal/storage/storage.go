// Package storage reads the backlog document and stores dated work plans.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bitserrors "github.com/abatilo/pick/internal/errors"
	"github.com/abatilo/pick/internal/plan"
)

const (
	planPrefix = "daily_work_plan_"
	fileExt    = ".md"
)

// ReadBacklog returns the contents of the backlog document at path.
func ReadBacklog(path string) (string, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", bitserrors.BacklogNotFoundError{Path: path}
	}
	if err != nil {
		return "", fmt.Errorf("reading backlog: %w", err)
	}
	return string(content), nil
}

// Store handles work plan files in an output directory.
type Store struct {
	basePath string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{basePath: dir}
}

// BasePath returns the output directory of the store.
func (s *Store) BasePath() string {
	return s.basePath
}

// PlanPath returns the full path of the plan file for date.
func (s *Store) PlanPath(date time.Time) string {
	return filepath.Join(s.basePath, plan.FileName(date))
}

// SavePlan writes content as the plan for date, replacing any plan already
// written that day. It returns the path written.
func (s *Store) SavePlan(date time.Time, content []byte) (string, error) {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := s.PlanPath(date)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("writing work plan: %w", err)
	}
	return path, nil
}

// LoadPlan reads and parses the plan for date.
func (s *Store) LoadPlan(date time.Time) (*plan.Plan, error) {
	content, err := os.ReadFile(s.PlanPath(date))
	if os.IsNotExist(err) {
		return nil, bitserrors.PlanNotFoundError{Date: date.Format(plan.DateLayout)}
	}
	if err != nil {
		return nil, err
	}
	return plan.Parse(content)
}

// PlanDates returns the dates of all plans in the store, newest first.
// A missing output directory has no plans.
func (s *Store) PlanDates() ([]time.Time, error) {
	entries, err := os.ReadDir(s.basePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, planPrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, planPrefix), fileExt)
		d, err := time.Parse(plan.DateLayout, raw)
		if err != nil {
			continue // Skip files that only look like plans
		}
		dates = append(dates, d)
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})
	return dates, nil
}
