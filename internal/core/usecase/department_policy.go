package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

// DepartmentPolicy is the configured department allow-list.
// Names match exactly after trimming.
type DepartmentPolicy struct {
	allowed map[string]struct{}
}

func NewDepartmentPolicy(departments []string) *DepartmentPolicy {
	allowed := make(map[string]struct{}, len(departments))
	for _, d := range departments {
		d = strings.TrimSpace(d)
		if d != "" {
			allowed[d] = struct{}{}
		}
	}
	return &DepartmentPolicy{allowed: allowed}
}

// Departments returns the allow-list in sorted order.
func (p *DepartmentPolicy) Departments() []string {
	out := make([]string, 0, len(p.allowed))
	for d := range p.allowed {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (p *DepartmentPolicy) CheckDepartment(department string) error {
	if _, ok := p.allowed[department]; !ok {
		return domain.WrapError(domain.ErrInvalidDepartment, "check department", fmt.Errorf("department %q is not configured", department))
	}
	return nil
}
