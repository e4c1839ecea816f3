package usecase

import (
	"testing"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

func TestDepartmentPolicySortsAndTrims(t *testing.T) {
	got := NewDepartmentPolicy([]string{" HR", "IT", "", "Accounts", "IT"}).Departments()
	want := []string{"Accounts", "HR", "IT"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDepartmentPolicyCheck(t *testing.T) {
	policy := NewDepartmentPolicy([]string{"HR"})
	if err := policy.CheckDepartment("HR"); err != nil {
		t.Fatalf("expected HR to be allowed, got %v", err)
	}
	for _, name := range []string{"hr", "Legal", ""} {
		if err := policy.CheckDepartment(name); !domain.IsKind(err, domain.ErrInvalidDepartment) {
			t.Fatalf("expected ErrInvalidDepartment for %q, got %v", name, err)
		}
	}
}
