package data

import "testing"

func TestCatalogIsWellFormed(t *testing.T) {
	if len(Services) != 8 {
		t.Fatalf("catalog has %d services, want 8", len(Services))
	}

	seen := make(map[string]bool)
	for _, svc := range Services {
		if svc.ID == "" || svc.Name == "" || svc.Description == "" || svc.Category == "" {
			t.Errorf("service %+v has empty fields", svc)
		}
		if seen[svc.ID] {
			t.Errorf("duplicate service id %q", svc.ID)
		}
		seen[svc.ID] = true
	}
}

func TestByID(t *testing.T) {
	first := Services[0]
	if got := ByID(first.ID); got == nil || got.Name != first.Name {
		t.Errorf("ByID(%q) = %+v", first.ID, got)
	}
	if ByID("missing") != nil {
		t.Error("ByID should return nil for unknown ids")
	}
}
