package schema

import (
	stderrors "errors"
	"testing"

	"github.com/blobforge/blobforge/errors"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()

	define := func(name string, fields []Field) {
		if _, err := reg.Define(name, fields); err != nil {
			t.Fatalf("Define %s: %v", name, err)
		}
	}

	define("Vector3", []Field{
		{Name: "x", Ref: Prim("f32")},
		{Name: "y", Ref: Prim("f32")},
		{Name: "z", Ref: Prim("f32")},
	})
	define("Matrix3x3", []Field{
		{Name: "x", Ref: Named("Vector3")},
		{Name: "y", Ref: Named("Vector3")},
		{Name: "z", Ref: Named("Vector3")},
	})
	define("Particle", []Field{
		{Name: "position", Ref: Named("Vector3")},
		{Name: "velocity", Ref: Named("Vector3")},
		{Name: "mass", Ref: Prim("f32")},
	})
	define("Scene", []Field{
		{Name: "basis", Ref: Named("Matrix3x3")},
		{Name: "bodies", Ref: Named("Particle"), Len: 4},
	})
	reg.Close()
	return reg
}

func planNames(t *testing.T, reg *Registry, roots []string) []string {
	t.Helper()
	plan, err := reg.Plan(roots)
	if err != nil {
		t.Fatalf("Plan(%v): %v", roots, err)
	}
	names := make([]string, len(plan))
	for i, typ := range plan {
		names[i] = typ.Name()
	}
	return names
}

func TestPlanOrdering(t *testing.T) {
	reg := testRegistry(t)

	t.Run("single root", func(t *testing.T) {
		got := planNames(t, reg, []string{"Matrix3x3"})
		want := []string{"Vector3", "Matrix3x3"}
		assertSequence(t, got, want)
	})

	t.Run("diamond dedup", func(t *testing.T) {
		got := planNames(t, reg, []string{"Scene"})
		want := []string{"Vector3", "Matrix3x3", "Particle", "Scene"}
		assertSequence(t, got, want)
	})

	t.Run("dependencies before dependents", func(t *testing.T) {
		got := planNames(t, reg, []string{"Scene", "Matrix3x3", "Particle"})
		index := make(map[string]int, len(got))
		for i, name := range got {
			if _, dup := index[name]; dup {
				t.Fatalf("type %s appears more than once in %v", name, got)
			}
			index[name] = i
		}
		deps := map[string][]string{
			"Matrix3x3": {"Vector3"},
			"Particle":  {"Vector3"},
			"Scene":     {"Matrix3x3", "Particle"},
		}
		for name, wants := range deps {
			for _, dep := range wants {
				if index[dep] >= index[name] {
					t.Errorf("%s (index %d) must precede %s (index %d)", dep, index[dep], name, index[name])
				}
			}
		}
	})

	t.Run("stable across calls", func(t *testing.T) {
		first := planNames(t, reg, []string{"Scene", "Particle"})
		for i := 0; i < 10; i++ {
			again := planNames(t, reg, []string{"Scene", "Particle"})
			assertSequence(t, again, first)
		}
	})

	t.Run("empty roots", func(t *testing.T) {
		plan, err := reg.Plan(nil)
		if err != nil {
			t.Fatalf("Plan(nil): %v", err)
		}
		if len(plan) != 0 {
			t.Errorf("got %d types, want 0", len(plan))
		}
	})

	t.Run("unknown root", func(t *testing.T) {
		_, err := reg.Plan([]string{"Missing"})
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhasePlan, Kind: errors.KindUnknownType}) {
			t.Errorf("got %v, want unknown_type", err)
		}
	})
}

// Enums have no dependencies of their own; they never appear in a plan.
func TestPlanSkipsEnums(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.DefineEnum("Phase", []EnumMember{
		{Name: "Solid", Value: 0},
		{Name: "Liquid", Value: 1},
	}); err != nil {
		t.Fatalf("DefineEnum: %v", err)
	}
	if _, err := reg.Define("Cell", []Field{
		{Name: "phase", Ref: Named("Phase")},
		{Name: "density", Ref: Prim("f32")},
	}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	reg.Close()

	got := planNames(t, reg, []string{"Cell"})
	assertSequence(t, got, []string{"Cell"})
}

func assertSequence(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, got, want)
		}
	}
}
