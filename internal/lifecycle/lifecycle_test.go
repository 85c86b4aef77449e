package lifecycle

import (
	"errors"
	"slices"
	"testing"
)

func register(t *testing.T, m *Manager, log *[]string, name string, deps ...string) {
	t.Helper()
	err := m.Register(Component{
		Name:      name,
		DependsOn: deps,
		Start: func() error {
			*log = append(*log, "start "+name)
			return nil
		},
		Stop: func() error {
			*log = append(*log, "stop "+name)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
}

func TestManager_Order(t *testing.T) {
	m := New()
	var log []string
	register(t, m, &log, "queue", "raster", "camera")
	register(t, m, &log, "raster", "scheduler")
	register(t, m, &log, "scheduler")
	register(t, m, &log, "camera")
	register(t, m, &log, "textures")

	got, err := m.Order()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"camera", "scheduler", "raster", "queue", "textures"}
	if !slices.Equal(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestManager_StartStop(t *testing.T) {
	m := New()
	var log []string
	register(t, m, &log, "b", "a")
	register(t, m, &log, "a")
	if err := m.Register(Component{Name: "c", DependsOn: []string{"b"}}); err != nil {
		t.Fatal(err)
	}

	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if got := m.Started(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Started() = %v", got)
	}
	if err := m.Stop(); err != nil {
		t.Fatal(err)
	}

	want := []string{"start a", "start b", "stop b", "stop a"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if len(m.Started()) != 0 {
		t.Error("Started() should be empty after Stop")
	}
}

func TestManager_Cycle(t *testing.T) {
	m := New()
	var log []string
	register(t, m, &log, "a", "c")
	register(t, m, &log, "b", "a")
	register(t, m, &log, "c", "b")
	register(t, m, &log, "d")

	err := m.Start()
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Start() error = %v, want ErrCycle", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) || !slices.Equal(ce.Names, []string{"a", "b", "c"}) {
		t.Errorf("CycleError = %+v", ce)
	}
	if len(log) != 0 {
		t.Errorf("nothing should start on a cycle, log = %v", log)
	}
}

func TestManager_UnknownDependency(t *testing.T) {
	m := New()
	var log []string
	register(t, m, &log, "a", "ghost")

	if _, err := m.Order(); !errors.Is(err, ErrUnknownDependency) {
		t.Errorf("Order() error = %v, want ErrUnknownDependency", err)
	}
}

func TestManager_Duplicate(t *testing.T) {
	m := New()
	if err := m.Register(Component{Name: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(Component{Name: "a"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Register duplicate error = %v, want ErrDuplicate", err)
	}
}

func TestManager_StartFailureRollsBack(t *testing.T) {
	m := New()
	var log []string
	register(t, m, &log, "a")
	errBoom := errors.New("boom")
	if err := m.Register(Component{
		Name:      "b",
		DependsOn: []string{"a"},
		Start:     func() error { return errBoom },
	}); err != nil {
		t.Fatal(err)
	}

	err := m.Start()
	if !errors.Is(err, errBoom) {
		t.Fatalf("Start() error = %v, want boom", err)
	}
	want := []string{"start a", "stop a"}
	if !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestManager_StopJoinsErrors(t *testing.T) {
	m := New()
	e1, e2 := errors.New("one"), errors.New("two")
	_ = m.Register(Component{Name: "a", Stop: func() error { return e1 }})
	_ = m.Register(Component{Name: "b", Stop: func() error { return e2 }})

	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	err := m.Stop()
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("Stop() error = %v, want both", err)
	}
}
