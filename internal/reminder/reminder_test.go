package reminder

import (
	"errors"
	"testing"
	"time"

	"kidtodo/internal/clock"
	"kidtodo/internal/model"
	"kidtodo/internal/persist"
	"kidtodo/internal/store"
)

var now = time.Date(2024, 5, 31, 15, 0, 0, 0, time.UTC)

type fixture struct {
	store   *store.Store
	engine  *Engine
	clock   *clock.Manual
	backend *persist.MemoryBackend
	codec   *persist.Codec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := persist.NewMemoryBackend()
	clk := clock.NewManual(now)
	codec := persist.NewCodec(b, persist.WithClock(clk))
	s := store.Open(codec, clk, &clock.Sequence{})
	return &fixture{
		store:   s,
		engine:  NewEngine(s, clk, Config{Location: time.UTC}),
		clock:   clk,
		backend: b,
		codec:   codec,
	}
}

func (f *fixture) add(t *testing.T, due, dueTime string, lead int) model.Task {
	t.Helper()
	task, res := f.store.AddTask(store.NewTask{
		Text: "Practice", Project: "Home", Due: due, DueTime: dueTime, RemindBeforeMin: lead,
	})
	if !res.Saved {
		t.Fatalf("AddTask failed: %+v", res)
	}
	return task
}

func TestFiresOnceWhenDue(t *testing.T) {
	f := newFixture(t)
	// Remind instant lands exactly on now.
	dueAt := now.Add(2 * time.Hour)
	task := f.add(t, dueAt.Format("2006-01-02"), dueAt.Format("15:04"), 120)

	fired := f.engine.Scan()
	if len(fired) != 1 || fired[0].TaskID != task.ID {
		t.Fatalf("Expected one notification for %s, got %+v", task.ID, fired)
	}
	if fired[0].Title == "" || fired[0].Body == "" {
		t.Errorf("Expected title and body, got %+v", fired[0])
	}

	got, _ := f.store.Task(task.ID)
	if got.RemindedAt == nil || *got.RemindedAt != now.UnixMilli() {
		t.Errorf("Expected remindedAt=now, got %v", got.RemindedAt)
	}
	if StateOf(got) != Fired {
		t.Errorf("Expected fired state, got %s", StateOf(got))
	}

	f.clock.Advance(30 * time.Second)
	if again := f.engine.Scan(); len(again) != 0 {
		t.Errorf("Expected no re-fire, got %+v", again)
	}
}

func TestTomorrowWithLeadTwoHoursFromNow(t *testing.T) {
	f := newFixture(t)
	dueAt := now.Add(24*time.Hour + 2*time.Hour)
	f.add(t, dueAt.Format("2006-01-02"), dueAt.Format("15:04"), 120)

	if fired := f.engine.Scan(); len(fired) != 0 {
		t.Fatalf("Expected nothing a day early, got %+v", fired)
	}
	f.clock.Advance(24 * time.Hour)
	if fired := f.engine.Scan(); len(fired) != 1 {
		t.Fatalf("Expected fire once remind instant is reached, got %+v", fired)
	}
}

func TestFiredStateSurvivesReload(t *testing.T) {
	f := newFixture(t)
	dueAt := now.Add(time.Hour)
	f.add(t, dueAt.Format("2006-01-02"), dueAt.Format("15:04"), 90)
	if len(f.engine.Scan()) != 1 {
		t.Fatal("Expected first scan to fire")
	}

	reopened := store.Open(f.codec, f.clock, &clock.Sequence{})
	engine := NewEngine(reopened, f.clock, Config{Location: time.UTC})
	if fired := engine.Scan(); len(fired) != 0 {
		t.Errorf("Expected no fire after reload, got %+v", fired)
	}
}

func TestGraceWindow(t *testing.T) {
	tests := []struct {
		name     string
		sinceDue time.Duration
		fires    bool
	}{
		{"exactly at remind instant", 0, true},
		{"one minute early", -time.Minute, false},
		{"five hours late", 5 * time.Hour, true},
		{"at the grace edge", 6 * time.Hour, true},
		{"seven hours late", 7 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			lead := 30
			remindAt := now.Add(-tt.sinceDue)
			dueAt := remindAt.Add(time.Duration(lead) * time.Minute)
			f.add(t, dueAt.Format("2006-01-02"), dueAt.Format("15:04"), lead)

			fired := f.engine.Scan()
			if got := len(fired) == 1; got != tt.fires {
				t.Errorf("Expected fires=%v, got %+v", tt.fires, fired)
			}
		})
	}
}

func TestSkips(t *testing.T) {
	dueAt := now.Add(10 * time.Minute)
	date, hm := dueAt.Format("2006-01-02"), dueAt.Format("15:04")

	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"no lead", func(f *fixture) { f.add(t, date, hm, 0) }},
		{"no due", func(f *fixture) { f.add(t, "", hm, 30) }},
		{"no time", func(f *fixture) { f.add(t, date, "", 30) }},
		{"bad date", func(f *fixture) { f.add(t, "tomorrow", hm, 30) }},
		{"bad time", func(f *fixture) { f.add(t, date, "25:99", 30) }},
		{"done", func(f *fixture) {
			task := f.add(t, date, hm, 30)
			f.store.ToggleDone(task.ID)
		}},
		{"already fired", func(f *fixture) {
			task := f.add(t, date, hm, 30)
			f.store.MarkReminded(task.ID, now.Add(-time.Minute))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)
			if fired := f.engine.Scan(); len(fired) != 0 {
				t.Errorf("Expected skip, got %+v", fired)
			}
		})
	}
}

func TestEditRearmsAndFiresAgain(t *testing.T) {
	f := newFixture(t)
	dueAt := now.Add(time.Hour)
	task := f.add(t, dueAt.Format("2006-01-02"), dueAt.Format("15:04"), 90)
	if len(f.engine.Scan()) != 1 {
		t.Fatal("Expected first fire")
	}

	later := now.Add(3 * time.Hour)
	hm := later.Format("15:04")
	f.store.EditTask(task.ID, store.Edit{Due: strPtr(later.Format("2006-01-02")), DueTime: &hm})
	got, _ := f.store.Task(task.ID)
	if StateOf(got) != Armed {
		t.Fatalf("Expected re-armed, got %s", StateOf(got))
	}
	if fired := f.engine.Scan(); len(fired) != 0 {
		t.Fatalf("Expected nothing before the new remind instant, got %+v", fired)
	}
	f.clock.Advance(90 * time.Minute)
	if fired := f.engine.Scan(); len(fired) != 1 {
		t.Errorf("Expected second firing after re-arm, got %+v", fired)
	}
}

func TestFireIsKeptWhenSaveFails(t *testing.T) {
	f := newFixture(t)
	dueAt := now.Add(time.Hour)
	f.add(t, dueAt.Format("2006-01-02"), dueAt.Format("15:04"), 90)
	f.backend.FailWrites = errors.New("quota")

	if len(f.engine.Scan()) != 1 {
		t.Fatal("Expected the notification even when the write fails")
	}
	if len(f.engine.Scan()) != 0 {
		t.Error("Expected in-memory remindedAt to prevent a second notification")
	}
}

func TestLeadPastDurationRangeNeverFires(t *testing.T) {
	f := newFixture(t)
	dueAt := now.Add(10 * time.Second)
	task := model.Task{
		ID:              "far",
		Due:             strPtr(dueAt.Format("2006-01-02")),
		DueTime:         strPtr(dueAt.Format("15:04")),
		RemindBeforeMin: 307445735,
	}
	if at, ok := f.engine.RemindAt(task); ok {
		t.Errorf("Expected no remind instant, got %s", at)
	}

	task.RemindBeforeMin = int(model.MaxRemindBeforeMin)
	at, ok := f.engine.RemindAt(task)
	if !ok || !at.Before(now) {
		t.Errorf("Expected the largest lead to land in the past, got %s %v", at, ok)
	}
}

func TestStateOf(t *testing.T) {
	fired := int64(1)
	tests := []struct {
		task model.Task
		want State
	}{
		{model.Task{}, Unarmed},
		{model.Task{Due: strPtr("2024-01-01"), DueTime: strPtr("09:00")}, Unarmed},
		{model.Task{Due: strPtr("2024-01-01"), DueTime: strPtr("09:00"), RemindBeforeMin: 5}, Armed},
		{model.Task{Due: strPtr("2024-01-01"), DueTime: strPtr("09:00"), RemindBeforeMin: 5, RemindedAt: &fired}, Fired},
	}
	for _, tt := range tests {
		if got := StateOf(tt.task); got != tt.want {
			t.Errorf("StateOf(%+v) = %s, want %s", tt.task, got, tt.want)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := NewEngine(nil, clock.System(), Config{}).Config()
	if cfg.Interval != 30*time.Second || cfg.Grace != 6*time.Hour || cfg.Location != time.Local {
		t.Errorf("Unexpected defaults %+v", cfg)
	}

	custom := NewEngine(nil, clock.System(), Config{Interval: time.Minute, Grace: time.Hour}).Config()
	if custom.Interval != time.Minute || custom.Grace != time.Hour {
		t.Errorf("Expected custom timing kept, got %+v", custom)
	}
}

func strPtr(s string) *string { return &s }
