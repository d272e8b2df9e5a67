package persist

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"kidtodo/internal/clock"
	"kidtodo/internal/model"
)

// normalize turns a decoded record of unknown shape into a valid snapshot.
// Fields are coerced one at a time so a single bad value never discards the
// rest of the record.
func (c *Codec) normalize(obj map[string]any) model.Snapshot {
	projects := normalizeProjects(obj["projects"])

	var rawTodos []any
	if arr, ok := obj["todos"].([]any); ok {
		rawTodos = arr
	}

	todos := make([]model.Task, 0, len(rawTodos))
	for _, item := range rawTodos {
		x, ok := item.(map[string]any)
		if !ok {
			continue
		}
		todos = append(todos, c.normalizeTask(x, projects[0]))
	}

	// A task may name a project the list lost; keep the task reachable.
	for i := range todos {
		if name, ok := lookupFold(projects, todos[i].Project); ok {
			todos[i].Project = name
			continue
		}
		projects = append(projects, todos[i].Project)
	}

	return model.Snapshot{Projects: projects, Todos: todos}
}

func normalizeProjects(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return model.DefaultProjects()
	}
	projects := make([]string, 0, len(arr))
	for _, p := range arr {
		if !truthy(p) {
			continue
		}
		name := coerceString(p)
		if containsFold(projects, name) {
			continue
		}
		projects = append(projects, name)
	}
	if len(projects) == 0 {
		return model.DefaultProjects()
	}
	return projects
}

func (c *Codec) normalizeTask(x map[string]any, firstProject string) model.Task {
	t := model.Task{
		Done:     truthy(x["done"]),
		Priority: model.DefaultPriority,
	}

	if id, ok := x["id"]; ok && id != nil {
		t.ID = coerceString(id)
	} else {
		t.ID = c.ids.NewID()
	}

	if text, ok := x["text"]; ok && text != nil {
		t.Text = model.Truncate(coerceString(text))
	}

	t.CreatedAt = clock.Millis(c.clock.Now())
	if v, ok := x["createdAt"]; ok && v != nil {
		if n, ok := toNumber(v); ok {
			if ms, ok := toMillis(n); ok {
				t.CreatedAt = ms
			}
		}
	}

	t.Project = firstProject
	if truthy(x["project"]) {
		t.Project = coerceString(x["project"])
	}

	if truthy(x["due"]) {
		s := coerceString(x["due"])
		t.Due = &s
	}
	if truthy(x["dueTime"]) {
		s := coerceString(x["dueTime"])
		t.DueTime = &s
	}

	if v, ok := x["remindBeforeMin"]; ok && v != nil {
		if n, ok := toNumber(v); ok && n > 0 && n < float64(model.MaxRemindBeforeMin+1) {
			t.RemindBeforeMin = int(math.Trunc(n))
		}
	}

	if n, ok := x["remindedAt"].(float64); ok {
		if ms, ok := toMillis(n); ok {
			t.RemindedAt = &ms
		}
	}

	if s, ok := x["priority"].(string); ok && model.Priority(s).Valid() {
		t.Priority = model.Priority(s)
	}

	return t
}

// truthy follows the loose truthiness of the records' original writer:
// null, false, 0, NaN and "" are false, everything else is true.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// toNumber converts v to a finite number, reporting false when it cannot.
func toNumber(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case bool:
		if x {
			n = 1
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// toMillis truncates n to an int64, reporting false when it does not fit.
func toMillis(n float64) (int64, bool) {
	n = math.Trunc(n)
	if n < math.MinInt64 || n >= math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}

func containsFold(names []string, name string) bool {
	_, ok := lookupFold(names, name)
	return ok
}

// lookupFold returns the listed spelling of name, preferring an exact match.
func lookupFold(names []string, name string) (string, bool) {
	found := ""
	ok := false
	for _, n := range names {
		if n == name {
			return n, true
		}
		if !ok && model.SameProject(n, name) {
			found, ok = n, true
		}
	}
	return found, ok
}
