package telemetry

import "sync"

type Level int

const (
	LevelDebug Level = iota
	LevelWarning
	LevelBroken
	LevelCount
)

// Report is a single call recorded by RecorderAPI.
type Report struct {
	Level  Level
	ID     string
	Params []any
	Count  int64
}

// RecorderAPI keeps every report in memory so tests can assert on them.
type RecorderAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorderAPI() *RecorderAPI {
	return &RecorderAPI{}
}

func (r *RecorderAPI) push(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *RecorderAPI) ReportBroken(id string, params ...any) {
	r.push(Report{Level: LevelBroken, ID: id, Params: params})
}

func (r *RecorderAPI) ReportWarning(id string, params ...any) {
	r.push(Report{Level: LevelWarning, ID: id, Params: params})
}

func (r *RecorderAPI) ReportDebug(msg string, params ...any) {
	r.push(Report{Level: LevelDebug, ID: msg, Params: params})
}

func (r *RecorderAPI) ReportCount(id string, count int64) {
	r.push(Report{Level: LevelCount, ID: id, Count: count})
}

// Reports returns a copy of every report of the given level.
func (r *RecorderAPI) Reports(level Level) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Level == level {
			out = append(out, report)
		}
	}
	return out
}
