package shipyard

import "repo-universe/internal/spatial"

// FileStats maps a language name to the file paths a commit touched in it
type FileStats map[string][]string

// Count totals files across every language
func (f FileStats) Count() int {
	n := 0
	for _, files := range f {
		n += len(files)
	}
	return n
}

// FirePolicy turns a commit's change statistics into a weapon magnitude and severity
type FirePolicy func(added, modified, removed FileStats) (magnitude, severity int)

// DefaultFirePolicy scores additions and modifications as magnitude,
// modifications and removals as severity
func DefaultFirePolicy(added, modified, removed FileStats) (magnitude, severity int) {
	changed := modified.Count()
	return added.Count() + changed, changed + removed.Count()
}

// Dispatch is published on ship:dispatched when a ship is sent to a planet
type Dispatch struct {
	Login       string         `json:"login"`
	Repo        string         `json:"repo"`
	Destination spatial.Vector `json:"destination"`
}
