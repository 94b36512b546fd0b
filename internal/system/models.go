package system

import "repo-universe/internal/planet"

// LayoutResult is published on system:layout after every layout pass
type LayoutResult struct {
	Planets []planet.Snapshot `json:"planets"`
	Rings   int               `json:"rings"`
}
