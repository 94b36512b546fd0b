package spatial

import "math"

// Vector is a point in universe space
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Origin is where every ship is commissioned
var Origin = Vector{}

func (v Vector) Distance(o Vector) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Lerp returns the point t of the way from v to o, t in [0,1]
func (v Vector) Lerp(o Vector, t float64) Vector {
	return Vector{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// Slot is a unique orbital position: a ring around the origin and an angular index on it
type Slot struct {
	Ring  int `json:"ring"`
	Index int `json:"index"`
}
