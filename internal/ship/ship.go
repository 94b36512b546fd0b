package ship

import "repo-universe/internal/spatial"

// State is a ship's position in its action cycle
type State string

const (
	StateIdle    State = "idle"
	StateJumping State = "jumping"
	StateArrived State = "arrived"
	StateFiring  State = "firing"
)

// StateChange is reported to the ship's observer on every transition
type StateChange struct {
	Login string `json:"login"`
	From  State  `json:"from"`
	To    State  `json:"to"`
}

// Ship is a contributor travelling between planets
//
// State cycle: Idle -> Jumping -> Arrived -> Firing -> Idle. Dispatch and
// Attack are both queued on the jump drive, so a fire always targets the
// location reached by the last completed jump.
type Ship struct {
	Login    string
	state    State
	drive    *JumpDrive
	weapon   *Weapon
	observer func(StateChange)
}

// New commissions a ship at start
// observer may be nil
func New(login string, start spatial.Vector, traveler Traveler, trigger Trigger, observer func(StateChange)) *Ship {
	return &Ship{
		Login:    login,
		state:    StateIdle,
		drive:    NewJumpDrive(start, traveler),
		weapon:   NewWeapon(login, trigger),
		observer: observer,
	}
}

// Dispatch queues a jump to dest
func (s *Ship) Dispatch(dest spatial.Vector) {
	s.drive.Jump(dest,
		func() { s.transition(StateJumping) },
		func() { s.transition(StateArrived) },
	)
}

// Attack queues a weapon discharge at wherever the ship is once earlier actions finish
func (s *Ship) Attack(magnitude, severity int) {
	s.drive.Enqueue(func(done func()) {
		s.transition(StateFiring)
		s.weapon.Fire(magnitude, severity, s.drive.Location())
		s.transition(StateIdle)
		done()
	})
}

func (s *Ship) State() State {
	return s.state
}

func (s *Ship) Location() spatial.Vector {
	return s.drive.Location()
}

// Pending counts queued actions, including the one in flight
func (s *Ship) Pending() int {
	return s.drive.Pending()
}

func (s *Ship) transition(to State) {
	change := StateChange{Login: s.Login, From: s.state, To: to}
	s.state = to
	if s.observer != nil {
		s.observer(change)
	}
}

// Snapshot is a read-only copy of a ship for presentation
type Snapshot struct {
	Login    string         `json:"login"`
	State    State          `json:"state"`
	Location spatial.Vector `json:"location"`
	Pending  int            `json:"pending"`
}

func (s *Ship) Snapshot() Snapshot {
	return Snapshot{
		Login:    s.Login,
		State:    s.state,
		Location: s.drive.Location(),
		Pending:  s.drive.Pending(),
	}
}
