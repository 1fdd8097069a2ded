package ai

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"sync"

	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
	"github.com/udisondev/nightfall/internal/perception"
)

var (
	ErrMissingNavigator = errors.New("agent has no navigator")
	ErrMissingBody      = errors.New("agent has no body")
)

// ScanFunc enumerates the candidates carrying tag.
// Injected by the owner of the world registry.
type ScanFunc func(tag string) iter.Seq[model.Candidate]

// LookupFunc resolves a candidate by objectID.
// Injected by the owner of the world registry.
type LookupFunc func(objectID uint32) (model.Candidate, bool)

// Snapshot is a read-only view of an agent's runtime state.
type Snapshot struct {
	ObjectID         uint32
	Kind             model.AgentKind
	State            model.BehaviorState
	Running          bool
	Inert            bool
	HasVisibleTarget bool
	AggressionTimer  float64
	WanderTimer      float64
	TargetID         uint32 // 0 if no target was ever acquired
	Position         model.Vec3
	Destination      model.Vec3
	HasDestination   bool
}

// Agent is one NPC brain: sight, hearing and the Wander / Investigate /
// Chase state machine. Aggressive agents only ever Chase or sit Idle.
//
// Every entry point (Start, Stop, Tick, OnHeardSound, Snapshot) is
// serialized by the agent's mutex, so noise can reach the agent from any
// goroutine.
//
// A missing Body makes the agent fully inert. A missing Navigator keeps
// perception and timers running but skips every movement request.
type Agent struct {
	objectID    uint32
	cfg         Config
	body        nav.Body
	navigator   nav.Navigator
	scan        ScanFunc
	lookup      LookupFunc
	obstruction perception.ObstructionQuery
	err         error

	mu               sync.Mutex
	running          bool
	state            model.BehaviorState
	aggressionTimer  float64
	wanderTimer      float64
	targetID         uint32 // weak: resolved through lookup, never owned
	hasVisibleTarget bool
	lastKnown        model.Vec3

	// Sound heard while chasing on memory; investigated once Chase ends.
	pendingSound    model.Vec3
	hasPendingSound bool

	destination    model.Vec3
	hasDestination bool
}

// NewAgent creates an agent. The configuration error for a missing body or
// navigator is logged here once and kept in Err.
func NewAgent(objectID uint32, cfg Config, body nav.Body, navigator nav.Navigator, scan ScanFunc, lookup LookupFunc) *Agent {
	a := &Agent{
		objectID:    objectID,
		cfg:         cfg.normalized(),
		body:        body,
		navigator:   navigator,
		scan:        scan,
		lookup:      lookup,
		obstruction: perception.Clear,
		state:       model.StateIdle,
	}

	switch {
	case body == nil:
		a.err = fmt.Errorf("agent %d: %w", objectID, ErrMissingBody)
	case navigator == nil:
		a.err = fmt.Errorf("agent %d: %w", objectID, ErrMissingNavigator)
	}
	if a.err != nil {
		slog.Error("agent misconfigured, running inert",
			"objectID", objectID,
			"kind", a.cfg.Kind,
			"error", a.err)
	}

	return a
}

// SetObstructionQuery sets the level used for sight rays.
// Without one, sight is never obstructed.
func (a *Agent) SetObstructionQuery(q perception.ObstructionQuery) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if q == nil {
		q = perception.Clear
	}
	a.obstruction = q
}

// ObjectID returns the agent's object ID.
func (a *Agent) ObjectID() uint32 {
	return a.objectID
}

// Err returns the configuration error found at construction, if any.
func (a *Agent) Err() error {
	return a.err
}

// Config returns the agent's tuning.
func (a *Agent) Config() Config {
	return a.cfg
}

// Position returns the body position (zero without a body).
func (a *Agent) Position() model.Vec3 {
	if a.body == nil {
		return model.Vec3{}
	}
	return a.body.Position()
}

// CurrentState returns the current behavior state.
func (a *Agent) CurrentState() model.BehaviorState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Start runs spawn logic. Stealth agents start wandering. Aggressive agents
// go after the nearest candidate, chasing it for one aggression period even
// before they see it, or sit Idle when there is nobody to hunt.
func (a *Agent) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return
	}
	a.running = true

	if a.body == nil {
		return
	}

	a.aggressionTimer = 0
	a.wanderTimer = a.cfg.WanderIntervalSeconds

	switch a.cfg.Kind {
	case model.KindAggressive:
		a.setState(model.StateIdle)
		c, ok := perception.Nearest(a.body.Position(), a.candidates())
		if !ok {
			break
		}
		a.targetID = c.ID
		a.lastKnown = c.Position
		a.setSpeed(a.cfg.ChaseSpeed)
		a.setDestination(c.Position)
		if a.cfg.AggressionDecaySeconds > 0 {
			a.aggressionTimer = a.cfg.AggressionDecaySeconds
			a.setState(model.StateChase)
		}

	case model.KindStealth:
		a.setSpeed(a.cfg.DefaultSpeed)
		a.startWandering()
	}

	slog.Debug("agent started",
		"objectID", a.objectID,
		"kind", a.cfg.Kind,
		"state", a.state,
		"targetID", a.targetID)
}

// Stop makes the agent inert and clears its runtime state.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.running = false
	a.setState(model.StateIdle)
	a.aggressionTimer = 0
	a.targetID = 0
	a.hasVisibleTarget = false
	a.hasPendingSound = false

	slog.Debug("agent stopped", "objectID", a.objectID)
}

// Tick runs perception and one step of the state machine.
func (a *Agent) Tick(elapsed float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running || a.body == nil {
		return
	}

	res := perception.Evaluate(a.viewer(), a.candidates(), a.obstruction)
	a.hasVisibleTarget = res.Visible
	if res.Visible {
		a.targetID = res.Target.ID
	}

	switch {
	case res.Visible:
		a.chase(res.Target)
	case a.state == model.StateChase:
		if a.decay(elapsed) {
			// Chase ended this tick; the new state starts counting next tick
			return
		}
	}

	if a.cfg.Kind != model.KindStealth || a.state == model.StateChase {
		return
	}

	a.setSpeed(a.cfg.DefaultSpeed)
	switch a.state {
	case model.StateInvestigate:
		if a.arrived() {
			a.startWandering()
		}
	case model.StateWander:
		a.wander(elapsed)
	}
}

// OnHeardSound reacts to a sound at origin. Only Stealth agents that see
// nobody react: they investigate right away, or once Chase ends when they
// are still chasing on memory. Returns whether the sound was taken.
func (a *Agent) OnHeardSound(origin model.Vec3) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running || a.body == nil {
		return false
	}
	if a.cfg.Kind != model.KindStealth || a.hasVisibleTarget {
		return false
	}

	if a.state == model.StateChase {
		a.pendingSound = origin
		a.hasPendingSound = true
		return true
	}

	a.investigate(origin)
	return true
}

// Snapshot returns a consistent view of the agent's runtime state.
func (a *Agent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Snapshot{
		ObjectID:         a.objectID,
		Kind:             a.cfg.Kind,
		State:            a.state,
		Running:          a.running,
		Inert:            a.err != nil,
		HasVisibleTarget: a.hasVisibleTarget,
		AggressionTimer:  a.aggressionTimer,
		WanderTimer:      a.wanderTimer,
		TargetID:         a.targetID,
		Position:         a.Position(),
		Destination:      a.destination,
		HasDestination:   a.hasDestination,
	}
}

func (a *Agent) viewer() perception.Viewer {
	return perception.Viewer{
		Position:        a.body.Position(),
		Forward:         a.body.Forward(),
		ViewDistance:    a.cfg.ViewDistance,
		ViewAngle:       a.cfg.ViewAngle,
		EyeHeight:       a.cfg.EyeHeight,
		ObstructionMask: a.cfg.ObstructionMask,
	}
}

func (a *Agent) candidates() iter.Seq[model.Candidate] {
	if a.scan == nil {
		return func(func(model.Candidate) bool) {}
	}
	return a.scan(a.cfg.TargetTag)
}

func (a *Agent) targetResolves() bool {
	if a.targetID == 0 || a.lookup == nil {
		return false
	}
	_, ok := a.lookup(a.targetID)
	return ok
}

func (a *Agent) chase(target model.Candidate) {
	a.setState(model.StateChase)
	a.aggressionTimer = a.cfg.AggressionDecaySeconds
	a.lastKnown = target.Position
	a.hasPendingSound = false
	a.setSpeed(a.cfg.ChaseSpeed)
	a.setDestination(target.Position)
}

// decay counts the aggression timer down while the target is out of sight
// and reports whether Chase ended.
func (a *Agent) decay(elapsed float64) bool {
	a.aggressionTimer -= elapsed
	if a.aggressionTimer > 0 {
		if a.targetResolves() {
			a.setDestination(a.lastKnown)
		}
		return false
	}

	a.aggressionTimer = 0

	if a.cfg.Kind != model.KindStealth {
		a.setState(model.StateIdle)
		return true
	}

	if a.hasPendingSound {
		a.hasPendingSound = false
		a.setSpeed(a.cfg.DefaultSpeed)
		a.investigate(a.pendingSound)
		return true
	}

	a.setSpeed(a.cfg.DefaultSpeed)
	a.startWandering()
	return true
}

func (a *Agent) investigate(origin model.Vec3) {
	a.setState(model.StateInvestigate)
	a.setDestination(origin)
}

func (a *Agent) startWandering() {
	a.setState(model.StateWander)
	a.hasPendingSound = false
	a.pickWanderPoint()
	a.wanderTimer = a.cfg.WanderIntervalSeconds
}

func (a *Agent) wander(elapsed float64) {
	a.wanderTimer -= elapsed
	if a.wanderTimer <= 0 || a.remainingDistance() < wanderArrivalThreshold {
		a.pickWanderPoint()
		a.wanderTimer = a.cfg.WanderIntervalSeconds
	}
}

// pickWanderPoint asks the navigator for a reachable point; on failure the
// current destination stands and the next wander cycle retries.
func (a *Agent) pickWanderPoint() {
	if a.navigator == nil {
		return
	}

	p, ok := a.navigator.SampleReachablePoint(a.body.Position(), a.cfg.WanderRadius, a.cfg.SampleAttempts)
	if !ok {
		if IsDebugEnabled() {
			slog.Debug("no reachable wander point",
				"objectID", a.objectID,
				"radius", a.cfg.WanderRadius,
				"attempts", a.cfg.SampleAttempts)
		}
		return
	}
	a.setDestination(p)
}

func (a *Agent) arrived() bool {
	if a.navigator == nil {
		return false
	}
	return !a.navigator.PathPending() && a.navigator.RemainingDistance() <= a.navigator.StoppingDistance()
}

func (a *Agent) remainingDistance() float64 {
	if a.navigator == nil {
		return math.Inf(1)
	}
	return a.navigator.RemainingDistance()
}

func (a *Agent) setDestination(p model.Vec3) {
	if a.navigator == nil {
		return
	}
	a.navigator.SetDestination(p)
	a.destination = p
	a.hasDestination = true
}

func (a *Agent) setSpeed(speed float64) {
	if a.navigator == nil {
		return
	}
	a.navigator.SetSpeed(speed)
}

func (a *Agent) setState(s model.BehaviorState) {
	old := a.state
	a.state = s

	if old != s && IsDebugEnabled() {
		slog.Debug("agent state changed",
			"objectID", a.objectID,
			"from", old,
			"to", s,
			"aggressionTimer", a.aggressionTimer)
	}
}
