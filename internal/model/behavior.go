package model

import (
	"fmt"
	"strings"
)

// AgentKind selects which transition rules apply to an agent.
type AgentKind int32

const (
	// KindAggressive - always hunting, never wanders or investigates
	KindAggressive AgentKind = iota
	// KindStealth - roams, investigates sounds, chases on sight
	KindStealth
)

// String returns human-readable kind name
func (k AgentKind) String() string {
	switch k {
	case KindAggressive:
		return "AGGRESSIVE"
	case KindStealth:
		return "STEALTH"
	default:
		return "UNKNOWN"
	}
}

// ParseAgentKind parses "aggressive" or "stealth" (case-insensitive).
func ParseAgentKind(s string) (AgentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aggressive":
		return KindAggressive, nil
	case "stealth":
		return KindStealth, nil
	default:
		return 0, fmt.Errorf("unknown agent kind %q", s)
	}
}

// BehaviorState is the current state of an agent's state machine.
// An agent is in exactly one state, so Wander and Investigate can never
// hold at the same time.
type BehaviorState int32

const (
	// StateIdle - not moving on its own (aggressive agent with nothing to chase)
	StateIdle BehaviorState = iota
	// StateWander - roaming between random reachable points
	StateWander
	// StateInvestigate - walking toward the last heard sound
	StateInvestigate
	// StateChase - pursuing a seen target, or its last known position
	StateChase
)

// String returns human-readable state name
func (s BehaviorState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateWander:
		return "WANDER"
	case StateInvestigate:
		return "INVESTIGATE"
	case StateChase:
		return "CHASE"
	default:
		return "UNKNOWN"
	}
}
