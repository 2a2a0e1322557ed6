// Package lifecycle is the appointment state machine. It is a pure
// decision engine: given the current appointment snapshot, a command and
// the acting user, it either returns the outcome to persist or a typed
// domain error. It never touches the database.
package lifecycle

import (
	"github.com/pateando/pateando-api/apperrors"
	"github.com/pateando/pateando-api/models"
)

// Command is a lifecycle operation on an appointment.
type Command string

const (
	Accept           Command = "accept"
	Reject           Command = "reject"
	Start            Command = "start"
	Finish           Command = "finish"
	Cancel           Command = "cancel"
	RequestEmergency Command = "emergency"
	ConfirmEmergency Command = "emergency/confirm"
)

// Snapshot is the slice of appointment state the engine decides on.
type Snapshot struct {
	Status          models.AppointmentStatus
	EmergencyActive bool
	ClientID        uint // user id of the client who booked the walk
	WalkerUserID    uint // user id behind the assigned walker profile
}

// Outcome describes the new appointment state plus the walker-side
// effects the caller must persist atomically with it.
type Outcome struct {
	Status          models.AppointmentStatus
	EmergencyActive bool
	// WalkerAvailability, when non-nil, is the availability the walker
	// row must be set to in the same transaction.
	WalkerAvailability *models.Availability
	// IncrementWalks asks for walker.totalWalks += 1.
	IncrementWalks bool
}

type actorKind int

const (
	actorClient actorKind = iota
	actorWalker
)

// rule is one row of the transition contract table.
type rule struct {
	actor             actorKind
	from              []models.AppointmentStatus
	requiresEmergency bool
	deniedMessage     string
	stateMessage      string
	apply             func(Snapshot) Outcome
}

var available = models.AvailabilityAvailable
var busy = models.AvailabilityBusy

// rules is the authoritative transition table.
var rules = map[Command]rule{
	Accept: {
		actor:         actorWalker,
		from:          []models.AppointmentStatus{models.StatusPending},
		deniedMessage: "you do not have permission to accept this appointment",
		stateMessage:  "this appointment is no longer pending",
		apply: func(s Snapshot) Outcome {
			return Outcome{Status: models.StatusAccepted, EmergencyActive: s.EmergencyActive}
		},
	},
	Reject: {
		actor:         actorWalker,
		from:          []models.AppointmentStatus{models.StatusPending},
		deniedMessage: "you do not have permission to reject this appointment",
		stateMessage:  "this appointment is no longer pending",
		apply: func(s Snapshot) Outcome {
			return Outcome{Status: models.StatusRejected, EmergencyActive: s.EmergencyActive}
		},
	},
	Start: {
		actor:         actorWalker,
		from:          []models.AppointmentStatus{models.StatusAccepted},
		deniedMessage: "you do not have permission to start this walk",
		stateMessage:  "this appointment must be accepted before starting",
		apply: func(s Snapshot) Outcome {
			return Outcome{
				Status:             models.StatusInProgress,
				EmergencyActive:    s.EmergencyActive,
				WalkerAvailability: &busy,
			}
		},
	},
	Finish: {
		actor:         actorWalker,
		from:          []models.AppointmentStatus{models.StatusInProgress},
		deniedMessage: "you do not have permission to finish this walk",
		stateMessage:  "this walk is not in progress",
		apply: func(s Snapshot) Outcome {
			return Outcome{
				Status:             models.StatusCompleted,
				EmergencyActive:    false,
				WalkerAvailability: &available,
				IncrementWalks:     true,
			}
		},
	},
	Cancel: {
		actor:         actorClient,
		from:          []models.AppointmentStatus{models.StatusPending, models.StatusAccepted},
		deniedMessage: "you do not have permission to cancel this appointment",
		stateMessage:  "only pending or accepted walks can be cancelled",
		apply: func(s Snapshot) Outcome {
			return Outcome{Status: models.StatusCancelled, EmergencyActive: s.EmergencyActive}
		},
	},
	RequestEmergency: {
		actor:         actorClient,
		from:          []models.AppointmentStatus{models.StatusInProgress},
		deniedMessage: "you do not have permission to request an emergency stop on this walk",
		stateMessage:  "emergency stops can only be requested while a walk is in progress",
		apply: func(s Snapshot) Outcome {
			return Outcome{Status: models.StatusInProgress, EmergencyActive: true}
		},
	},
	ConfirmEmergency: {
		actor:             actorWalker,
		from:              []models.AppointmentStatus{models.StatusInProgress},
		requiresEmergency: true,
		deniedMessage:     "you do not have permission to confirm this emergency",
		stateMessage:      "no active emergency stop to confirm on this walk",
		apply: func(s Snapshot) Outcome {
			return Outcome{
				Status:             models.StatusCompleted,
				EmergencyActive:    false,
				WalkerAvailability: &available,
			}
		},
	},
}

// Decide validates cmd against the transition table and returns the
// outcome to persist. Authorization is checked before state so a
// mis-addressed call never leaks whether the transition would have been
// legal.
func Decide(s Snapshot, cmd Command, actorID uint) (Outcome, error) {
	r, ok := rules[cmd]
	if !ok {
		return Outcome{}, apperrors.New(apperrors.Validation, "UNKNOWN_COMMAND", "unknown lifecycle command: "+string(cmd))
	}

	required := s.ClientID
	if r.actor == actorWalker {
		required = s.WalkerUserID
	}
	if actorID != required {
		return Outcome{}, apperrors.New(apperrors.Forbidden, "FORBIDDEN", r.deniedMessage)
	}

	if !statusIn(s.Status, r.from) || (r.requiresEmergency && !s.EmergencyActive) {
		return Outcome{}, apperrors.New(apperrors.InvalidState, "INVALID_STATE", r.stateMessage)
	}

	return r.apply(s), nil
}

// AllowedFrom returns the prior statuses from which cmd is legal.
func AllowedFrom(cmd Command) []models.AppointmentStatus {
	r, ok := rules[cmd]
	if !ok {
		return nil
	}
	out := make([]models.AppointmentStatus, len(r.from))
	copy(out, r.from)
	return out
}

// Commands lists every lifecycle command, for route registration.
func Commands() []Command {
	return []Command{Accept, Reject, Start, Finish, Cancel, RequestEmergency, ConfirmEmergency}
}

func statusIn(status models.AppointmentStatus, set []models.AppointmentStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
