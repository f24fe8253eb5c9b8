package domain

import (
	"fmt"
	"math"
	"time"
)

// DonorStatus is the stored lifecycle state of a donor profile
type DonorStatus string

const (
	StatusPendingVerification DonorStatus = "pending_verification"
	StatusActive              DonorStatus = "active"
	StatusUnavailable         DonorStatus = "unavailable"
)

// DonorStatuses lists every status
var DonorStatuses = []DonorStatus{StatusActive, StatusUnavailable, StatusPendingVerification}

// ParseDonorStatus validates a raw status string
func ParseDonorStatus(s string) (DonorStatus, error) {
	st := DonorStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Valid reports whether s is a known status
func (s DonorStatus) Valid() bool {
	switch s {
	case StatusPendingVerification, StatusActive, StatusUnavailable:
		return true
	}
	return false
}

// Label returns the display label shown to users
func (s DonorStatus) Label() string {
	switch s {
	case StatusActive:
		return "Aktif"
	case StatusUnavailable:
		return "Tidak Tersedia"
	case StatusPendingVerification:
		return "Menunggu Verifikasi"
	}
	return string(s)
}

// DonorEvent is something that happened to a donor profile
type DonorEvent string

const (
	EventVerificationApproved DonorEvent = "verification_approved"
	EventVerificationRejected DonorEvent = "verification_rejected"
	EventDonated              DonorEvent = "donated"
	EventDeactivated          DonorEvent = "deactivated"
	EventReactivated          DonorEvent = "reactivated"
)

// Valid reports whether e is a known event
func (e DonorEvent) Valid() bool {
	switch e {
	case EventVerificationApproved, EventVerificationRejected, EventDonated, EventDeactivated, EventReactivated:
		return true
	}
	return false
}

type transitionKey struct {
	from  DonorStatus
	event DonorEvent
}

type transitionRule struct {
	to               DonorStatus
	setsLastDonation bool
}

// Reactivation deliberately ignores the cooldown window.
var transitions = map[transitionKey]transitionRule{
	{StatusPendingVerification, EventVerificationApproved}: {to: StatusActive},
	{StatusPendingVerification, EventVerificationRejected}: {to: StatusPendingVerification},
	{StatusActive, EventDonated}:                           {to: StatusUnavailable, setsLastDonation: true},
	{StatusActive, EventDeactivated}:                       {to: StatusUnavailable, setsLastDonation: true},
	{StatusUnavailable, EventReactivated}:                  {to: StatusActive},
}

// TransitionResult is the outcome of applying an event
type TransitionResult struct {
	From  DonorStatus
	To    DonorStatus
	Event DonorEvent
	// LastDonationAt is non-nil only when the transition sets it
	LastDonationAt *time.Time
}

// NextStatus returns the status reached from current on event
func NextStatus(current DonorStatus, event DonorEvent) (DonorStatus, error) {
	rule, err := lookupTransition(current, event)
	if err != nil {
		return "", err
	}
	return rule.to, nil
}

// Transition applies event at the given instant and reports the derived fields
func Transition(current DonorStatus, event DonorEvent, at time.Time) (TransitionResult, error) {
	rule, err := lookupTransition(current, event)
	if err != nil {
		return TransitionResult{}, err
	}

	res := TransitionResult{From: current, To: rule.to, Event: event}
	if rule.setsLastDonation {
		t := at
		res.LastDonationAt = &t
	}
	return res, nil
}

// AllowedEvents lists the events accepted in the given status
func AllowedEvents(current DonorStatus) []DonorEvent {
	var out []DonorEvent
	for _, e := range []DonorEvent{EventVerificationApproved, EventVerificationRejected, EventDonated, EventDeactivated, EventReactivated} {
		if _, ok := transitions[transitionKey{current, e}]; ok {
			out = append(out, e)
		}
	}
	return out
}

func lookupTransition(current DonorStatus, event DonorEvent) (transitionRule, error) {
	if !current.Valid() {
		return transitionRule{}, fmt.Errorf("%w: %q", ErrInvalidStatus, current)
	}
	if !event.Valid() {
		return transitionRule{}, fmt.Errorf("%w: %q", ErrInvalidEvent, event)
	}
	rule, ok := transitions[transitionKey{current, event}]
	if !ok {
		return transitionRule{}, &TransitionError{From: current, Event: event}
	}
	return rule, nil
}

// CooldownDays is the minimum number of days between two donations
const CooldownDays = 100

// Cooldown is CooldownDays as a duration
const Cooldown = CooldownDays * 24 * time.Hour

// NeverDonated is returned by DaysSinceLastDonation when there is no prior donation.
// It satisfies every cooldown comparison.
const NeverDonated = math.MaxInt

// DaysSinceLastDonation returns whole elapsed days, rounded up.
// A timestamp in the future counts as 0 days.
func DaysSinceLastDonation(last *time.Time, now time.Time) int {
	if last == nil {
		return NeverDonated
	}
	elapsed := now.Sub(*last)
	if elapsed <= 0 {
		return 0
	}
	day := 24 * time.Hour
	days := elapsed / day
	if elapsed%day != 0 {
		days++
	}
	return int(days)
}

// AvailableFrom returns the first instant the donor may donate again, or nil
func AvailableFrom(last *time.Time) *time.Time {
	if last == nil {
		return nil
	}
	t := last.Add(Cooldown)
	return &t
}

// IsAvailable reports whether a donor can be asked to donate now.
// Status gates first; the cooldown only applies to active donors and
// requires a full Cooldown of elapsed time.
func IsAvailable(status DonorStatus, last *time.Time, now time.Time) bool {
	if status != StatusActive {
		return false
	}
	from := AvailableFrom(last)
	if from == nil {
		return true
	}
	return !now.Before(*from)
}
