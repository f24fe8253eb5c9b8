package domain

import (
	"fmt"
	"strings"
)

// ABOGroup represents the ABO blood group
type ABOGroup string

const (
	GroupA  ABOGroup = "A"
	GroupB  ABOGroup = "B"
	GroupAB ABOGroup = "AB"
	GroupO  ABOGroup = "O"
)

// Rhesus represents the Rhesus factor as stored ("Rh+" / "Rh-")
type Rhesus string

const (
	RhesusPositive Rhesus = "Rh+"
	RhesusNegative Rhesus = "Rh-"
)

// ABOGroups lists every valid group
var ABOGroups = []ABOGroup{GroupA, GroupB, GroupAB, GroupO}

// RhesusFactors lists every valid rhesus factor
var RhesusFactors = []Rhesus{RhesusPositive, RhesusNegative}

// ParseABOGroup parses a group name, case-insensitive
func ParseABOGroup(s string) (ABOGroup, error) {
	g := ABOGroup(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GroupA, GroupB, GroupAB, GroupO:
		return g, nil
	}
	return "", fmt.Errorf("%w: unknown ABO group %q", ErrInvalidBloodType, s)
}

// ParseRhesus accepts "Rh+", "Rh-", "+", "-", "pos" and "neg"
func ParseRhesus(s string) (Rhesus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rh+", "+", "pos", "positive":
		return RhesusPositive, nil
	case "rh-", "-", "neg", "negative":
		return RhesusNegative, nil
	}
	return "", fmt.Errorf("%w: unknown rhesus %q", ErrInvalidBloodType, s)
}

// Sign returns "+" or "-"
func (r Rhesus) Sign() string {
	if r == RhesusPositive {
		return "+"
	}
	return "-"
}

// BloodType is a full blood type: ABO group plus Rhesus factor.
// The zero value is not a valid blood type.
type BloodType uint8

const (
	BloodTypeUnknown BloodType = iota
	APositive
	ANegative
	BPositive
	BNegative
	ABPositive
	ABNegative
	OPositive
	ONegative
)

// AllBloodTypes lists the eight blood types in canonical order
var AllBloodTypes = []BloodType{
	APositive, ANegative,
	BPositive, BNegative,
	ABPositive, ABNegative,
	OPositive, ONegative,
}

var bloodTypeNames = [...]string{
	BloodTypeUnknown: "",
	APositive:        "A+",
	ANegative:        "A-",
	BPositive:        "B+",
	BNegative:        "B-",
	ABPositive:       "AB+",
	ABNegative:       "AB-",
	OPositive:        "O+",
	ONegative:        "O-",
}

// NewBloodType combines a group and rhesus factor
func NewBloodType(group ABOGroup, rhesus Rhesus) (BloodType, error) {
	var bt BloodType
	switch group {
	case GroupA:
		bt = APositive
	case GroupB:
		bt = BPositive
	case GroupAB:
		bt = ABPositive
	case GroupO:
		bt = OPositive
	default:
		return BloodTypeUnknown, fmt.Errorf("%w: unknown ABO group %q", ErrInvalidBloodType, group)
	}

	switch rhesus {
	case RhesusPositive:
		return bt, nil
	case RhesusNegative:
		// negative variants directly follow their positive counterpart
		return bt + 1, nil
	}
	return BloodTypeUnknown, fmt.Errorf("%w: unknown rhesus %q", ErrInvalidBloodType, rhesus)
}

// ParseBloodType parses forms like "AB-", "o+" or "A Rh+"
func ParseBloodType(s string) (BloodType, error) {
	v := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	v = strings.Replace(v, "RH", "", 1)
	if len(v) < 2 {
		return BloodTypeUnknown, fmt.Errorf("%w: %q", ErrInvalidBloodType, s)
	}

	group, err := ParseABOGroup(v[:len(v)-1])
	if err != nil {
		return BloodTypeUnknown, fmt.Errorf("%w: %q", ErrInvalidBloodType, s)
	}
	rhesus, err := ParseRhesus(v[len(v)-1:])
	if err != nil {
		return BloodTypeUnknown, fmt.Errorf("%w: %q", ErrInvalidBloodType, s)
	}
	return NewBloodType(group, rhesus)
}

// Valid reports whether bt is one of the eight blood types
func (bt BloodType) Valid() bool {
	return bt >= APositive && bt <= ONegative
}

// Group returns the ABO group, or "" for an invalid value
func (bt BloodType) Group() ABOGroup {
	switch bt {
	case APositive, ANegative:
		return GroupA
	case BPositive, BNegative:
		return GroupB
	case ABPositive, ABNegative:
		return GroupAB
	case OPositive, ONegative:
		return GroupO
	}
	return ""
}

// Rhesus returns the rhesus factor, or "" for an invalid value
func (bt BloodType) Rhesus() Rhesus {
	if !bt.Valid() {
		return ""
	}
	if (bt-APositive)%2 == 0 {
		return RhesusPositive
	}
	return RhesusNegative
}

func (bt BloodType) String() string {
	if !bt.Valid() {
		return fmt.Sprintf("BloodType(%d)", uint8(bt))
	}
	return bloodTypeNames[bt]
}

// MarshalText encodes the blood type as "A+", "O-", ...
func (bt BloodType) MarshalText() ([]byte, error) {
	if !bt.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBloodType, uint8(bt))
	}
	return []byte(bloodTypeNames[bt]), nil
}

// UnmarshalText decodes "A+", "O-", ...
func (bt *BloodType) UnmarshalText(text []byte) error {
	v, err := ParseBloodType(string(text))
	if err != nil {
		return err
	}
	*bt = v
	return nil
}

// BloodTypeSet is an immutable set of blood types
type BloodTypeSet uint16

// NewBloodTypeSet builds a set; invalid members are ignored
func NewBloodTypeSet(types ...BloodType) BloodTypeSet {
	var s BloodTypeSet
	for _, bt := range types {
		if bt.Valid() {
			s |= 1 << bt
		}
	}
	return s
}

// Contains reports membership
func (s BloodTypeSet) Contains(bt BloodType) bool {
	return bt.Valid() && s&(1<<bt) != 0
}

// Len returns the number of members
func (s BloodTypeSet) Len() int {
	n := 0
	for _, bt := range AllBloodTypes {
		if s.Contains(bt) {
			n++
		}
	}
	return n
}

// Slice returns the members in canonical order
func (s BloodTypeSet) Slice() []BloodType {
	out := make([]BloodType, 0, 8)
	for _, bt := range AllBloodTypes {
		if s.Contains(bt) {
			out = append(out, bt)
		}
	}
	return out
}

// Strings returns the members as strings in canonical order
func (s BloodTypeSet) Strings() []string {
	members := s.Slice()
	out := make([]string, len(members))
	for i, bt := range members {
		out[i] = bt.String()
	}
	return out
}

func (s BloodTypeSet) String() string {
	return "{" + strings.Join(s.Strings(), ", ") + "}"
}
