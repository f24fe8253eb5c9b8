package domain

import "fmt"

// CompatibilityEntry is one row of the transfusion table
type CompatibilityEntry struct {
	Type           BloodType    `json:"type"`
	CanDonateTo    BloodTypeSet `json:"-"`
	CanReceiveFrom BloodTypeSet `json:"-"`
}

// antigen bits carried by red cells
const (
	antigenA uint8 = 1 << iota
	antigenB
	antigenD
)

func (bt BloodType) antigens() uint8 {
	var a uint8
	switch bt.Group() {
	case GroupA:
		a = antigenA
	case GroupB:
		a = antigenB
	case GroupAB:
		a = antigenA | antigenB
	}
	if bt.Rhesus() == RhesusPositive {
		a |= antigenD
	}
	return a
}

// A donor may give to a recipient when every antigen on the donor's cells
// is also present on the recipient's.
func canDonate(donor, recipient BloodType) bool {
	return donor.antigens()&^recipient.antigens() == 0
}

var (
	donateTo    [ONegative + 1]BloodTypeSet
	receiveFrom [ONegative + 1]BloodTypeSet
)

func init() {
	for _, d := range AllBloodTypes {
		for _, r := range AllBloodTypes {
			if canDonate(d, r) {
				donateTo[d] |= NewBloodTypeSet(r)
				receiveFrom[r] |= NewBloodTypeSet(d)
			}
		}
	}
}

func checkBloodType(bt BloodType) error {
	if !bt.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidBloodType, uint8(bt))
	}
	return nil
}

// CompatibleRecipients returns the blood types bt can donate to
func CompatibleRecipients(bt BloodType) (BloodTypeSet, error) {
	if err := checkBloodType(bt); err != nil {
		return 0, err
	}
	return donateTo[bt], nil
}

// CompatibleDonors returns the blood types that can donate to bt
func CompatibleDonors(bt BloodType) (BloodTypeSet, error) {
	if err := checkBloodType(bt); err != nil {
		return 0, err
	}
	return receiveFrom[bt], nil
}

// AreCompatible reports whether donor blood can be given to recipient
func AreCompatible(donor, recipient BloodType) (bool, error) {
	if err := checkBloodType(donor); err != nil {
		return false, err
	}
	donors, err := CompatibleDonors(recipient)
	if err != nil {
		return false, err
	}
	return donors.Contains(donor), nil
}

// Compatibility returns the full table row for bt
func Compatibility(bt BloodType) (CompatibilityEntry, error) {
	if err := checkBloodType(bt); err != nil {
		return CompatibilityEntry{}, err
	}
	return CompatibilityEntry{
		Type:           bt,
		CanDonateTo:    donateTo[bt],
		CanReceiveFrom: receiveFrom[bt],
	}, nil
}

// CompatibilityTable returns all eight rows in canonical order
func CompatibilityTable() []CompatibilityEntry {
	table := make([]CompatibilityEntry, 0, len(AllBloodTypes))
	for _, bt := range AllBloodTypes {
		entry, _ := Compatibility(bt)
		table = append(table, entry)
	}
	return table
}
