package domain

import "github.com/shopspring/decimal"

// District is a Sri Lankan administrative district used for delivery-charge
// resolution. The set is fixed; the backend only overrides charges.
type District string

// districts lists all 25 administrative districts.
var districts = []District{
	"Ampara", "Anuradhapura", "Badulla", "Batticaloa", "Colombo",
	"Galle", "Gampaha", "Hambantota", "Jaffna", "Kalutara",
	"Kandy", "Kegalle", "Kilinochchi", "Kurunegala", "Mannar",
	"Matale", "Matara", "Monaragala", "Mullaitivu", "Nuwara Eliya",
	"Polonnaruwa", "Puttalam", "Ratnapura", "Trincomalee", "Vavuniya",
}

// Districts returns the fixed district set in display order.
func Districts() []District {
	out := make([]District, len(districts))
	copy(out, districts)
	return out
}

// IsValidDistrict reports whether d is a member of the fixed district set.
func IsValidDistrict(d District) bool {
	for _, known := range districts {
		if known == d {
			return true
		}
	}
	return false
}

// DeliveryCharge is one district's charge as returned by the backend.
type DeliveryCharge struct {
	District District        `json:"district"`
	Charge   decimal.Decimal `json:"charge"`
}

// ChargeTable maps districts to delivery charges. Districts without an
// explicit entry, and the empty "no district chosen yet" value, resolve to
// the default charge.
type ChargeTable struct {
	charges       map[District]decimal.Decimal
	defaultCharge decimal.Decimal
}

// NewChargeTable creates a table from the given entries with the given
// default charge. Entries for districts outside the fixed set are ignored.
func NewChargeTable(defaultCharge decimal.Decimal, entries []DeliveryCharge) *ChargeTable {
	t := &ChargeTable{
		charges:       make(map[District]decimal.Decimal, len(districts)),
		defaultCharge: defaultCharge,
	}
	for _, e := range entries {
		if IsValidDistrict(e.District) {
			t.charges[e.District] = e.Charge
		}
	}
	return t
}

// DefaultChargeTable creates a table where every district in the fixed set
// carries the default charge, used when the backend is empty or unreachable.
func DefaultChargeTable(defaultCharge decimal.Decimal) *ChargeTable {
	entries := make([]DeliveryCharge, len(districts))
	for i, d := range districts {
		entries[i] = DeliveryCharge{District: d, Charge: defaultCharge}
	}
	return NewChargeTable(defaultCharge, entries)
}

// Resolve returns the delivery charge for the given district, falling back
// to the default charge when the district is unset or has no entry.
func (t *ChargeTable) Resolve(d District) decimal.Decimal {
	if charge, ok := t.charges[d]; ok {
		return charge
	}
	return t.defaultCharge
}

// DefaultCharge returns the fallback charge.
func (t *ChargeTable) DefaultCharge() decimal.Decimal {
	return t.defaultCharge
}

// Entries returns the table as a list in the fixed district order, with
// the default charge filled in for districts without an explicit entry.
func (t *ChargeTable) Entries() []DeliveryCharge {
	out := make([]DeliveryCharge, len(districts))
	for i, d := range districts {
		out[i] = DeliveryCharge{District: d, Charge: t.Resolve(d)}
	}
	return out
}
