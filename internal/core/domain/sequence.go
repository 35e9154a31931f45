package domain

// CodeScope is a countable set of rows used to derive human-readable codes.
type CodeScope string

const (
	ScopeParties  CodeScope = "parties"
	ScopeItems    CodeScope = "items"
	ScopeVouchers CodeScope = "vouchers"
	ScopeTrips    CodeScope = "trips"
)

const (
	PartyCodePrefix = "P"
	ItemCodePrefix  = "I"
	TripCodePrefix  = "TRP"
)

func (s CodeScope) IsValid() bool {
	switch s {
	case ScopeParties, ScopeItems, ScopeVouchers, ScopeTrips:
		return true
	}
	return false
}
