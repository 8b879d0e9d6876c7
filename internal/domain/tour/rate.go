package tour

// Rate is a price-table row for one tour option, used as a pricing fallback
// when a booking carries no price fields of its own.
type Rate struct {
	ID                   string
	TourID               string
	SharedPricePerPerson float64
	PrivatePrice         float64
	Active               bool
}

// findRate returns the first active rate for the tour option, or false when
// none exists.
func findRate(rates []Rate, tourOptionID string) (Rate, bool) {
	if tourOptionID == "" {
		return Rate{}, false
	}
	for _, r := range rates {
		if r.TourID == tourOptionID && r.Active {
			return r, true
		}
	}
	return Rate{}, false
}
