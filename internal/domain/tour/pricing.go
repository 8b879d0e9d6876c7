package tour

// Fallback prices applied when neither the booking nor the rate table can
// produce a figure. Reports must always have a number to sum.
const (
	FallbackPrivatePrice         float64 = 350
	FallbackSharedPricePerPerson float64 = 60
)

// PriceSource tags which rung of the resolution ladder produced a total.
type PriceSource string

const (
	PriceFromFreeOverride  PriceSource = "FREE_OVERRIDE"
	PriceFromStoredTotal   PriceSource = "STORED_TOTAL"
	PriceFromBookingFields PriceSource = "BOOKING_FIELDS"
	PriceFromRateTable     PriceSource = "RATE_TABLE"
	PriceFromDefault       PriceSource = "DEFAULT"
)

// PriceQuote is a resolved total together with its provenance.
type PriceQuote struct {
	Total  float64     `json:"total"`
	Source PriceSource `json:"source"`
}

// ResolvePrice computes a booking's monetary total using the layered
// fallback policy: free override, stored total, per-type booking fields,
// rate-table lookup, hardcoded defaults. Each rung degrades to the next
// rather than erroring, so the result is always a usable number.
func ResolvePrice(b Booking, rates []Rate) PriceQuote {
	if b.PricingMode == PricingFree {
		return PriceQuote{Total: b.CustomPrice, Source: PriceFromFreeOverride}
	}

	if b.TotalPrice != nil {
		return PriceQuote{Total: *b.TotalPrice, Source: PriceFromStoredTotal}
	}

	if b.RateType == RatePrivate {
		if b.PrivatePrice != 0 {
			return PriceQuote{Total: b.PrivatePrice, Source: PriceFromBookingFields}
		}
	} else if b.PricePerPerson != 0 {
		return PriceQuote{Total: b.PricePerPerson * float64(b.Seats), Source: PriceFromBookingFields}
	}

	if rate, ok := findRate(rates, b.TourOptionID); ok {
		if b.RateType == RatePrivate {
			price := rate.PrivatePrice
			if price == 0 {
				price = FallbackPrivatePrice
			}
			return PriceQuote{Total: price, Source: PriceFromRateTable}
		}
		pp := rate.SharedPricePerPerson
		if pp == 0 {
			pp = FallbackSharedPricePerPerson
		}
		return PriceQuote{Total: pp * float64(b.Seats), Source: PriceFromRateTable}
	}

	if b.RateType == RatePrivate {
		return PriceQuote{Total: FallbackPrivatePrice, Source: PriceFromDefault}
	}
	return PriceQuote{Total: FallbackSharedPricePerPerson * float64(b.Seats), Source: PriceFromDefault}
}

// CalculateTotal is the plain-number form of ResolvePrice.
func CalculateTotal(b Booking, rates []Rate) float64 {
	return ResolvePrice(b, rates).Total
}
