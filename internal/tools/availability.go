package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const dateLayout = "2006-01-02"

// checkAvailability lists active properties free of confirmed bookings for
// the requested range. Two bounded reads: the active-property list and the
// overlapping-booking set.
func (r *Registry) checkAvailability(ctx context.Context, args gjson.Result, lang Language) (string, error) {
	checkIn, checkOut, ok := parseStayRange(args.Get("check_in").String(), args.Get("check_out").String())
	if !ok {
		if lang == LangEN {
			return "Please provide valid dates in YYYY-MM-DD format, with check-out after check-in.", nil
		}
		return "Va rugam sa oferiti date valide in format AAAA-LL-ZZ, cu check-out dupa check-in.", nil
	}
	guests := clampInt(int(args.Get("guests").Int()), 2, 1, 16)

	props, err := r.db.ActiveProperties(ctx)
	if err != nil {
		return "", fmt.Errorf("load properties: %w", err)
	}
	booked, err := r.db.BookedPropertyIDs(ctx, checkIn, checkOut)
	if err != nil {
		return "", fmt.Errorf("load bookings: %w", err)
	}

	nights := nightsBetween(checkIn, checkOut)
	var free []string
	for _, p := range props {
		if booked[p.ID] || p.MaxGuests < guests {
			continue
		}
		total := p.NightlyRateEUR * float64(nights)
		free = append(free, fmt.Sprintf("- %s (%d %s, %.0f EUR/%s, total %.0f EUR)",
			p.Name, p.MaxGuests,
			word(lang, "persoane", "guests"),
			p.NightlyRateEUR,
			word(lang, "noapte", "night"),
			total))
	}

	if len(free) == 0 {
		if lang == LangEN {
			return fmt.Sprintf("Unfortunately no property is available between %s and %s for %d guests.", checkIn, checkOut, guests), nil
		}
		return fmt.Sprintf("Din pacate nu avem nicio proprietate disponibila intre %s si %s pentru %d persoane.", checkIn, checkOut, guests), nil
	}

	header := fmt.Sprintf("Proprietati disponibile intre %s si %s (%d %s):", checkIn, checkOut, nights, word(lang, "nopti", "nights"))
	if lang == LangEN {
		header = fmt.Sprintf("Available properties between %s and %s (%d nights):", checkIn, checkOut, nights)
	}
	return header + "\n" + strings.Join(free, "\n"), nil
}

// parseStayRange validates the pair of ISO dates. Returns ok=false rather
// than an error so the caller can answer the guest instead of failing the
// stream.
func parseStayRange(in, out string) (string, string, bool) {
	tin, err := time.Parse(dateLayout, in)
	if err != nil {
		return "", "", false
	}
	tout, err := time.Parse(dateLayout, out)
	if err != nil {
		return "", "", false
	}
	if !tout.After(tin) {
		return "", "", false
	}
	return tin.Format(dateLayout), tout.Format(dateLayout), true
}

func nightsBetween(in, out string) int {
	tin, _ := time.Parse(dateLayout, in)
	tout, _ := time.Parse(dateLayout, out)
	return int(tout.Sub(tin) / (24 * time.Hour))
}

func word(lang Language, ro, en string) string {
	if lang == LangEN {
		return en
	}
	return ro
}
