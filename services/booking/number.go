package booking

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	bookingRepo "reserva/database/repository/booking"
)

// defaultNumberPrefix is used when no initials can be derived from the
// provider's business name.
const defaultNumberPrefix = "BK"

// NumberGenerator produces human-readable booking numbers in the format
// <prefix>-<YYYYMMDD>-<seq>, e.g. "GS-20260314-007". The sequence comes
// from an atomic per-provider, per-day counter, so concurrent generations
// never collide.
type NumberGenerator struct {
	Repo bookingRepo.BookingRepository
}

// Generate builds the next booking number for the provider on the date
// ("YYYY-MM-DD").
func (g *NumberGenerator) Generate(ctx context.Context, providerID, businessName, date string) (string, error) {
	seq, err := g.Repo.NextDaySequence(ctx, providerID, date)
	if err != nil {
		return "", fmt.Errorf("failed to obtain booking sequence: %w", err)
	}
	compact := strings.ReplaceAll(date, "-", "")
	return fmt.Sprintf("%s-%s-%03d", numberPrefix(businessName), compact, seq), nil
}

// numberPrefix derives a two-letter prefix from the business name: the
// initials of the first two words, or the first two letters of a one-word
// name. Names without usable letters fall back to the default.
func numberPrefix(businessName string) string {
	var letters []rune
	for _, word := range strings.Fields(businessName) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				letters = append(letters, unicode.ToUpper(r))
				break
			}
		}
		if len(letters) == 2 {
			break
		}
	}
	if len(letters) < 2 {
		// One usable word: take its first two letters.
		for _, word := range strings.Fields(businessName) {
			letters = letters[:0]
			for _, r := range word {
				if unicode.IsLetter(r) {
					letters = append(letters, unicode.ToUpper(r))
				}
				if len(letters) == 2 {
					break
				}
			}
			if len(letters) == 2 {
				break
			}
		}
	}
	if len(letters) < 2 {
		return defaultNumberPrefix
	}
	return string(letters)
}
