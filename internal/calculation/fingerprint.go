package calculation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
	"github.com/rgehrsitz/rdcalc/internal/domain"
)

type fingerprintSentence struct {
	Kind     domain.SentenceKind `json:"kind"`
	Sentence domain.Sentence     `json:"sentence"`
}

// Fingerprint is a SHA-256 over the canonical JSON (RFC 8785) of the booking
// and user inputs. Equal inputs give equal fingerprints regardless of map
// ordering, so results can be matched to the request that produced them.
func Fingerprint(booking *domain.Booking, inputs domain.UserInputs) (string, error) {
	sentences := make([]fingerprintSentence, 0, len(booking.Sentences))
	for _, s := range booking.Sentences {
		sentences = append(sentences, fingerprintSentence{Kind: s.Kind(), Sentence: s})
	}

	raw, err := json.Marshal(struct {
		BookingID   string                `json:"booking_id"`
		PersonID    string                `json:"person_id"`
		Sentences   []fingerprintSentence `json:"sentences"`
		Adjustments []domain.Adjustment   `json:"adjustments"`
		Inputs      domain.UserInputs     `json:"inputs"`
	}{booking.BookingID, booking.PersonID, sentences, booking.Adjustments, inputs})
	if err != nil {
		return "", fmt.Errorf("failed to encode calculation input: %w", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalise calculation input: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
