package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rdcalc/internal/chain"
	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// BuildBooking turns sorted source data into a Booking: typed sentences in
// sentencing order and the consecutive chains they form. Sentences that
// cannot take part in a chain always start their own.
func BuildBooking(src domain.SourceData, logger Logger) (*domain.Booking, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	sorted := src.Sorted()

	sentences := make([]domain.Sentence, 0, len(sorted.Sentences))
	for _, rec := range sorted.Sentences {
		s, err := rec.ToSentence()
		if err != nil {
			return nil, fmt.Errorf("failed to build booking %s: %w", src.BookingID, err)
		}
		sentences = append(sentences, s)
	}

	chains := chain.Build(sentences, sentenceKey, predecessorKey)
	for _, orphan := range chain.Unreached(sentences, chains, sentenceKey) {
		logger.Warnf("sentence %s runs consecutively to %s which starts no chain; it is left out of the calculation",
			orphan.Core().ID, orphan.Core().ConsecutiveTo)
	}

	logger.Debugf("booking %s: %d sentences in %d chains", src.BookingID, len(sentences), len(chains))
	return &domain.Booking{
		BookingID:   sorted.BookingID,
		PersonID:    sorted.PersonID,
		Sentences:   sentences,
		Chains:      chains,
		Adjustments: sorted.Adjustments,
	}, nil
}

func sentenceKey(s domain.Sentence) string {
	return s.Core().ID
}

func predecessorKey(s domain.Sentence) (string, bool) {
	if !s.ChainEligible() {
		return "", false
	}
	id := s.Core().ConsecutiveTo
	return id, id != ""
}
