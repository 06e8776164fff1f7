package calculation

import (
	"errors"
	"time"

	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/tranche"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// DTO orders shorter than this have no transfer window.
const dtoWindowMinimumMonths = 8

// dtoLongWindowFromMonths is the order length from which the long window
// applies.
const dtoLongWindowFromMonths = 18

// link is one sentence of a calculation unit with what the resolvers said
// about it.
type link struct {
	sentence   domain.Sentence
	annotation domain.Annotation
}

// applyMultiplier is ceil(days × multiplier). The product is rounded to 8
// places first so a recurring fraction such as 2/3 does not push an exact
// result up a day.
func applyMultiplier(days int, multiplier decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(days)).Mul(multiplier).Round(8).Ceil().IntPart())
}

// earlyRelease resolves the early release tranche of every SDS standard
// release link. The unit is assessed as a whole: the target is its combined
// release at the standard multipliers and the tranche length ceiling is
// checked against its combined expiry.
func (e *Engine) earlyRelease(links []link) error {
	start := links[0].sentence.Core().SentencedAt
	anchor := start
	standardDays := 0
	for _, l := range links {
		days := l.sentence.Core().Duration.DaysFrom(anchor)
		standardDays += applyMultiplier(days, l.annotation.Multiplier)
		anchor = dateutil.AddDays(anchor, days)
	}
	w := tranche.Window{Start: start, Expiry: anchor, Target: dateutil.AddDays(start, standardDays-1)}

	for i := range links {
		l := &links[i]
		if l.annotation.Track != domain.TrackSDSStandardRelease {
			continue
		}
		applied, err := e.Tranches.Resolve(l.sentence, l.annotation, w)
		if err != nil {
			return err
		}
		if !applied.IsTrancheZero() {
			e.Logger.Debugf("sentence %s: early release %s tranche %s at %s",
				l.annotation.SentenceID, applied.Configuration, applied.Tranche.Label(), applied.Multiplier)
		}
		l.annotation = l.annotation.WithTranche(applied)
	}
	return nil
}

// unitDates collects dates and the rules behind each of them.
type unitDates struct {
	dates map[domain.ReleaseDateType]time.Time
	rules map[domain.ReleaseDateType][]domain.CalculationRule
	base  []domain.CalculationRule
}

func newUnitDates(base []domain.CalculationRule) *unitDates {
	return &unitDates{
		dates: make(map[domain.ReleaseDateType]time.Time),
		rules: make(map[domain.ReleaseDateType][]domain.CalculationRule),
		base:  base,
	}
}

func (u *unitDates) set(t domain.ReleaseDateType, d time.Time, rules ...domain.CalculationRule) {
	u.dates[t] = d
	u.rules[t] = append(append([]domain.CalculationRule(nil), u.base...), rules...)
}

func (u *unitDates) addRule(t domain.ReleaseDateType, r domain.CalculationRule) {
	if _, ok := u.dates[t]; ok {
		u.rules[t] = append(u.rules[t], r)
	}
}

// calculateUnit computes the dates of one unit. Each link contributes its
// own custodial days and release days once, served back to back from the
// first link's sentencing date; the unit's adjustments are then applied to
// the combined dates.
func (e *Engine) calculateUnit(links []link, adjustments []domain.Adjustment, inputs domain.UserInputs) (domain.SentenceCalculation, error) {
	rules := e.Catalogue.ReleaseRules
	start := links[0].sentence.Core().SentencedAt

	var (
		ids                                     []string
		tracks                                  []domain.IdentificationTrack
		custodialDays, releaseDays, pedDays     int
		extraDays                               int
		hasPED, licence, releaseOnCRD           bool
		allSDSStandard, allSDS, ersed, afterORA = true, true, true, true
		trancheDate                             time.Time
	)

	anchor := start
	for _, l := range links {
		core := l.sentence.Core()
		track := l.annotation.Track
		ids = append(ids, core.ID)
		tracks = appendTrack(tracks, track)

		days := core.Duration.DaysFrom(anchor)
		custodialDays += days
		releaseDays += applyMultiplier(days, l.annotation.Multiplier)
		if m, ok := track.PEDMultiplier(); ok {
			hasPED = true
			pedDays += applyMultiplier(days, m)
		} else {
			pedDays += applyMultiplier(days, l.annotation.Multiplier)
		}
		extraDays += l.sentence.TotalDuration().DaysFrom(anchor) - days
		anchor = dateutil.AddDays(anchor, days)

		licence = licence || track.HasLicence()
		releaseOnCRD = releaseOnCRD || track.ReleaseDateType() == domain.CRD
		allSDSStandard = allSDSStandard && track == domain.TrackSDSStandardRelease
		allSDS = allSDS && (track == domain.TrackSDSStandardRelease || track == domain.TrackSDSPlusRelease)
		ersed = ersed && track.CalculateErsed()

		committed := core.Offence.CommittedAt
		if committed.IsZero() {
			committed = core.SentencedAt
		}
		afterORA = afterORA && dateutil.IsAfterOrEqual(committed, e.Catalogue.Commencement.ORA)

		if !l.annotation.EarlyRelease.IsTrancheZero() {
			trancheDate = dateutil.Latest(trancheDate, l.annotation.EarlyRelease.Tranche.Date)
		}
	}

	if custodialDays <= 0 {
		return domain.SentenceCalculation{}, errors.New("custodial term has no length")
	}

	releaseType := links[len(links)-1].annotation.Track.ReleaseDateType()
	if releaseOnCRD {
		releaseType = domain.CRD
	}

	base := make([]domain.CalculationRule, 0, len(tracks)+1)
	if len(links) > 1 {
		base = append(base, domain.RuleConsecutiveChain)
	}
	for _, t := range tracks {
		base = append(base, t.Rule())
	}

	unadjusted := newUnitDates(base)

	// release point
	release := dateutil.AddDays(start, releaseDays-1)
	var releaseRules []domain.CalculationRule
	if !trancheDate.IsZero() {
		releaseRules = append(releaseRules, domain.RuleEarlyReleaseTranche)
	}
	unadjusted.set(releaseType, clampToTranche(release, trancheDate), releaseRules...)

	// expiry
	expiry := dateutil.AddDays(start, custodialDays+extraDays)
	switch {
	case licence:
		unadjusted.set(domain.SLED, expiry)
	case releaseType != domain.Tariff:
		unadjusted.set(domain.SED, expiry)
	}

	if hasPED {
		unadjusted.set(domain.PED, dateutil.AddDays(start, pedDays-1))
	}

	if releaseType == domain.MTD {
		custodialEnd := dateutil.AddDays(start, custodialDays)
		window, rule := 0, domain.CalculationRule("")
		switch {
		case !custodialEnd.Before(dateutil.AddPeriod(start, 0, dtoLongWindowFromMonths, 0)):
			window, rule = rules.DTOLongWindowMonths, domain.RuleDTOLongTransferWindow
		case !custodialEnd.Before(dateutil.AddPeriod(start, 0, dtoWindowMinimumMonths, 0)):
			window, rule = rules.DTOShortWindowMonths, domain.RuleDTOShortTransferWindow
		}
		if window > 0 {
			unadjusted.set(domain.ETD, dateutil.AddPeriod(release, 0, -window, 0), rule)
			unadjusted.set(domain.LTD, dateutil.AddPeriod(release, 0, window, 0), rule)
		}
	}

	if allSDSStandard {
		if d, rule, ok := e.hdced(start, custodialDays, release); ok {
			unadjusted.set(domain.HDCED, d, rule)
		}
	}

	if inputs.CalculateErsed && ersed {
		point, days := release, releaseDays
		if hasPED {
			point, days = unadjusted.dates[domain.PED], pedDays
		}
		if d, rule, ok := e.ersed(start, days, point); ok {
			unadjusted.set(domain.ERSED, d, rule)
		}
	}

	totals := totalAdjustments(adjustments, ids)
	adjusted := newUnitDates(base)
	for t, d := range unadjusted.dates {
		moved := dateutil.AddDays(d, totals.ExpiryDays())
		if t.IsReleasePoint() {
			moved = dateutil.AddDays(d, totals.ReleaseDays())
		}
		adjusted.dates[t] = moved
		adjusted.rules[t] = append([]domain.CalculationRule(nil), unadjusted.rules[t]...)
		if totals.Deductions() > 0 {
			adjusted.addRule(t, domain.RuleDeductionsApplied)
		}
		if (t.IsReleasePoint() && totals.NonDeductionDays() != 0) || (!t.IsReleasePoint() && totals.UnlawfullyAtLarge != 0) {
			adjusted.addRule(t, domain.RuleAdditionsApplied)
		}
	}

	// The tranche commencement bounds the release after adjustment too.
	if !trancheDate.IsZero() {
		moved := dateutil.AddDays(release, totals.ReleaseDays())
		adjusted.dates[releaseType] = clampToTranche(moved, trancheDate)
		if moved.Before(trancheDate) {
			adjusted.addRule(releaseType, domain.RuleTrancheCommencement)
		}
		if release.Before(trancheDate) {
			unadjusted.addRule(releaseType, domain.RuleTrancheCommencement)
		}
	}

	if licence && allSDS && afterORA && custodialDays > 1 && custodialDays < rules.TUSEDMaximumSentenceDays {
		for _, u := range []*unitDates{unadjusted, adjusted} {
			tused := dateutil.AddPeriod(u.dates[releaseType], 0, rules.TUSEDMonths, 0)
			if tused.After(u.dates[domain.SLED]) {
				u.set(domain.TUSED, tused, domain.RuleTopUpSupervision)
			}
		}
	}

	return domain.SentenceCalculation{
		SentenceIDs:     ids,
		Tracks:          tracks,
		SentencedAt:     start,
		SentenceDays:    custodialDays + extraDays,
		CustodialDays:   custodialDays,
		ReleaseDays:     releaseDays,
		PEDDays:         pedDaysIf(hasPED, pedDays),
		ReleaseType:     releaseType,
		Adjustments:     totals,
		UnadjustedDates: unadjusted.dates,
		AdjustedDates:   adjusted.dates,
		Rules:           adjusted.rules,
	}, nil
}

// hdced is the home detention curfew eligibility date. Sentences from 12
// weeks up to 18 months become eligible after a quarter of the term, but no
// sooner than the minimum custodial period; longer ones a fixed number of
// days before release. Sentences of 4 years or more are not eligible.
func (e *Engine) hdced(start time.Time, custodialDays int, release time.Time) (time.Time, domain.CalculationRule, bool) {
	rules := e.Catalogue.ReleaseRules
	end := dateutil.AddDays(start, custodialDays)
	if custodialDays < rules.HDCMinimumSentenceDays || !end.Before(dateutil.AddPeriod(start, rules.HDCMaximumSentenceYears, 0, 0)) {
		return time.Time{}, "", false
	}

	var (
		d    time.Time
		rule domain.CalculationRule
	)
	if end.Before(dateutil.AddPeriod(start, 0, rules.HDCQuarterUntilMonths, 0)) {
		quarter := applyMultiplier(custodialDays, decimal.NewFromFloat(0.25))
		rule = domain.RuleHDCQuarterOfSentence
		if quarter < rules.HDCMinimumCustodialDays {
			quarter, rule = rules.HDCMinimumCustodialDays, domain.RuleHDCMinimumCustodialPeriod
		}
		d = dateutil.AddDays(start, quarter-1)
	} else {
		d, rule = dateutil.AddDays(release, -rules.HDCDaysBeforeRelease), domain.RuleHDCDaysBeforeRelease
	}
	return d, rule, d.Before(release)
}

// ersed is the early removal scheme eligibility date: the later of half the
// custodial period and a fixed number of days before the release point.
func (e *Engine) ersed(start time.Time, custodialDays int, point time.Time) (time.Time, domain.CalculationRule, bool) {
	half := dateutil.AddDays(start, applyMultiplier(custodialDays, domain.MultiplierHalf)-1)
	earliest := dateutil.AddDays(point, -e.Catalogue.ReleaseRules.ERSMaxDaysBeforeRelease)

	d, rule := half, domain.RuleERSHalfCustodialPeriod
	if earliest.After(half) {
		d, rule = earliest, domain.RuleERSMaxPeriodBeforeRelease
	}
	return d, rule, d.Before(point)
}

func clampToTranche(release, trancheDate time.Time) time.Time {
	if !trancheDate.IsZero() && release.Before(trancheDate) {
		return trancheDate
	}
	return release
}

func appendTrack(tracks []domain.IdentificationTrack, t domain.IdentificationTrack) []domain.IdentificationTrack {
	for _, existing := range tracks {
		if existing == t {
			return tracks
		}
	}
	return append(tracks, t)
}

func pedDaysIf(ok bool, days int) int {
	if ok {
		return days
	}
	return 0
}
