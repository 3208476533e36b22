package domain

import "strings"

// RiverFlag is the river safety flag published for the club's stretch.
type RiverFlag string

const (
	FlagGreen     RiverFlag = "green"
	FlagLightBlue RiverFlag = "light-blue"
	FlagDarkBlue  RiverFlag = "dark-blue"
	FlagRed       RiverFlag = "red"
	FlagGrey      RiverFlag = "grey"
	FlagBlack     RiverFlag = "black"
)

// ParseRiverFlag accepts "Dark Blue", "dark-blue flag" and similar.
func ParseRiverFlag(s string) (RiverFlag, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.TrimSuffix(n, " flag")
	n = strings.ReplaceAll(strings.ReplaceAll(n, "_", "-"), " ", "-")
	switch f := RiverFlag(n); f {
	case FlagGreen, FlagLightBlue, FlagDarkBlue, FlagRed, FlagGrey, FlagBlack:
		return f, nil
	}
	return "", validationErrorf("unknown flag: %s", s)
}

// OutingStatusForFlag returns Cancelled for flags that keep crews off the
// water. ok is false when the flag changes nothing.
func OutingStatusForFlag(flag RiverFlag) (SeatStatus, bool) {
	switch flag {
	case FlagRed, FlagBlack:
		return StatusCancelled, true
	}
	return "", false
}

func IsCoxEligible(experience CoxExperience, flag RiverFlag) bool {
	if experience == "" {
		return false
	}
	switch flag {
	case FlagGreen, FlagGrey:
		return true
	case FlagLightBlue:
		return experience == CoxNovice || experience == CoxExperienced || experience == CoxSenior
	case FlagDarkBlue:
		return experience == CoxExperienced || experience == CoxSenior
	}
	return false
}
