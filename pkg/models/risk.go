package models

import (
	"fmt"
	"strings"
)

// RiskLevel is the severity of a finding. Higher values are more severe.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskVeryHigh
	RiskExtreme
)

var riskLevelNames = map[RiskLevel]string{
	RiskLow:      "LOW",
	RiskMedium:   "MEDIUM",
	RiskHigh:     "HIGH",
	RiskVeryHigh: "VERY_HIGH",
	RiskExtreme:  "EXTREME",
}

var riskLevelsByName = map[string]RiskLevel{
	"LOW":       RiskLow,
	"MEDIUM":    RiskMedium,
	"HIGH":      RiskHigh,
	"VERY_HIGH": RiskVeryHigh,
	"EXTREME":   RiskExtreme,
}

// RiskLevels returns every risk level from least to most severe.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskVeryHigh, RiskExtreme}
}

func (r RiskLevel) String() string {
	if name, ok := riskLevelNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RiskLevel(%d)", int(r))
}

// ParseRiskLevel converts a risk level name, in any case, to its RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	level, ok := riskLevelsByName[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown risk level %q", s)
	}
	return level, nil
}

// LookupRiskLevel converts a risk token as sent by Cloud Conformity. The match is exact.
func LookupRiskLevel(token string) (RiskLevel, bool) {
	level, ok := riskLevelsByName[token]
	return level, ok
}
