package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// matcher reports whether a lowercased utterance triggers a rule.
type matcher func(lower string) bool

func anyOf(phrases ...string) matcher {
	return func(lower string) bool {
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
		return false
	}
}

// wordOf matches whole words only, so "cf" does not fire on "cfo" and "eds" not on "needs".
func wordOf(words ...string) matcher {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return re.MatchString
}

func allOf(phrases ...string) matcher {
	return func(lower string) bool {
		for _, p := range phrases {
			if !strings.Contains(lower, p) {
				return false
			}
		}
		return true
	}
}

func either(ms ...matcher) matcher {
	return func(lower string) bool {
		for _, m := range ms {
			if m(lower) {
				return true
			}
		}
		return false
	}
}

type conditionRule struct {
	condition entities.Condition
	match     matcher
}

type urgencyRule struct {
	urgency entities.Urgency
	match   matcher
}

type insuranceRule struct {
	plan  string
	match matcher
}

// Rules are evaluated in slice order.
var (
	conditionRules = []conditionRule{
		{entities.ConditionCysticFibrosis, either(anyOf("cystic fibrosis"), wordOf("cf"))},
		{entities.ConditionHuntingtons, either(anyOf("huntington"), wordOf("hd"))},
		{entities.ConditionOsteoradionecrosis, either(anyOf("osteoradionecrosis"), wordOf("orn"), allOf("radiation", "jaw"))},
		{entities.ConditionEhlersDanlos, either(anyOf("ehlers-danlos"), wordOf("eds"))},
		{entities.ConditionLeukemia, anyOf("leukemia", "cancer")},
		{entities.ConditionParkinsons, anyOf("parkinson")},
	}

	urgencyRules = []urgencyRule{
		{entities.UrgencyUrgent, anyOf("urgent", "asap", "quickly")},
		{entities.UrgencyStat, either(wordOf("stat"), anyOf("emergency", "immediately"))},
		{entities.UrgencyRoutine, anyOf("routine", "regular")},
	}

	insuranceRules = []insuranceRule{
		{"Blue Cross Blue Shield", either(anyOf("blue cross"), wordOf("bcbs"))},
		{"Aetna PPO", anyOf("aetna")},
		{"Cigna", anyOf("cigna")},
		{"UnitedHealthcare", either(anyOf("united"), wordOf("uhc"))},
		{"Kaiser Permanente", anyOf("kaiser")},
		{"Medicare", anyOf("medicare")},
	}

	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bin ([a-z\s]+, [a-z]{2})\b`),
		regexp.MustCompile(`(?i)\bfrom ([a-z\s]+)`),
		regexp.MustCompile(`(?i)\bnear ([a-z\s]+)`),
		regexp.MustCompile(`(?i)([a-z\s]+, [a-z]{2})\b`),
	}

	postalCodeInText = regexp.MustCompile(`\b(\d{5})\b`)

	knownCities = []string{
		"boston", "new york", "san francisco", "palo alto", "houston",
		"chicago", "los angeles", "baltimore", "cleveland", "denver",
	}

	telehealthWords = anyOf("telehealth", "virtual", "remote")

	distancePattern = regexp.MustCompile(`(?i)within (\d+) miles?`)
)

// FieldExtractor derives referral case fields from free text with keyword rules.
// It holds no mutable state and is safe for concurrent use.
type FieldExtractor struct{}

// NewFieldExtractor creates a new extractor.
func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{}
}

// Extract returns the fields found in utterance that are not yet set in current.
// Fields already set in current are never present in the result.
func (e *FieldExtractor) Extract(utterance string, current entities.ExtractedCase) entities.ExtractedCase {
	lower := strings.ToLower(utterance)
	var out entities.ExtractedCase

	if current.Condition == "" {
		for _, rule := range conditionRules {
			if rule.match(lower) {
				out.Condition = rule.condition
				break
			}
		}
	}

	if current.Urgency == "" {
		// Every rule is checked; a later match overrides an earlier one.
		for _, rule := range urgencyRules {
			if rule.match(lower) {
				out.Urgency = rule.urgency
			}
		}
	}

	if current.Insurance == "" {
		for _, rule := range insuranceRules {
			if rule.match(lower) {
				out.Insurance = rule.plan
				break
			}
		}
	}

	if current.Location == "" {
		out.Location = e.extractLocation(utterance, lower)
	}

	if current.Telehealth == nil && telehealthWords(lower) {
		wants := true
		out.Telehealth = &wants
	}

	if current.PreferredDistanceMiles == nil {
		if m := distancePattern.FindStringSubmatch(utterance); m != nil {
			if miles, err := strconv.Atoi(m[1]); err == nil && miles > 0 {
				out.PreferredDistanceMiles = &miles
			}
		}
	}

	if current.Notes == "" {
		out.Notes = strings.TrimSpace(utterance)
	}

	return out
}

func (e *FieldExtractor) extractLocation(utterance, lower string) string {
	for _, pattern := range locationPatterns {
		if m := pattern.FindStringSubmatch(utterance); m != nil {
			if loc := strings.TrimSpace(m[1]); loc != "" {
				return loc
			}
		}
	}

	if m := postalCodeInText.FindStringSubmatch(utterance); m != nil {
		return m[1]
	}

	for _, city := range knownCities {
		if strings.Contains(lower, city) {
			// Casers carry state; one per call.
			return cases.Title(language.English).String(city)
		}
	}
	return ""
}

// IsComplete reports whether condition, urgency, insurance and location are all set.
func IsComplete(c entities.ExtractedCase) bool {
	return c.Condition != "" && c.Urgency != "" && c.Insurance != "" && c.Location != ""
}

// MissingFields names the required fields still unset, in the order they are asked for.
func MissingFields(c entities.ExtractedCase) []string {
	var missing []string
	if c.Condition == "" {
		missing = append(missing, "condition/diagnosis")
	}
	if c.Urgency == "" {
		missing = append(missing, "urgency level")
	}
	if c.Insurance == "" {
		missing = append(missing, "insurance provider")
	}
	if c.Location == "" {
		missing = append(missing, "patient location")
	}
	return missing
}
