package provider

import "strings"

// Team naming differs across the sheet, the odds feed and the scores feed
// ("Ohio St." vs "Ohio State", "LA Rams" vs "Los Angeles Rams"). Matching
// normalizes both sides to a lowercase token form before comparing.

var nameReplacer = strings.NewReplacer(
	".", "",
	"'", "",
	"&", "and",
	"-", " ",
)

var nameAliases = map[string]string{
	"st":    "state",
	"univ":  "university",
	"la":    "los angeles",
	"ny":    "new york",
	"miss":  "mississippi",
	"so":    "southern",
	"no":    "northern",
	"intl":  "international",
	"aandm": "a and m",
}

// NormalizeTeam collapses a team name to a canonical matching key.
func NormalizeTeam(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nameReplacer.Replace(s)

	fields := strings.Fields(s)
	for i, f := range fields {
		if alias, ok := nameAliases[f]; ok {
			fields[i] = alias
		}
	}
	return strings.Join(fields, " ")
}

// MatchupKey builds the canonical "away@home" key used to join provider
// payloads back to schedule rows.
func MatchupKey(awayTeam, homeTeam string) string {
	return NormalizeTeam(awayTeam) + "@" + NormalizeTeam(homeTeam)
}
