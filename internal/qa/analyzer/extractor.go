package analyzer

import (
	"strconv"
	"strings"

	"nba-qa-workers/internal/catalog"
	"nba-qa-workers/internal/models"
)

type indexedPerson struct {
	person models.Person
	full   string
	first  string
	last   string
}

type indexedTeam struct {
	team   models.Team
	full   string
	abbrev string
}

// Extractor finds entities in a lower-cased question. Every entity kind is
// extracted independently and a miss is an empty value, never an error.
type Extractor struct {
	catalog *catalog.Catalog
	people  []indexedPerson
	teams   []indexedTeam
}

func NewExtractor(cat *catalog.Catalog) *Extractor {
	e := &Extractor{catalog: cat}
	for _, p := range cat.People() {
		if p.FullName == "" {
			continue
		}
		e.people = append(e.people, indexedPerson{
			person: p,
			full:   strings.ToLower(p.FullName),
			first:  strings.ToLower(p.FirstName),
			last:   strings.ToLower(p.LastName),
		})
	}
	for _, t := range cat.Teams() {
		if t.FullName == "" {
			continue
		}
		e.teams = append(e.teams, indexedTeam{
			team:   t,
			full:   strings.ToLower(t.FullName),
			abbrev: strings.ToLower(t.Abbreviation),
		})
	}
	return e
}

func (e *Extractor) Extract(question string) models.Entities {
	return models.Entities{
		People:           e.People(question),
		Teams:            e.Teams(question),
		Stats:            Stats(question),
		Temporal:         Temporal(question),
		GameID:           GameID(question),
		TopN:             TopN(question),
		RankingRequested: containsAny(question, rankingKeywords),
		Comparison:       containsAny(question, comparisonKeywords),
	}
}

// People prefers full-name matches. Surname-only matching runs only when no
// full name was found and yields one person per distinct surname.
func (e *Extractor) People(question string) []models.Person {
	matches := []models.Person{}
	for _, p := range e.people {
		if strings.Contains(question, p.full) {
			matches = append(matches, p.person)
			continue
		}
		if strings.Contains(question, p.first) && strings.Contains(question, p.last) {
			distance := runeIndex(question, p.first) - runeIndex(question, p.last)
			if distance < 0 {
				distance = -distance
			}
			if distance < nameWindow {
				matches = append(matches, p.person)
			}
		}
	}
	if len(matches) > 0 {
		return matches
	}

	seen := make(map[string]bool)
	for _, p := range e.people {
		if p.last == "" || seen[p.last] {
			continue
		}
		if containsWord(question, p.last) {
			matches = append(matches, p.person)
			seen[p.last] = true
		}
	}
	return matches
}

// Teams returns a single team on an alias hit. Otherwise full names are
// matched first and abbreviations add teams not already found.
func (e *Extractor) Teams(question string) []models.Team {
	for _, alias := range e.catalog.Aliases() {
		if containsWord(question, alias.Name) {
			if team, ok := e.catalog.TeamByFullName(alias.FullName); ok {
				return []models.Team{team}
			}
		}
	}

	found := []models.Team{}
	for _, t := range e.teams {
		if containsWord(question, t.full) {
			found = append(found, t.team)
		}
	}
	for _, t := range e.teams {
		if t.abbrev == "" || hasTeam(found, t.team.ID) {
			continue
		}
		if containsWord(question, t.abbrev) {
			found = append(found, t.team)
		}
	}
	return found
}

func hasTeam(teams []models.Team, id int64) bool {
	for _, t := range teams {
		if t.ID == id {
			return true
		}
	}
	return false
}

func Stats(question string) []string {
	found := []string{}
	for _, set := range statKeywords {
		if containsAny(question, set.keywords) {
			found = append(found, set.name)
		}
	}
	return found
}

func Temporal(question string) models.Temporal {
	return models.Temporal{
		Last:         containsAny(question, lastKeywords),
		ThisSeason:   containsAny(question, thisSeasonKeywords),
		Career:       containsAny(question, careerKeywords),
		Season:       containsAny(question, seasonKeywords),
		SpecificDate: datePattern.FindString(question),
	}
}

func GameID(question string) string {
	return gameIDPattern.FindString(question)
}

// TopN returns the count captured by the first matching phrasing, capped at
// maxTopN.
func TopN(question string) *int {
	for _, pattern := range topNPatterns {
		m := pattern.FindStringSubmatch(question)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n > maxTopN {
			// the pattern only captures digits, so err is always a range error
			n = maxTopN
		}
		return &n
	}
	return nil
}
