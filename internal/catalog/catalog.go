// Package catalog holds the read-only reference vocabulary of people and
// teams that question analysis matches against.
package catalog

import (
	"strings"

	"nba-qa-workers/internal/models"
)

// Catalog is immutable after New. People and teams keep their load order,
// which keeps extraction deterministic.
type Catalog struct {
	people       []models.Person
	teams        []models.Team
	teamByName   map[string]models.Team
	teamByAbbrev map[string]models.Team
	aliases      []Alias
}

// New indexes the given lists. Entries sharing a lower-cased full name
// collapse into one, keeping the first position and the last value.
func New(people []models.Person, teams []models.Team) *Catalog {
	c := &Catalog{
		teamByName:   make(map[string]models.Team, len(teams)),
		teamByAbbrev: make(map[string]models.Team, len(teams)),
	}

	personAt := make(map[string]int, len(people))
	for _, p := range people {
		key := strings.ToLower(p.FullName)
		if i, ok := personAt[key]; ok {
			c.people[i] = p
			continue
		}
		personAt[key] = len(c.people)
		c.people = append(c.people, p)
	}

	teamAt := make(map[string]int, len(teams))
	for _, t := range teams {
		key := strings.ToLower(t.FullName)
		if i, ok := teamAt[key]; ok {
			c.teams[i] = t
		} else {
			teamAt[key] = len(c.teams)
			c.teams = append(c.teams, t)
		}
		c.teamByName[key] = t
		if t.Abbreviation != "" {
			c.teamByAbbrev[strings.ToLower(t.Abbreviation)] = t
		}
	}

	for _, a := range teamAliases {
		if _, ok := c.teamByName[a.FullName]; ok {
			c.aliases = append(c.aliases, a)
		}
	}
	return c
}

func (c *Catalog) People() []models.Person {
	out := make([]models.Person, len(c.people))
	copy(out, c.people)
	return out
}

func (c *Catalog) Teams() []models.Team {
	out := make([]models.Team, len(c.teams))
	copy(out, c.teams)
	return out
}

// TeamByFullName expects a lower-cased name.
func (c *Catalog) TeamByFullName(lower string) (models.Team, bool) {
	t, ok := c.teamByName[lower]
	return t, ok
}

func (c *Catalog) TeamByAbbreviation(abbr string) (models.Team, bool) {
	t, ok := c.teamByAbbrev[strings.ToLower(abbr)]
	return t, ok
}

// Aliases returns the short team names whose target exists in this catalog,
// in priority order.
func (c *Catalog) Aliases() []Alias {
	out := make([]Alias, len(c.aliases))
	copy(out, c.aliases)
	return out
}

// Len returns the number of people and teams combined.
func (c *Catalog) Len() int {
	return len(c.people) + len(c.teams)
}

func (c *Catalog) PeopleCount() int { return len(c.people) }

func (c *Catalog) TeamCount() int { return len(c.teams) }
