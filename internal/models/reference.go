// internal/models/reference.go
package models

// Person is a catalog player.
type Person struct {
	ID        int64  `json:"id" yaml:"id" db:"id"`
	FullName  string `json:"full_name" yaml:"full_name" db:"full_name"`
	FirstName string `json:"first_name" yaml:"first_name" db:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name" db:"last_name"`
	IsActive  bool   `json:"is_active" yaml:"is_active" db:"is_active"`
}

// Team is a catalog franchise.
type Team struct {
	ID           int64  `json:"id" yaml:"id" db:"id"`
	FullName     string `json:"full_name" yaml:"full_name" db:"full_name"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation" db:"abbreviation"`
	Nickname     string `json:"nickname" yaml:"nickname" db:"nickname"`
	City         string `json:"city" yaml:"city" db:"city"`
}
