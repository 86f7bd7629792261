// Package types provides type definitions for structured data shared across the devlink-assistant system.
package types

// ConversationRecord is the structured resume document assembled incrementally
// by the guided conversation. Sections are filled strictly in collection order;
// committed entries are never mutated in place.
type ConversationRecord struct {
	PersonalInfo PersonalInfo  `json:"personal_info"`
	Education    []Education   `json:"education,omitempty"`
	Experience   []Experience  `json:"experience,omitempty"`
	Projects     []Project     `json:"projects,omitempty"`
	Languages    []Language    `json:"languages,omitempty"`
	Certificates []Certificate `json:"certificates,omitempty"`
	Skills       []string      `json:"skills,omitempty"`
}

// PersonalInfo holds the single-field section collected one field per sub-step.
type PersonalInfo struct {
	FullName     string `json:"full_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
}

// Education is one committed education entry with a stable local ID.
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Level       string `json:"level"`
	Period      string `json:"period"`
}

// Experience is one committed work experience entry.
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description,omitempty"`
}

// Project is one committed personal or professional project.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Certificate is one committed certification entry.
type Certificate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year,omitempty"`
}

// Language pairs a spoken language with a proficiency level.
type Language struct {
	Name        string           `json:"name"`
	Proficiency ProficiencyLevel `json:"proficiency"`
}

// ProficiencyLevel is the closed set of spoken-language proficiency levels.
type ProficiencyLevel string

// Proficiency levels, ordered from weakest to strongest.
const (
	ProficiencyBasic        ProficiencyLevel = "basic"
	ProficiencyIntermediate ProficiencyLevel = "intermediate"
	ProficiencyAdvanced     ProficiencyLevel = "advanced"
	ProficiencyFluent       ProficiencyLevel = "fluent"
	ProficiencyNative       ProficiencyLevel = "native"
)

// IsEmpty reports whether no field of the record has been collected yet.
func (r *ConversationRecord) IsEmpty() bool {
	return r.PersonalInfo == (PersonalInfo{}) &&
		len(r.Education) == 0 &&
		len(r.Experience) == 0 &&
		len(r.Projects) == 0 &&
		len(r.Languages) == 0 &&
		len(r.Certificates) == 0 &&
		len(r.Skills) == 0
}
