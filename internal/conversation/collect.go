package conversation

import (
	"strings"

	"github.com/mariana/devlink-assistant/internal/types"
)

// TempData field keys used while a multi-field entry is being collected.
const (
	tempInstitution = "institution"
	tempDegree      = "degree"
	tempLevel       = "level"
	tempPeriod      = "period"
	tempCompany     = "company"
	tempRole        = "role"
	tempDescription = "description"
	tempName        = "name"
	tempIssuer      = "issuer"
)

// appendEducation commits the education entry accumulated in temp as one
// immutable entry with a fresh local ID. Slices are copied so the returned
// record shares no backing array with the input.
func appendEducation(r types.ConversationRecord, temp map[string]string, period string) types.ConversationRecord {
	entry := types.Education{
		ID:          newLocalID(),
		Institution: temp[tempInstitution],
		Degree:      temp[tempDegree],
		Level:       temp[tempLevel],
		Period:      period,
	}
	r.Education = append(copySlice(r.Education), entry)
	return r
}

// appendExperience commits the work experience entry accumulated in temp.
func appendExperience(r types.ConversationRecord, temp map[string]string, description string) types.ConversationRecord {
	entry := types.Experience{
		ID:          newLocalID(),
		Company:     temp[tempCompany],
		Role:        temp[tempRole],
		Period:      temp[tempPeriod],
		Description: description,
	}
	r.Experience = append(copySlice(r.Experience), entry)
	return r
}

// appendProject commits the project entry accumulated in temp.
func appendProject(r types.ConversationRecord, temp map[string]string, url string) types.ConversationRecord {
	entry := types.Project{
		ID:          newLocalID(),
		Name:        temp[tempName],
		Description: temp[tempDescription],
		URL:         url,
	}
	r.Projects = append(copySlice(r.Projects), entry)
	return r
}

// appendLanguage commits a language with its selected proficiency level.
func appendLanguage(r types.ConversationRecord, name string, level types.ProficiencyLevel) types.ConversationRecord {
	r.Languages = append(copySlice(r.Languages), types.Language{Name: name, Proficiency: level})
	return r
}

// appendCertificate commits the certificate entry accumulated in temp.
func appendCertificate(r types.ConversationRecord, temp map[string]string, year string) types.ConversationRecord {
	entry := types.Certificate{
		ID:     newLocalID(),
		Name:   temp[tempName],
		Issuer: temp[tempIssuer],
		Year:   year,
	}
	r.Certificates = append(copySlice(r.Certificates), entry)
	return r
}

// splitSkills splits one comma-delimited utterance into trimmed tokens,
// dropping empties. The result replaces the skills section wholesale.
func splitSkills(input string) []string {
	var skills []string
	for _, token := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

// resetSection discards the committed entries of the named section so the
// review step can restart its collection from scratch.
func resetSection(r types.ConversationRecord, step Step) types.ConversationRecord {
	switch step {
	case StepPersonal:
		// The full name was collected at intro and survives a personal-info redo.
		r.PersonalInfo = types.PersonalInfo{FullName: r.PersonalInfo.FullName}
	case StepEducation:
		r.Education = nil
	case StepExperience:
		r.Experience = nil
	case StepProjects:
		r.Projects = nil
	case StepLanguages:
		r.Languages = nil
	case StepCertificates:
		r.Certificates = nil
	case StepSkills:
		r.Skills = nil
	}
	return r
}

// proficiencyFromChoice maps a canonical proficiency option index to the enum.
func proficiencyFromChoice(idx int) types.ProficiencyLevel {
	levels := []types.ProficiencyLevel{
		types.ProficiencyBasic,
		types.ProficiencyIntermediate,
		types.ProficiencyAdvanced,
		types.ProficiencyFluent,
		types.ProficiencyNative,
	}
	if idx < 0 || idx >= len(levels) {
		return types.ProficiencyBasic
	}
	return levels[idx]
}

// copySlice returns a fresh slice with the same elements.
func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
