package conversation

import (
	"strings"

	"github.com/mariana/devlink-assistant/internal/preview"
	"github.com/mariana/devlink-assistant/internal/types"
)

// Result is the outcome of one Advance call: the next sequencer state, the
// (possibly updated) record and the assistant reply to show.
type Result struct {
	State  State
	Record types.ConversationRecord
	Reply  string

	// Previewed marks a reply that rendered the record without advancing.
	Previewed bool

	// Finished marks the record as confirmed complete; the caller is
	// responsible for persisting it and discarding the draft.
	Finished bool
}

// Advance processes one user utterance: it validates and stores the field
// belonging to the current sub-step, computes the next (step, sub-step) and
// produces the next assistant prompt. It is a pure function of its inputs;
// state and record are never mutated.
//
// The preview and finish commands are recognized at every step. A validation
// failure repeats the same sub-step with an inline message; no state is lost.
func Advance(state State, record types.ConversationRecord, input string) (Result, error) {
	if state.Terminal() {
		return Result{State: state, Record: record, Reply: completionMessage, Finished: true}, nil
	}

	switch parseCommand(input) {
	case cmdPreview:
		return Result{State: state, Record: record, Reply: preview.Render(record), Previewed: true}, nil
	case cmdFinish:
		return finish(state, record), nil
	}

	if !validPair(state.Step, state.SubStep) {
		res := Result{
			State:  state,
			Record: record,
			Reply:  "Sorry, I lost my place for a moment. " + promptFor(state.Step, firstSubStep(state.Step)),
		}
		return res, &ErrUnknownSubStep{Step: state.Step, SubStep: state.SubStep}
	}

	value := strings.TrimSpace(input)

	switch state.Step {
	case StepIntro:
		record.PersonalInfo.FullName = value
		return advanceTo(state, record, StepPersonal, SubEmail), nil

	case StepPersonal:
		return advancePersonal(state, record, value), nil

	case StepEducation:
		return advanceEducation(state, record, value), nil

	case StepExperience:
		return advanceExperience(state, record, value), nil

	case StepProjects:
		return advanceProjects(state, record, value), nil

	case StepLanguages:
		return advanceLanguages(state, record, value), nil

	case StepCertificates:
		return advanceCertificates(state, record, value), nil

	case StepSkills:
		record.Skills = splitSkills(value)
		return advanceTo(state, record, StepReview, SubConfirm), nil

	case StepReview:
		return advanceReview(state, record, value), nil
	}

	// Unreachable for the closed step set.
	return retry(state, record, "Sorry, I didn't catch that."), nil
}

func advancePersonal(state State, record types.ConversationRecord, value string) Result {
	switch state.SubStep {
	case SubEmail:
		if !validEmail(value) {
			return retry(state, record, "That doesn't look like a valid email address.")
		}
		record.PersonalInfo.Email = value
		return stay(state, record, SubPhone)
	case SubPhone:
		record.PersonalInfo.Phone = normalizePhone(value)
		return stay(state, record, SubAddress)
	case SubAddress:
		record.PersonalInfo.Address = value
		return stay(state, record, SubPortfolio)
	default: // SubPortfolio
		if !declined(value) {
			record.PersonalInfo.PortfolioURL = value
		}
		return advanceTo(state, record, StepEducation, SubInstitution)
	}
}

func advanceEducation(state State, record types.ConversationRecord, value string) Result {
	switch state.SubStep {
	case SubInstitution:
		return stay(state.withTemp(tempInstitution, value), record, SubDegree)
	case SubDegree:
		return stay(state.withTemp(tempDegree, value), record, SubLevel)
	case SubLevel:
		idx := matchChoice(value, educationLevels)
		if idx < 0 {
			return retry(state, record, "Please pick one of the numbered options.")
		}
		return stay(state.withTemp(tempLevel, educationLevels[idx]), record, SubEduPeriod)
	case SubEduPeriod:
		period, ok := parsePeriod(value)
		if !ok {
			return retry(state, record, "Please use the format \"YYYY - YYYY\".")
		}
		record = appendEducation(record, state.TempData, period)
		return stay(state.clearTemp(), record, SubAddMore)
	default: // SubAddMore
		if isYes(value) {
			return stay(state, record, SubInstitution)
		}
		return advanceTo(state, record, StepExperience, SubCompany)
	}
}

func advanceExperience(state State, record types.ConversationRecord, value string) Result {
	switch state.SubStep {
	case SubCompany:
		return stay(state.withTemp(tempCompany, value), record, SubRole)
	case SubRole:
		return stay(state.withTemp(tempRole, value), record, SubWorkPeriod)
	case SubWorkPeriod:
		period, ok := parsePeriod(value)
		if !ok {
			return retry(state, record, "Please use the format \"YYYY - YYYY\".")
		}
		return stay(state.withTemp(tempPeriod, period), record, SubDescription)
	case SubDescription:
		record = appendExperience(record, state.TempData, value)
		return stay(state.clearTemp(), record, SubAddMore)
	default: // SubAddMore
		if isYes(value) {
			return stay(state, record, SubCompany)
		}
		return advanceTo(state, record, StepProjects, SubProjectName)
	}
}

func advanceProjects(state State, record types.ConversationRecord, value string) Result {
	switch state.SubStep {
	case SubProjectName:
		return stay(state.withTemp(tempName, value), record, SubProjectDesc)
	case SubProjectDesc:
		return stay(state.withTemp(tempDescription, value), record, SubProjectURL)
	case SubProjectURL:
		url := ""
		if !declined(value) {
			url = value
		}
		record = appendProject(record, state.TempData, url)
		return stay(state.clearTemp(), record, SubAddMore)
	default: // SubAddMore
		if isYes(value) {
			return stay(state, record, SubProjectName)
		}
		return advanceTo(state, record, StepLanguages, SubLanguageName)
	}
}

func advanceLanguages(state State, record types.ConversationRecord, value string) Result {
	switch state.SubStep {
	case SubLanguageName:
		return stay(state.withTemp(tempName, value), record, SubLanguageLevel)
	case SubLanguageLevel:
		idx := matchChoice(value, proficiencyLevels)
		if idx < 0 {
			return retry(state, record, "Please pick one of the numbered options.")
		}
		record = appendLanguage(record, state.TempData[tempName], proficiencyFromChoice(idx))
		return stay(state.clearTemp(), record, SubAddMore)
	default: // SubAddMore
		if isYes(value) {
			return stay(state, record, SubLanguageName)
		}
		return advanceTo(state, record, StepCertificates, SubCertName)
	}
}

func advanceCertificates(state State, record types.ConversationRecord, value string) Result {
	switch state.SubStep {
	case SubCertName:
		return stay(state.withTemp(tempName, value), record, SubCertIssuer)
	case SubCertIssuer:
		return stay(state.withTemp(tempIssuer, value), record, SubCertYear)
	case SubCertYear:
		record = appendCertificate(record, state.TempData, value)
		return stay(state.clearTemp(), record, SubAddMore)
	default: // SubAddMore
		if isYes(value) {
			return stay(state, record, SubCertName)
		}
		return advanceTo(state, record, StepSkills, SubSkillList)
	}
}

func advanceReview(state State, record types.ConversationRecord, value string) Result {
	norm := strings.ToLower(value)
	if norm == "save" || norm == "salvar" {
		return finish(state, record)
	}
	if target := parseEditCommand(value); target != "" {
		next := state.clearTemp().withPosition(target, firstSubStep(target))
		return Result{
			State:  next,
			Record: resetSection(record, target),
			Reply:  "Okay, let's redo that section. " + promptFor(next.Step, next.SubStep),
		}
	}
	return retry(state, record, "I didn't understand that.")
}

// finish jumps to completion handling: from the review step the record is
// confirmed complete; from anywhere else the user is taken to review first.
func finish(state State, record types.ConversationRecord) Result {
	if state.Step == StepReview {
		return Result{
			State:    state.clearTemp().withPosition(StepComplete, ""),
			Record:   record,
			Reply:    completionMessage,
			Finished: true,
		}
	}
	next := state.clearTemp().withPosition(StepReview, SubConfirm)
	return Result{State: next, Record: record, Reply: promptFor(StepReview, SubConfirm)}
}

// stay moves to another sub-step within the current step.
func stay(state State, record types.ConversationRecord, sub SubStep) Result {
	next := state.withPosition(state.Step, sub)
	return Result{State: next, Record: record, Reply: promptFor(next.Step, next.SubStep)}
}

// advanceTo transitions to the first collection point of another step.
func advanceTo(state State, record types.ConversationRecord, step Step, sub SubStep) Result {
	next := state.clearTemp().withPosition(step, sub)
	return Result{State: next, Record: record, Reply: promptFor(next.Step, next.SubStep)}
}

// retry repeats the current sub-step with an inline validation message.
func retry(state State, record types.ConversationRecord, message string) Result {
	return Result{State: state, Record: record, Reply: retryPrompt(message, state.Step, state.SubStep)}
}

// declined matches "no" style answers for optional fields.
func declined(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "no", "n", "não", "nao", "skip":
		return true
	}
	return false
}
