package conversation

import (
	"testing"

	"github.com/mariana/devlink-assistant/internal/preview"
	"github.com/mariana/devlink-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drive feeds a sequence of inputs through Advance, failing the test on any
// sequencing error.
func drive(t *testing.T, state State, record types.ConversationRecord, inputs ...string) (State, types.ConversationRecord, Result) {
	t.Helper()
	var res Result
	var err error
	for _, input := range inputs {
		res, err = Advance(state, record, input)
		require.NoError(t, err, "input %q", input)
		state, record = res.State, res.Record
	}
	return state, record, res
}

func TestAdvanceIntroToPersonal(t *testing.T) {
	state, record, _ := drive(t, NewState(), types.ConversationRecord{}, "Ana Silva")

	assert.Equal(t, StepPersonal, state.Step)
	assert.Equal(t, SubEmail, state.SubStep)
	assert.Equal(t, "Ana Silva", record.PersonalInfo.FullName)
}

func TestAdvanceEmailValidation(t *testing.T) {
	state, record, _ := drive(t, NewState(), types.ConversationRecord{}, "Ana Silva")

	// Invalid email re-prompts the same sub-step and stores nothing.
	res, err := Advance(state, record, "not-an-email")
	require.NoError(t, err)
	assert.Equal(t, SubEmail, res.State.SubStep)
	assert.Empty(t, res.Record.PersonalInfo.Email)

	// Repeated invalid submissions are idempotent.
	res, err = Advance(res.State, res.Record, "not-an-email")
	require.NoError(t, err)
	assert.Equal(t, SubEmail, res.State.SubStep)
	assert.Empty(t, res.Record.PersonalInfo.Email)

	// A valid email advances to phone.
	res, err = Advance(res.State, res.Record, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, SubPhone, res.State.SubStep)
	assert.Equal(t, "ana@x.com", res.Record.PersonalInfo.Email)
}

func TestAdvanceDeterminism(t *testing.T) {
	state, record, _ := drive(t, NewState(), types.ConversationRecord{}, "Ana Silva")

	first, err := Advance(state, record, "ana@x.com")
	require.NoError(t, err)
	second, err := Advance(state, record, "ana@x.com")
	require.NoError(t, err)

	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.Record.PersonalInfo, second.Record.PersonalInfo)
	assert.Equal(t, first.Reply, second.Reply)
}

func TestAdvanceDoesNotMutateInputs(t *testing.T) {
	state := NewState()
	record := types.ConversationRecord{}

	_, err := Advance(state, record, "Ana Silva")
	require.NoError(t, err)

	assert.Equal(t, NewState(), state)
	assert.True(t, record.IsEmpty())
}

func TestPhoneNormalization(t *testing.T) {
	state, record, _ := drive(t, NewState(), types.ConversationRecord{},
		"Ana Silva", "ana@x.com", "+55 (11) 99999-0000")

	assert.Equal(t, SubAddress, state.SubStep)
	assert.Equal(t, "+5511999990000", record.PersonalInfo.Phone)
}

func TestEducationEntryCommit(t *testing.T) {
	state, record, _ := drive(t, NewState(), types.ConversationRecord{},
		"Ana Silva", "ana@x.com", "11 99999-0000", "São Paulo, SP", "no",
		"USP", "Computer Science", "3", "2018 - 2022")

	require.Len(t, record.Education, 1)
	entry := record.Education[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "USP", entry.Institution)
	assert.Equal(t, "Computer Science", entry.Degree)
	assert.Equal(t, "Bachelor's Degree", entry.Level)
	assert.Equal(t, "2018 - 2022", entry.Period)

	// TempData is cleared exactly when the entry commits.
	assert.Empty(t, state.TempData)
	assert.Equal(t, SubAddMore, state.SubStep)
}

func TestEducationLevelChoiceByName(t *testing.T) {
	state := State{Step: StepEducation, SubStep: SubLevel, TempData: map[string]string{
		tempInstitution: "USP", tempDegree: "CS",
	}}

	res, err := Advance(state, types.ConversationRecord{}, "master")
	require.NoError(t, err)
	assert.Equal(t, "Master's Degree", res.State.TempData[tempLevel])
	assert.Equal(t, SubEduPeriod, res.State.SubStep)
}

func TestEducationLevelNoMatchReprompts(t *testing.T) {
	state := State{Step: StepEducation, SubStep: SubLevel}

	res, err := Advance(state, types.ConversationRecord{}, "quantum")
	require.NoError(t, err)
	assert.Equal(t, SubLevel, res.State.SubStep)
	assert.Contains(t, res.Reply, "1.")
}

func TestPeriodValidationReprompts(t *testing.T) {
	state := State{Step: StepEducation, SubStep: SubEduPeriod, TempData: map[string]string{
		tempInstitution: "USP", tempDegree: "CS", tempLevel: "Bachelor's Degree",
	}}

	res, err := Advance(state, types.ConversationRecord{}, "2018 to 2022")
	require.NoError(t, err)
	assert.Equal(t, SubEduPeriod, res.State.SubStep)
	assert.Empty(t, res.Record.Education)
	assert.Equal(t, state.TempData, res.State.TempData)
}

func TestAddMoreLoop(t *testing.T) {
	state := State{Step: StepEducation, SubStep: SubAddMore}

	res, err := Advance(state, types.ConversationRecord{}, "sim")
	require.NoError(t, err)
	assert.Equal(t, StepEducation, res.State.Step)
	assert.Equal(t, SubInstitution, res.State.SubStep)

	res, err = Advance(state, types.ConversationRecord{}, "no")
	require.NoError(t, err)
	assert.Equal(t, StepExperience, res.State.Step)
	assert.Equal(t, SubCompany, res.State.SubStep)
}

func TestSkillsSplit(t *testing.T) {
	state := State{Step: StepSkills, SubStep: SubSkillList}

	res, err := Advance(state, types.ConversationRecord{}, "Go, Rust ,  Python")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust", "Python"}, res.Record.Skills)
	assert.Equal(t, StepReview, res.State.Step)
}

func TestSkillsReplaceWholesale(t *testing.T) {
	state := State{Step: StepSkills, SubStep: SubSkillList}
	record := types.ConversationRecord{Skills: []string{"Old"}}

	res, err := Advance(state, record, "Go,,Rust")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, res.Record.Skills)
}

func TestPreviewCommandDoesNotAdvance(t *testing.T) {
	state, record, _ := drive(t, NewState(), types.ConversationRecord{}, "Ana Silva")

	res, err := Advance(state, record, "visualizar")
	require.NoError(t, err)
	assert.True(t, res.Previewed)
	assert.Equal(t, state, res.State)
	assert.Contains(t, res.Reply, "Ana Silva")
}

func TestPreviewOnEmptyRecord(t *testing.T) {
	res, err := Advance(NewState(), types.ConversationRecord{}, "preview")
	require.NoError(t, err)
	assert.Equal(t, preview.EmptyPlaceholder, res.Reply)
}

func TestFinishCommandJumpsToReview(t *testing.T) {
	state, record, _ := drive(t, NewState(), types.ConversationRecord{}, "Ana Silva")

	res, err := Advance(state, record, "finalizar")
	require.NoError(t, err)
	assert.Equal(t, StepReview, res.State.Step)
	assert.False(t, res.Finished)
}

func TestSaveAtReviewCompletes(t *testing.T) {
	state := State{Step: StepReview, SubStep: SubConfirm}

	res, err := Advance(state, types.ConversationRecord{}, "save")
	require.NoError(t, err)
	assert.True(t, res.Finished)
	assert.Equal(t, StepComplete, res.State.Step)
	assert.True(t, res.State.Terminal())
}

func TestReviewEditRestartsSection(t *testing.T) {
	state := State{Step: StepReview, SubStep: SubConfirm}
	record := types.ConversationRecord{
		Education: []types.Education{{ID: "e1", Institution: "USP"}},
		Skills:    []string{"Go"},
	}

	res, err := Advance(state, record, "edit education")
	require.NoError(t, err)
	assert.Equal(t, StepEducation, res.State.Step)
	assert.Equal(t, SubInstitution, res.State.SubStep)
	assert.Empty(t, res.Record.Education)
	// Other sections are untouched.
	assert.Equal(t, []string{"Go"}, res.Record.Skills)
}

func TestUnknownSubStepSurfacesError(t *testing.T) {
	state := State{Step: StepPersonal, SubStep: "bogus"}
	record := types.ConversationRecord{PersonalInfo: types.PersonalInfo{FullName: "Ana"}}

	res, err := Advance(state, record, "anything")

	var unknownErr *ErrUnknownSubStep
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, state, res.State)
	assert.Equal(t, record, res.Record)
	assert.NotEmpty(t, res.Reply)
}

func TestProgressMonotonicity(t *testing.T) {
	inputs := []string{
		"Ana Silva", "ana@x.com", "11 99999-0000", "São Paulo", "no",
		"USP", "CS", "3", "2018 - 2022", "no",
		"Acme", "Engineer", "2022 - 2024", "built APIs", "no",
		"devlink", "social app", "no", "no",
		"English", "fluent", "no",
		"CKA", "CNCF", "2023", "no",
		"Go, SQL",
		"save",
	}

	state := NewState()
	record := types.ConversationRecord{}
	last := Progress(state)
	for _, input := range inputs {
		res, err := Advance(state, record, input)
		require.NoError(t, err, "input %q", input)
		state, record = res.State, res.Record

		p := Progress(state)
		assert.GreaterOrEqual(t, p, last, "after input %q", input)
		assert.True(t, p < 100 || state.Terminal(), "progress hit 100 before completion")
		last = p
	}

	assert.True(t, state.Terminal())
	assert.Equal(t, 100, Progress(state))
}

func TestFullConversationBuildsRecord(t *testing.T) {
	_, record, res := drive(t, NewState(), types.ConversationRecord{},
		"Ana Silva", "ana@x.com", "11 99999-0000", "São Paulo", "github.com/ana",
		"USP", "CS", "bachelor", "2018 - 2022", "sim",
		"UNICAMP", "SE", "5", "2022 - 2024", "no",
		"Acme", "Engineer", "2022 - 2024", "built APIs", "no",
		"devlink", "social app", "no", "no",
		"English", "4", "no",
		"CKA", "CNCF", "2023", "no",
		"Go, SQL, Docker",
		"save",
	)

	assert.True(t, res.Finished)
	assert.Equal(t, "github.com/ana", record.PersonalInfo.PortfolioURL)
	assert.Len(t, record.Education, 2)
	assert.Len(t, record.Experience, 1)
	assert.Len(t, record.Projects, 1)
	assert.Len(t, record.Languages, 1)
	assert.Equal(t, types.ProficiencyFluent, record.Languages[0].Proficiency)
	assert.Len(t, record.Certificates, 1)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, record.Skills)
}

func TestCommittedEntryIDsAreUnique(t *testing.T) {
	_, record, _ := drive(t, NewState(), types.ConversationRecord{},
		"Ana Silva", "ana@x.com", "1", "SP", "no",
		"USP", "CS", "1", "2018 - 2022", "s",
		"UNICAMP", "SE", "2", "2020 - 2022", "no")

	require.Len(t, record.Education, 2)
	assert.NotEqual(t, record.Education[0].ID, record.Education[1].ID)
}
