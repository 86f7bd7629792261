// Package conversation implements the guided conversational form engine that
// assembles a resume record through a fixed sequence of steps and sub-steps.
package conversation

// Step is one of the fixed top-level phases of the guided conversation.
type Step string

// The closed step enumeration, in collection order.
const (
	StepIntro        Step = "intro"
	StepPersonal     Step = "personal"
	StepEducation    Step = "education"
	StepExperience   Step = "experience"
	StepProjects     Step = "projects"
	StepLanguages    Step = "languages"
	StepCertificates Step = "certificates"
	StepSkills       Step = "skills"
	StepReview       Step = "review"
	StepComplete     Step = "complete"
)

// stepOrder fixes the forward progression of the conversation.
var stepOrder = []Step{
	StepIntro,
	StepPersonal,
	StepEducation,
	StepExperience,
	StepProjects,
	StepLanguages,
	StepCertificates,
	StepSkills,
	StepReview,
	StepComplete,
}

// SubStep is a field- or action-level position within a step.
type SubStep string

// Sub-steps, grouped by the step they belong to. A (step, sub-step) pair not
// listed in stepSubSteps is invalid and is rejected by Advance with
// ErrUnknownSubStep rather than silently ignored.
const (
	SubName SubStep = "fullName"

	SubEmail     SubStep = "email"
	SubPhone     SubStep = "phone"
	SubAddress   SubStep = "address"
	SubPortfolio SubStep = "portfolioUrl"

	SubInstitution SubStep = "institution"
	SubDegree      SubStep = "degree"
	SubLevel       SubStep = "selectLevel"
	SubEduPeriod   SubStep = "eduPeriod"

	SubCompany     SubStep = "company"
	SubRole        SubStep = "role"
	SubWorkPeriod  SubStep = "workPeriod"
	SubDescription SubStep = "description"

	SubProjectName SubStep = "projectName"
	SubProjectDesc SubStep = "projectDesc"
	SubProjectURL  SubStep = "projectUrl"

	SubLanguageName  SubStep = "languageName"
	SubLanguageLevel SubStep = "languageLevel"

	SubCertName   SubStep = "certName"
	SubCertIssuer SubStep = "certIssuer"
	SubCertYear   SubStep = "certYear"

	SubSkillList SubStep = "skillList"

	SubConfirm SubStep = "confirm"

	// SubAddMore is shared by every repeatable section; a yes answer loops
	// back to the section's first sub-step.
	SubAddMore SubStep = "addMore"
)

// stepSubSteps defines the ordered sub-step list of each step. Reaching the
// end of a step's list transitions to the next step in stepOrder.
var stepSubSteps = map[Step][]SubStep{
	StepIntro:        {SubName},
	StepPersonal:     {SubEmail, SubPhone, SubAddress, SubPortfolio},
	StepEducation:    {SubInstitution, SubDegree, SubLevel, SubEduPeriod, SubAddMore},
	StepExperience:   {SubCompany, SubRole, SubWorkPeriod, SubDescription, SubAddMore},
	StepProjects:     {SubProjectName, SubProjectDesc, SubProjectURL, SubAddMore},
	StepLanguages:    {SubLanguageName, SubLanguageLevel, SubAddMore},
	StepCertificates: {SubCertName, SubCertIssuer, SubCertYear, SubAddMore},
	StepSkills:       {SubSkillList},
	StepReview:       {SubConfirm},
	StepComplete:     {},
}

// stepIndex returns the position of a step in the fixed order, or -1.
func stepIndex(s Step) int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// nextStep returns the step following s in the fixed order. The complete step
// has no successor and returns itself.
func nextStep(s Step) Step {
	idx := stepIndex(s)
	if idx < 0 || idx >= len(stepOrder)-1 {
		return StepComplete
	}
	return stepOrder[idx+1]
}

// firstSubStep returns the first sub-step of a step, or "" for terminal steps.
func firstSubStep(s Step) SubStep {
	subs := stepSubSteps[s]
	if len(subs) == 0 {
		return ""
	}
	return subs[0]
}

// validPair reports whether sub belongs to step.
func validPair(step Step, sub SubStep) bool {
	for _, s := range stepSubSteps[step] {
		if s == sub {
			return true
		}
	}
	return false
}

// subStepIndex returns sub's position within step's ordered list, or -1.
func subStepIndex(step Step, sub SubStep) int {
	for i, s := range stepSubSteps[step] {
		if s == sub {
			return i
		}
	}
	return -1
}
