package conversation

import (
	"fmt"
	"strings"
)

// educationLevels are the canonical education level choices, presented as a
// numbered list and matched by numeral or name substring.
var educationLevels = []string{
	"High School",
	"Technical Degree",
	"Bachelor's Degree",
	"Postgraduate",
	"Master's Degree",
	"Doctorate",
}

// proficiencyLevels are the canonical language proficiency choices.
var proficiencyLevels = []string{
	"Basic",
	"Intermediate",
	"Advanced",
	"Fluent",
	"Native",
}

// promptFor returns the assistant question for a sequencer position.
func promptFor(step Step, sub SubStep) string {
	switch sub {
	case SubName:
		return "Hi! Let's build your resume together. What is your full name?"
	case SubEmail:
		return "What is your email address?"
	case SubPhone:
		return "What is your phone number?"
	case SubAddress:
		return "Where are you located (city and state)?"
	case SubPortfolio:
		return "Do you have a portfolio or GitHub URL? (type a URL or \"no\")"
	case SubInstitution:
		return "Let's talk about education. Which institution did you study at?"
	case SubDegree:
		return "What course or degree did you take?"
	case SubLevel:
		return "What level is it?\n" + numberedList(educationLevels)
	case SubEduPeriod:
		return "What period? (e.g. 2018 - 2022)"
	case SubCompany:
		return "Now your work experience. Which company did you work at?"
	case SubRole:
		return "What was your role there?"
	case SubWorkPeriod:
		return "What period? (e.g. 2020 - 2023)"
	case SubDescription:
		return "Briefly describe what you did there."
	case SubProjectName:
		return "Tell me about a project you're proud of. What's it called?"
	case SubProjectDesc:
		return "What does the project do?"
	case SubProjectURL:
		return "Does it have a URL? (type a URL or \"no\")"
	case SubLanguageName:
		return "Which languages do you speak? Tell me one."
	case SubLanguageLevel:
		return "What's your proficiency?\n" + numberedList(proficiencyLevels)
	case SubCertName:
		return "Any certifications? What's the certificate called?"
	case SubCertIssuer:
		return "Who issued it?"
	case SubCertYear:
		return "What year did you get it?"
	case SubSkillList:
		return "Almost done! List your technical skills, separated by commas."
	case SubConfirm:
		return "That's everything! Type \"save\" to finish, \"preview\" to review, or \"edit <section>\" to redo a section."
	case SubAddMore:
		return addMorePrompt(step)
	}
	return "Sorry, I didn't catch that. Let's continue."
}

// addMorePrompt asks whether to repeat the current section's entry sub-flow.
func addMorePrompt(step Step) string {
	switch step {
	case StepEducation:
		return "Got it! Add another education entry? (yes/no)"
	case StepExperience:
		return "Got it! Add another work experience? (yes/no)"
	case StepProjects:
		return "Nice! Add another project? (yes/no)"
	case StepLanguages:
		return "Noted! Add another language? (yes/no)"
	case StepCertificates:
		return "Saved! Add another certificate? (yes/no)"
	}
	return "Add another entry? (yes/no)"
}

// retryPrompt prefixes an inline validation message to the repeated question.
func retryPrompt(message string, step Step, sub SubStep) string {
	return message + "\n" + promptFor(step, sub)
}

// numberedList renders options as a numbered choice list.
func numberedList(options []string) string {
	var b strings.Builder
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	return strings.TrimRight(b.String(), "\n")
}

// completionMessage closes the conversation once the record is confirmed.
const completionMessage = "All set! Your resume is complete and ready to be saved to your profile."

// Prompt returns the assistant question for the current sequencer position.
// Used to open a conversation and to re-ask after resuming a draft.
func Prompt(s State) string {
	return promptFor(s.Step, s.SubStep)
}
