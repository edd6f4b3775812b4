package interview

import "strings"

// questionBank maps interview roles to their question tracks. Unknown
// roles fall back to the general track.
var questionBank = map[string][]string{
	"general": {
		"Tell me about yourself.",
		"Describe a challenging project you worked on.",
		"How do you handle tight deadlines?",
		"What motivates you at work?",
		"Where do you see yourself in five years?",
	},
	"engineering": {
		"Explain the SOLID principles.",
		"How do you ensure code quality in a large codebase?",
		"Describe a time you improved system performance.",
		"What is your approach to incident response?",
		"How do you mentor junior engineers?",
	},
}

// QuestionsForRole returns a copy of the question track for a role.
// Lookup is case-insensitive; unknown roles get the general track.
func QuestionsForRole(role string) []string {
	questions, ok := questionBank[strings.ToLower(role)]
	if !ok {
		questions = questionBank["general"]
	}
	out := make([]string, len(questions))
	copy(out, questions)
	return out
}
