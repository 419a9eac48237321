package conversation

import (
	"fmt"
	"strings"
)

// Fixed texts of the guided intake dialogue. The client renders these
// verbatim, so wording and whitespace are part of the contract.
const (
	errorMessage = "There was an error. Please try again."

	thinkingRecommending = "Recommending documents..."
	thinkingAnalysing    = "Analysing your document library..."
	thinkingConfiguring  = "Thinking about requirements..."

	purposeMessageSingle = "**Document purpose:**\n\nIn your own words, why are you creating this document now, and what must it achieve for this deal to be a success? \n\nList the 2–3 outcomes that matter most.\n\nWe'll get to the details next."

	draftSettingsMessage = "Last thing before we get your 1st draft ready."

	finalConfirmationMessage = "Your document is really comprehensive and ready to create! I'll start the 1st draft now, but you can always edit later."
)

var (
	clauseThinkingSteps = []string{
		"Checking market standards..",
		"Scanning template library..",
		"Checking relevant laws, precedents, regulations..",
	}

	finalCheckThinkingSteps = []string{
		"Checking document configuration..",
		"Reviewing against key laws and regulations..",
		"Making sure nothing is missing..",
	}
)

func configureMessage(docCount int) string {
	if docCount == 1 {
		return "Configure my document"
	}
	return "Configure my documents"
}

func purposeMessage(createDocs []string) string {
	if len(createDocs) <= 1 {
		return purposeMessageSingle
	}
	return fmt.Sprintf(`Great. We'll configure your other documents later but first let's focus on %s.

**Document purpose:**

In your own words, why are you creating this document now, and what must it achieve for this deal to be a success?

List the 2–3 outcomes that matter most.

We'll get to the details next.`, createDocs[0])
}

func detailsMessage(examples []string) string {
	return fmt.Sprintf(`**Document details:**

What specific details do I need to include in this contract?

eg.
%s`, strings.Join(examples, "\n"))
}

func clausesMessage(clauses []string) string {
	numbered := make([]string, len(clauses))
	for i, clause := range clauses {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, clause)
	}
	return fmt.Sprintf(`**Key clauses:**
As well as standard clauses, I recommend you include the below key clauses. Untick any of them and click to add more detail.

%s`, strings.Join(numbered, "\n"))
}
