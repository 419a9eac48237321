// Package classify maps a document name onto a contract category by
// keyword matching and supplies the category's detail questions and
// recommended key clauses.
package classify

import "strings"

type Category string

const (
	CategoryEmployment Category = "employment"
	CategorySale       Category = "sale"
	CategoryService    Category = "service"
	CategoryNDA        Category = "nda"
	CategoryLicense    Category = "license"
	CategoryGeneric    Category = "generic"
)

// RisksQuestion always closes the detail-question list.
const RisksQuestion = "Which risks are most important to protect against?"

// Categorize matches the document name against known contract kinds,
// falling back to generic. Matching is deterministic and
// case-insensitive.
func Categorize(docName string) Category {
	name := strings.ToLower(docName)
	switch {
	case strings.Contains(name, "employment") || strings.Contains(name, "offer"):
		return CategoryEmployment
	case strings.Contains(name, "purchase") || strings.Contains(name, "sale"):
		return CategorySale
	case strings.Contains(name, "service") || strings.Contains(name, "consulting"):
		return CategoryService
	case strings.Contains(name, "nda") || strings.Contains(name, "non-disclosure"):
		return CategoryNDA
	case strings.Contains(name, "license") || strings.Contains(name, "ip"):
		return CategoryLicense
	default:
		return CategoryGeneric
	}
}

var detailExamples = map[Category][]string{
	CategoryEmployment: {
		"What are the specific role responsibilities and reporting structure?",
		"What's the compensation package (salary, benefits, equity, bonuses)?",
		"What are the working arrangements (remote, hybrid, location requirements)?",
	},
	CategorySale: {
		"What exactly are you buying/selling and what's included?",
		"What's the total purchase price and payment schedule?",
		"What are the key conditions or contingencies for completion?",
	},
	CategoryService: {
		"What specific services are being provided and what's the scope?",
		"How will payments work — upfront, in stages, or based on milestones?",
		"What are the key deliverables and deadlines?",
	},
	CategoryNDA: {
		"What type of confidential information will be shared?",
		"Who are the parties and what are their roles in this relationship?",
		"How long should the confidentiality period last?",
	},
	CategoryLicense: {
		"What intellectual property is being licensed and what are the usage rights?",
		"What's the licensing fee structure (upfront, royalties, subscription)?",
		"What restrictions or limitations should apply to the license?",
	},
	CategoryGeneric: {
		"Who are the parties and what are their roles (supplier, client, partners)?",
		"What's the scope of this deal — is it a service, a product, or both?",
		"What's the payment model (fixed fee, milestones, hourly, performance-based)?",
	},
}

var keyClauses = map[Category][]string{
	CategoryEmployment: {
		"Termination and notice periods",
		"Intellectual property assignment",
		"Non-compete and non-solicitation",
		"Confidentiality and data protection",
		"Performance review and disciplinary procedures",
		"Benefits and compensation adjustments",
	},
	CategorySale: {
		"Title transfer and ownership",
		"Warranties and representations",
		"Inspection and acceptance criteria",
		"Risk of loss and insurance",
		"Default and remedies",
		"Dispute resolution and governing law",
	},
	CategoryService: {
		"Scope of work and deliverables",
		"Payment terms and late fees",
		"Intellectual property ownership",
		"Limitation of liability",
		"Termination for convenience",
		"Indemnification and insurance",
	},
	CategoryNDA: {
		"Definition of confidential information",
		"Permitted uses and exceptions",
		"Return or destruction of information",
		"Duration of confidentiality obligations",
		"Remedies for breach",
		"Survival after termination",
	},
	CategoryLicense: {
		"Scope of license and permitted uses",
		"Royalty and payment terms",
		"Quality control and standards",
		"Termination and reversion rights",
		"Warranty and support obligations",
		"Compliance and audit rights",
	},
	CategoryGeneric: {
		"Payment terms and conditions",
		"Limitation of liability",
		"Termination and breach",
		"Governing law and jurisdiction",
		"Force majeure and delays",
		"Confidentiality and non-disclosure",
	},
}

// DetailExamples returns the example detail questions for a document,
// closed by the constant risks question.
func DetailExamples(docName string) []string {
	examples := detailExamples[Categorize(docName)]
	out := make([]string, 0, len(examples)+1)
	out = append(out, examples...)
	return append(out, RisksQuestion)
}

// KeyClauses returns the recommended key clauses for a document, in
// presentation order.
func KeyClauses(docName string) []string {
	return append([]string(nil), keyClauses[Categorize(docName)]...)
}
