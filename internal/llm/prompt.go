package llm

import "fmt"

const summaryTemplate = `You are a legal expert. Analyze the provided document text and provide a structured summary. Use simple language.
Include: Document Type, Main Purpose, Parties Involved, Key Dates, Financial Aspects, Main Rights & Obligations, and Termination Conditions.
DOCUMENT TEXT: %s`

const riskTemplate = `From the legal text, identify 3-5 key clauses, potential risks, or points of negotiation.
For each point, provide a simple explanation and classify its severity as 'Low', 'Medium', or 'High'.
Format each point on a new line like this:
Severity: [Severity Level] - [Explanation of the clause/risk]
LEGAL TEXT: %s`

const answerTemplate = "Answer the user's question based ONLY on the following document. If the answer isn't there, say so.\nDOCUMENT: %s\nQUESTION: %s"

const explainTemplate = "Explain the following legal clause in simple terms for a non-lawyer.\nCLAUSE: \"%s\""

// SummaryPrompt asks for a plain-language structured summary of the document.
func SummaryPrompt(text string) string {
	return fmt.Sprintf(summaryTemplate, text)
}

// RiskPrompt asks for 3-5 risk or negotiation points, one per line, each in the
// form "Severity: <Low|Medium|High> - <explanation>".
func RiskPrompt(text string) string {
	return fmt.Sprintf(riskTemplate, text)
}

// AnswerPrompt restricts the answer to the document and asks the model to say
// so when the document does not contain it.
func AnswerPrompt(text, question string) string {
	return fmt.Sprintf(answerTemplate, text, question)
}

// ExplainPrompt asks for a non-expert explanation of a single clause. It
// deliberately does not include the document.
func ExplainPrompt(clause string) string {
	return fmt.Sprintf(explainTemplate, clause)
}
