package roles

import (
	"fmt"
	"strings"

	"github.com/quorumlabs/council/internal/workflow"
)

// AnalysisPrompt frames the user's query for one analyst worker. Role
// expertise lives in the role's instructions; the prompt only carries the
// subject and the expected shape of the answer.
func AnalysisPrompt(spec workflow.WorkerSpec, query string) string {
	return fmt.Sprintf(
		"Analyze the following from your area of expertise: %s\n\n"+
			"Provide your analysis in a structured format with clear section headers. "+
			"Be specific and data-driven; state uncertainty where it exists.",
		query,
	)
}

// SynthesisPrompt builds the lead analyst's prompt from the barrier's
// released input: every analysis in registration order under a labeled
// section header, with failed analyses marked so the lead can weigh the
// gaps or report insufficient data when nothing usable remains.
func SynthesisPrompt(in workflow.AggregateInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "As the Lead Analyst, synthesize the following analyses for: %s\n", in.Query)

	for _, r := range in.Results {
		fmt.Fprintf(&sb, "\n=== %s ANALYSIS ===\n", strings.ToUpper(r.WorkerID))
		if r.Outcome.Success() {
			sb.WriteString(r.Outcome.Text)
			sb.WriteString("\n")
		} else {
			fmt.Fprintf(&sb, "UNAVAILABLE: this analysis failed (%v). "+
				"Account for the missing perspective in your confidence level.\n", r.Outcome.Err)
		}
	}

	if in.Failures() == len(in.Results) {
		sb.WriteString("\nEvery analysis failed. Report that there is insufficient data " +
			"for a recommendation and summarize the failures.\n")
		return sb.String()
	}

	sb.WriteString(`
Provide a comprehensive recommendation including:
1. **Executive Summary**: one-paragraph overview
2. **Bull Case**: key reasons to be positive
3. **Bear Case**: key reasons to be cautious
4. **Risk Assessment**: major risks to monitor
5. **Recommendation**: BUY / HOLD / SELL with confidence level (1-10)
6. **Key Catalysts**: what to watch for

Be balanced and consider all perspectives from the specialized analyses.
`)
	return sb.String()
}
