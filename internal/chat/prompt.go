package chat

import (
	"fmt"
	"strings"

	"github.com/careerpilot/careerpilot/internal/sanitize"
	"github.com/careerpilot/careerpilot/internal/types"
)

// queryPrompt asks the model to compress the question into a short search
// query.
func queryPrompt(question string, profile types.UserProfile) string {
	return fmt.Sprintf(`Compress the question below into a 2-5 word job-search query.
Reply with the query only, no punctuation, no explanation.

Target position: %s
Question: %s`, profile.Position, question)
}

// composePrompt builds the final answer prompt: question, profile summary,
// up to 8 job snippets, and the last 6 conversation turns.
func composePrompt(question string, profile types.UserProfile, jobs []types.JobRecord, history []types.ConversationTurn) string {
	var b strings.Builder

	b.WriteString("You are a friendly, practical career advisor. Answer the user's question directly and concretely.\n\n")

	b.WriteString("## User profile\n")
	fmt.Fprintf(&b, "Target position: %s\n", profile.Position)
	fmt.Fprintf(&b, "Experience level: %s\n", profile.ExperienceLevel)
	if profile.LinkedIn != nil {
		writeLinkedInSummary(&b, profile.LinkedIn)
	}

	if len(jobs) > 0 {
		b.WriteString("\n## Current job postings\n")
		for i, job := range jobs {
			if i == types.MaxJobSnippets {
				break
			}
			fmt.Fprintf(&b, "%d. %s at %s (%s) - %s\n", i+1, job.Title, job.Company, job.Location,
				truncate(job.Description, types.MaxSnippetDescLen))
		}
	}

	if turns := types.RecentTurns(history, types.MaxPromptTurns); len(turns) > 0 {
		b.WriteString("\n## Recent conversation\n")
		for _, turn := range turns {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, truncate(sanitize.Clean(turn.Content), types.MaxTurnChars))
		}
	}

	b.WriteString("\n## Question\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// writeLinkedInSummary renders the scraped profile snapshot.
func writeLinkedInSummary(b *strings.Builder, p *types.ProfileRecord) {
	if p.Headline != "" {
		fmt.Fprintf(b, "Headline: %s\n", sanitize.Clean(p.Headline))
	}
	if p.CurrentRole.Title != "" {
		fmt.Fprintf(b, "Current role: %s at %s\n", sanitize.Clean(p.CurrentRole.Title), sanitize.Clean(p.CurrentRole.Company))
	}
	if len(p.Skills) > 0 {
		fmt.Fprintf(b, "Skills: %s\n", sanitize.Clean(strings.Join(p.Skills, ", ")))
	}
	if p.About != "" {
		fmt.Fprintf(b, "About: %s\n", truncate(sanitize.Clean(p.About), types.MaxTurnChars))
	}
}

// truncate cuts s to at most max runes, ellipsis included.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
