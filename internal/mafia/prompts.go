package mafia

import (
	"fmt"
	"strings"

	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
)

// DefaultSystemPrompt is used when no system prompt file is available.
const DefaultSystemPrompt = "You are a player in a game of Mafia."

const (
	retryDirect  = "Reply with a direct answer. No headings."
	retryConcise = "Provide a concise 2-4 sentence answer. No headings."

	firstDayHistory = "Day 1: No previous events. First discussion."
	emptyHistory    = "No events yet. This is the start of the game."
)

func (e *Engine) systemPrompt(a *roster.Agent, history string) string {
	var sb strings.Builder
	sb.WriteString(e.opts.SystemPrompt)
	sb.WriteString("\n\n### YOUR PERSONALITY\n")
	fmt.Fprintf(&sb, "You are %s. %s\n", a.Name, a.Personality)
	sb.WriteString("\n### YOUR ROLE\n")
	fmt.Fprintf(&sb, "Your role is: %s.\n", a.Role)
	if a.IsMafia() {
		if partners := otherNames(roster.AliveWithRole(e.agents, roster.Mafia), a.Name); len(partners) > 0 {
			fmt.Fprintf(&sb, "Your fellow mafia members are: %s.\n", strings.Join(partners, ", "))
		}
	}
	sb.WriteString("\n### CURRENT GAME STATE\nHere is the game history so far:\n")
	if strings.TrimSpace(history) == "" {
		history = emptyHistory
	}
	sb.WriteString(history)
	return sb.String()
}

func taskPrompt(task string) string {
	return "Current task: " + task
}

func retryPrompt(task string, minWords int) string {
	suffix := retryConcise
	if minWords <= 1 {
		suffix = retryDirect
	}
	return taskPrompt(task) + "\n\n" + suffix
}

func silentPlaceholder(name string) string {
	return fmt.Sprintf("*%s remains silent*", name)
}

func mumblePlaceholder(name string, err error) string {
	return fmt.Sprintf("*%s mumbles incoherently* (%v)", name, err)
}

func firstImpressionTask(candidates []string) string {
	return fmt.Sprintf("This is Day 1. No one has died yet. Based purely on first impressions, who seems suspicious? Pick ONE name from: %s. Give a brief gut feeling (1 sentence). Do NOT reference past events or history.",
		strings.Join(candidates, ", "))
}

func openingTask(day int, eliminated, anchors []string) string {
	status := "No eliminations yet"
	if len(eliminated) > 0 {
		status = "ELIMINATED (DO NOT ACCUSE): " + strings.Join(eliminated, ", ")
	}
	return fmt.Sprintf("Day %d. %s. Who among the ALIVE players is suspicious? Reference specific past behavior from: %s.",
		day, status, strings.Join(anchors, ", "))
}

func questionTask(target string) string {
	return fmt.Sprintf("Ask %s ONE direct question about their behavior or votes. Be specific (1 sentence).", target)
}

func answerTask(asker, question string) string {
	return fmt.Sprintf("%s just asked you: '%s'. Respond directly in 1-2 sentences.", asker, question)
}

func accusationTask(eliminated, candidates []string) string {
	status := "No deaths yet"
	if len(eliminated) > 0 {
		status = "DEAD/ELIMINATED: " + strings.Join(eliminated, ", ")
	}
	return fmt.Sprintf("%s. Who should be eliminated TODAY from the ALIVE players? Choose from: %s. Be decisive (1 sentence).",
		status, strings.Join(candidates, ", "))
}

func voteTask(eliminated, candidates []string) string {
	var sb strings.Builder
	sb.WriteString("Vote to eliminate ONE player.")
	if len(eliminated) > 0 {
		fmt.Fprintf(&sb, " ELIMINATED (cannot vote for): %s.", strings.Join(eliminated, ", "))
	}
	fmt.Fprintf(&sb, " You CANNOT vote for yourself. Available: %s. Reply with their name ONLY.", strings.Join(candidates, ", "))
	return sb.String()
}

func investigateTask(candidates []string) string {
	return "Choose ONE player to investigate: " + strings.Join(candidates, ", ")
}

func protectTask(candidates []string) string {
	return "Choose ONE player to protect: " + strings.Join(candidates, ", ")
}

func soloKillTask(candidates []string) string {
	return fmt.Sprintf("It's night. You are Mafia.\nChoose EXACTLY ONE of these targets: %s\nOr choose NO_KILL.\nReply with ONLY the target name or NO_KILL.",
		strings.Join(candidates, ", "))
}

func whisperTask(candidates []string) string {
	return "You are talking privately with your fellow mafia members. Decide on a target to eliminate. Valid targets: " + strings.Join(candidates, ", ")
}

func whisperHistory(base string, chat []string) string {
	transcript := "(no messages yet)"
	if len(chat) > 0 {
		transcript = strings.Join(chat, "\n")
	}
	return base + "\n\nPrivate mafia chat so far:\n" + transcript
}

func finalTargetTask(candidates []string) string {
	return fmt.Sprintf("Based on the conversation, who is the final target? Valid targets: %s\nRespond with only the name of the player you vote for.",
		strings.Join(candidates, ", "))
}

func otherNames(agents []*roster.Agent, self string) []string {
	var names []string
	for _, a := range agents {
		if a.Name != self {
			names = append(names, a.Name)
		}
	}
	return names
}
