package mafia

import (
	"context"
	"strings"

	"github.com/lorenzotomasdiez/llm-mafia/internal/mafia/textparse"
	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
)

// chooseKillTarget settles the mafia's night kill. A lone member decides
// directly; several members whisper first and then vote.
func (e *Engine) chooseKillTarget(ctx context.Context, mafia []*roster.Agent, history string, plan *nightPlan) error {
	var valid []string
	for _, a := range roster.Alive(e.agents) {
		if !a.IsMafia() {
			valid = append(valid, a.Name)
		}
	}
	if len(valid) == 0 {
		e.session.Record(KindWhisper, "The mafia has no one left to target")
		return nil
	}

	var (
		target string
		err    error
	)
	if len(mafia) == 1 {
		target, err = e.soloKill(ctx, mafia[0], history, valid)
	} else {
		target, err = e.councilKill(ctx, mafia, history, valid)
	}
	if err != nil {
		return err
	}
	plan.kill = target
	return nil
}

// soloKill asks the last mafia member up to MafiaRetries times. NO_KILL is
// honoured when stated; after the retries run out a random target is forced.
func (e *Engine) soloKill(ctx context.Context, m *roster.Agent, history string, valid []string) (string, error) {
	task := soloKillTask(valid)
	for attempt := 1; attempt <= e.opts.MafiaRetries; attempt++ {
		r, err := e.ask(ctx, m, task, history, decisionMinWords)
		if err != nil {
			return "", err
		}
		if !r.Usable {
			continue
		}
		switch d := textparse.ParseMafiaChoice(r.Text, valid); d.Kind {
		case textparse.NoAction:
			e.session.Record(KindWhisper, "%s chooses NO_KILL", m.Name)
			return "", nil
		case textparse.Chosen:
			e.session.Record(KindWhisper, "%s chooses to kill %s", m.Name, d.Target)
			return d.Target, nil
		}
		e.logger.Debug("unparseable mafia choice", "agent", m.Name, "attempt", attempt, "reply", r.Text)
	}
	target := e.pick(valid)
	e.logger.Warn("mafia choice forced at random", "agent", m.Name, "target", target)
	e.session.Record(KindWhisper, "%s chooses to kill %s (default)", m.Name, target)
	return target, nil
}

// councilKill runs the private mafia chat and a final vote. Ties go to the
// name that was voted for first.
func (e *Engine) councilKill(ctx context.Context, mafia []*roster.Agent, history string, valid []string) (string, error) {
	e.session.Record(KindWhisper, "MAFIA WHISPER CHANNEL (private)")
	var chat []string
	rounds := e.opts.MafiaChatRounds
	for round := 1; round <= rounds; round++ {
		e.session.Record(KindWhisper, "  (round %d/%d)", round, rounds)
		for _, m := range mafia {
			r, err := e.ask(ctx, m, whisperTask(valid), whisperHistory(history, chat), discussionMinWords)
			if err != nil {
				return "", err
			}
			line := m.Name + ": " + r.Text
			chat = append(chat, line)
			e.session.Record(KindWhisper, "  %s", line)
		}
	}

	transcript := strings.Join(chat, "\n")
	votes := make([]string, len(mafia))
	err := e.forEach(ctx, len(mafia), func(ctx context.Context, i int) error {
		m := mafia[i]
		r, err := e.ask(ctx, m, finalTargetTask(valid), transcript, decisionMinWords)
		if err != nil {
			return err
		}
		if !r.Usable {
			return nil
		}
		if target, ok := textparse.ExtractVote(r.Text, valid); ok {
			votes[i] = target
			e.session.Record(KindWhisper, "%s picks %s", m.Name, target)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if tied := leaders(votes); len(tied) > 0 {
		e.session.Record(KindWhisper, "The mafia settles on %s", tied[0])
		return tied[0], nil
	}
	target := e.pick(valid)
	e.logger.Warn("no parseable mafia vote, target picked at random", "target", target)
	e.session.Record(KindWhisper, "The mafia settles on %s (default)", target)
	return target, nil
}
