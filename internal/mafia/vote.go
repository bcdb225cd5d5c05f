package mafia

import (
	"context"

	"github.com/lorenzotomasdiez/llm-mafia/internal/mafia/textparse"
	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
	"github.com/lorenzotomasdiez/llm-mafia/internal/tracer"
)

const decisionMinWords = 1

// votingPhase has every alive player vote for someone else and eliminates
// the player with the most votes. A tie is broken at random.
func (e *Engine) votingPhase(ctx context.Context) (*roster.Agent, error) {
	e.session.setPhase(PhaseVoting)
	ctx, span := tracer.StartSpan(ctx, "mafia.voting", tracer.IntAttr("day", e.session.Day()))
	defer span.End()

	e.session.Announce(KindBanner, "VOTING PHASE")
	alive := roster.Alive(e.agents)
	names := roster.Names(alive)
	eliminated := eliminatedNames(e.agents)
	history := e.session.RecentPublic(e.opts.VotingHistory)

	votes := make([]string, len(alive))
	err := e.forEach(ctx, len(alive), func(ctx context.Context, i int) error {
		voter := alive[i]
		valid := without(names, voter.Name)
		if len(valid) == 0 {
			return nil
		}
		r, err := e.ask(ctx, voter, voteTask(eliminated, valid), history, decisionMinWords)
		if err != nil {
			return err
		}
		target, ok := "", false
		if r.Usable {
			target, ok = textparse.ExtractVote(r.Text, valid)
		}
		if target == voter.Name {
			target, ok = "", false
		}
		if ok {
			e.session.Announce(KindVote, "%s votes: %s", voter.Name, target)
		} else {
			target = e.pick(valid)
			e.session.Announce(KindVote, "%s votes: %s (default)", voter.Name, target)
		}
		votes[i] = target
		return nil
	})
	if err != nil {
		tracer.RecordError(span, err)
		return nil, phaseError(PhaseVoting, err)
	}

	tied := leaders(votes)
	if len(tied) == 0 {
		return nil, nil
	}
	name := tied[0]
	if len(tied) > 1 {
		name = e.pick(tied)
	}
	out := roster.Find(alive, name)
	e.eliminate(out, "%s has been eliminated! They were: %s")
	span.SetAttributes(tracer.StringAttr("eliminated", out.Name))
	return out, nil
}

// leaders tallies votes and returns every name sharing the top count, in the
// order each name first received a vote. Empty votes are ignored.
func leaders(votes []string) []string {
	counts := make(map[string]int)
	var order []string
	for _, v := range votes {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best := 0
	for _, name := range order {
		best = max(best, counts[name])
	}
	var tied []string
	for _, name := range order {
		if counts[name] == best {
			tied = append(tied, name)
		}
	}
	return tied
}
