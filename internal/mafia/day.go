package mafia

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
	"github.com/lorenzotomasdiez/llm-mafia/internal/tracer"
)

const (
	firstDayCandidates = 3
	firstDayMinWords   = 5
	openingAnchors     = 5
	questionMinWords   = 3
	discussionMinWords = 4
)

func (e *Engine) dayPhase(ctx context.Context) error {
	day := e.session.nextDay()
	e.session.setPhase(PhaseDay)
	ctx, span := tracer.StartSpan(ctx, "mafia.day", tracer.IntAttr("day", day))
	defer span.End()

	alive := roster.Alive(e.agents)
	e.session.Announce(KindBanner, "DAY %d - TOWN MEETING", day)
	e.session.Announce(KindInfo, "Alive players: %s", joinNames(roster.Names(alive)))

	steps := []func(context.Context, int, []*roster.Agent) error{
		e.openingStatements,
		e.questioningRounds,
		e.accusations,
	}
	for _, step := range steps {
		if err := step(ctx, day, alive); err != nil {
			tracer.RecordError(span, err)
			return phaseError(PhaseDay, err)
		}
	}
	return nil
}

func (e *Engine) openingStatements(ctx context.Context, day int, alive []*roster.Agent) error {
	order := e.shuffled(alive)
	names := roster.Names(alive)

	tasks := make([]string, len(order))
	var history string
	minWords := discussionMinWords
	if day == 1 {
		e.session.Announce(KindHeading, "Initial Impressions (No deaths yet, no prior behavior)")
		for i, a := range order {
			tasks[i] = firstImpressionTask(e.sample(without(names, a.Name), firstDayCandidates))
		}
		history = firstDayHistory
		minWords = firstDayMinWords
	} else {
		e.session.Announce(KindHeading, "Opening Statements")
		eliminated := eliminatedNames(e.agents)
		for i, a := range order {
			others := without(names, a.Name)
			tasks[i] = openingTask(day, eliminated, others[:min(openingAnchors, len(others))])
		}
		history = e.session.RecentPublic(e.opts.OpeningHistory)
	}

	return e.forEach(ctx, len(order), func(ctx context.Context, i int) error {
		a := order[i]
		r, err := e.ask(ctx, a, tasks[i], history, minWords)
		if err != nil {
			return err
		}
		e.session.Announce(KindSpeech, "%s: %s", a.Name, r.Text)
		e.session.AddNote(a.Name, fmt.Sprintf("Day %d opening: %s", day, r.Text))
		return nil
	})
}

type exchange struct {
	asker, target *roster.Agent
	question      string
}

func (e *Engine) questioningRounds(ctx context.Context, day int, alive []*roster.Agent) error {
	if len(alive) < 2 {
		return nil
	}
	rounds := e.opts.QuestionRounds
	for round := 1; round <= rounds; round++ {
		e.session.Announce(KindHeading, "Questioning Round %d/%d", round, rounds)

		order := e.shuffled(alive)
		pairs := make([]exchange, len(order))
		for i, a := range order {
			others := withoutAgent(alive, a)
			var target *roster.Agent
			e.withRandIndex(len(others), func(j int) { target = others[j] })
			pairs[i] = exchange{asker: a, target: target}
		}
		history := e.session.RecentPublic(e.opts.QuestionHistory)

		err := e.forEach(ctx, len(pairs), func(ctx context.Context, i int) error {
			p := &pairs[i]
			r, err := e.ask(ctx, p.asker, questionTask(p.target.Name), history, questionMinWords)
			if err != nil {
				return err
			}
			p.question = r.Text
			e.session.Announce(KindQuestion, "%s -> %s: %s", p.asker.Name, p.target.Name, r.Text)
			e.session.AddNote(p.asker.Name, fmt.Sprintf("Day %d: Asked %s: %s", day, p.target.Name, r.Text))
			return nil
		})
		if err != nil {
			return err
		}

		err = e.forEach(ctx, len(pairs), func(ctx context.Context, i int) error {
			p := pairs[i]
			r, err := e.ask(ctx, p.target, answerTask(p.asker.Name, p.question), history, discussionMinWords)
			if err != nil {
				return err
			}
			e.session.Announce(KindSpeech, "%s: %s", p.target.Name, r.Text)
			e.session.AddNote(p.target.Name, fmt.Sprintf("Day %d: %s asked me: %s I said: %s", day, p.asker.Name, p.question, r.Text))
			e.session.AddNote(p.asker.Name, fmt.Sprintf("Day %d: %s answered me: %s", day, p.target.Name, r.Text))
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) accusations(ctx context.Context, day int, alive []*roster.Agent) error {
	e.session.Announce(KindHeading, "Final Accusations")
	order := e.shuffled(alive)
	names := roster.Names(alive)
	eliminated := eliminatedNames(e.agents)
	history := e.session.RecentPublic(e.opts.AccusationHistory)

	return e.forEach(ctx, len(order), func(ctx context.Context, i int) error {
		a := order[i]
		r, err := e.ask(ctx, a, accusationTask(eliminated, without(names, a.Name)), history, discussionMinWords)
		if err != nil {
			return err
		}
		e.session.Announce(KindAccusation, "%s: %s", a.Name, r.Text)
		return nil
	})
}

func (e *Engine) withRandIndex(n int, fn func(int)) {
	e.withRand(func(r *rand.Rand) { fn(r.IntN(n)) })
}

func without(names []string, self string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != self {
			out = append(out, n)
		}
	}
	return out
}

func withoutAgent(agents []*roster.Agent, self *roster.Agent) []*roster.Agent {
	out := make([]*roster.Agent, 0, len(agents))
	for _, a := range agents {
		if a != self {
			out = append(out, a)
		}
	}
	return out
}
