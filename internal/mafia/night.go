package mafia

import (
	"context"
	"fmt"

	"github.com/lorenzotomasdiez/llm-mafia/internal/mafia/textparse"
	"github.com/lorenzotomasdiez/llm-mafia/internal/roster"
	"github.com/lorenzotomasdiez/llm-mafia/internal/tracer"
)

// nightPlan collects the independent night decisions before they are
// resolved. Each role action writes only its own fields.
type nightPlan struct {
	kill string

	detective    *roster.Agent
	investigated string

	doctor    *roster.Agent
	protected string
}

// roleAction is the night behaviour of one role. actors are the alive
// holders of the role, in roster order.
type roleAction struct {
	role roster.Role
	act  func(ctx context.Context, actors []*roster.Agent, history string, plan *nightPlan) error
}

func (e *Engine) nightActions() []roleAction {
	return []roleAction{
		{role: roster.Mafia, act: e.chooseKillTarget},
		{role: roster.Detective, act: e.investigate},
		{role: roster.Doctor, act: e.protect},
	}
}

func (e *Engine) nightPhase(ctx context.Context) error {
	e.session.setPhase(PhaseNight)
	day := e.session.Day()
	ctx, span := tracer.StartSpan(ctx, "mafia.night", tracer.IntAttr("day", day))
	defer span.End()

	e.session.Announce(KindBanner, "NIGHT %d", day)
	history := e.session.RecentPublic(e.opts.NightHistory)

	type job struct {
		action roleAction
		actors []*roster.Agent
	}
	var jobs []job
	for _, ra := range e.nightActions() {
		if actors := roster.AliveWithRole(e.agents, ra.role); len(actors) > 0 {
			jobs = append(jobs, job{action: ra, actors: actors})
		}
	}

	plan := &nightPlan{}
	err := e.forEach(ctx, len(jobs), func(ctx context.Context, i int) error {
		return jobs[i].action.act(ctx, jobs[i].actors, history, plan)
	})
	if err != nil {
		tracer.RecordError(span, err)
		return phaseError(PhaseNight, err)
	}
	e.resolveNight(day, plan)
	return nil
}

func (e *Engine) resolveNight(day int, plan *nightPlan) {
	if plan.investigated != "" {
		verdict := "INNOCENT"
		if t := roster.Find(e.agents, plan.investigated); t != nil && t.IsMafia() {
			verdict = "MAFIA"
		}
		e.session.AddNote(plan.detective.Name, fmt.Sprintf("Night %d: Investigated %s - %s", day, plan.investigated, verdict))
		e.session.Record(KindSecret, "%s investigated %s: %s", plan.detective.Name, plan.investigated, verdict)
	}
	if plan.protected != "" {
		e.session.Record(KindSecret, "%s protected %s", plan.doctor.Name, plan.protected)
	}

	switch {
	case plan.kill != "" && plan.kill != plan.protected:
		e.eliminate(roster.Find(e.agents, plan.kill), "%s was killed during the night! They were: %s")
	case plan.kill != "":
		e.session.Announce(KindSaved, "The doctor's protection saved %s!", plan.kill)
	default:
		e.session.Announce(KindCalm, "No one died during the night.")
	}
}

// investigate lets the first alive detective check one other player.
func (e *Engine) investigate(ctx context.Context, detectives []*roster.Agent, history string, plan *nightPlan) error {
	d := detectives[0]
	valid := without(roster.Names(roster.Alive(e.agents)), d.Name)
	if len(valid) == 0 {
		return nil
	}
	target, err := e.chooseTarget(ctx, d, investigateTask(valid), history, valid)
	if err != nil {
		return err
	}
	plan.detective, plan.investigated = d, target
	return nil
}

// protect lets the first alive doctor shield any alive player, themselves
// included.
func (e *Engine) protect(ctx context.Context, doctors []*roster.Agent, history string, plan *nightPlan) error {
	d := doctors[0]
	valid := roster.Names(roster.Alive(e.agents))
	target, err := e.chooseTarget(ctx, d, protectTask(valid), history, valid)
	if err != nil {
		return err
	}
	plan.doctor, plan.protected = d, target
	return nil
}

// chooseTarget asks for a single name and falls back to a random valid one
// when the reply names nobody.
func (e *Engine) chooseTarget(ctx context.Context, a *roster.Agent, task, history string, valid []string) (string, error) {
	r, err := e.ask(ctx, a, task, history, decisionMinWords)
	if err != nil {
		return "", err
	}
	if r.Usable {
		if target, ok := textparse.ExtractVote(r.Text, valid); ok {
			return target, nil
		}
	}
	target := e.pick(valid)
	e.logger.Debug("unparseable night choice, picked at random", "agent", a.Name, "role", a.Role.String(), "reply", r.Text, "target", target)
	return target, nil
}
