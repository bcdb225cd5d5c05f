package mafia

import "github.com/lorenzotomasdiez/llm-mafia/internal/roster"

// Evaluate checks the win condition. Town wins once no mafia is alive; the
// mafia wins once it is at least as large as everyone else still alive.
func Evaluate(agents []*roster.Agent) Winner {
	var mafia, others int
	for _, a := range agents {
		switch {
		case !a.Alive:
		case a.IsMafia():
			mafia++
		default:
			others++
		}
	}
	switch {
	case mafia == 0:
		return Town
	case mafia >= others:
		return MafiaWin
	default:
		return NoWinner
	}
}
