package game

import "github.com/jayden-sudo/ZK-Battleship/core"

// role identifies a party of a game independently of account identity.
type role uint8

const (
	roleCreator role = iota
	roleJoiner
)

func (r role) other() role {
	if r == roleCreator {
		return roleJoiner
	}
	return roleCreator
}

// transition describes what the live phase admits: the kind of item, which
// party produces it, whose board it lands on, and the phase that follows.
// Shots land on the opponent's board; reports describe the mover's own board.
type transition struct {
	kind     core.ItemKind
	mover    role
	defender role
	next     core.NextTurnState
}

var transitions = map[core.NextTurnState]transition{
	core.StateCreatorFire:   {core.ItemShot, roleCreator, roleJoiner, core.StateJoinerReport},
	core.StateJoinerFire:    {core.ItemShot, roleJoiner, roleCreator, core.StateCreatorReport},
	core.StateCreatorReport: {core.ItemReport, roleCreator, roleCreator, core.StateCreatorFire},
	core.StateJoinerReport:  {core.ItemReport, roleJoiner, roleJoiner, core.StateJoinerFire},
}
