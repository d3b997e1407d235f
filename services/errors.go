package services

import "errors"

// Общие ошибки движка, используемые сервисами матчей и таблицы.
var (
	// Ошибки действий над матчем
	ErrInvalidStateTransition = errors.New("action is not legal for the current match status")
	ErrInvalidScoreDelta      = errors.New("score delta must be one of +1, +2, +3 or -1")
	ErrTeamNotInMatch         = errors.New("team does not participate in this match")
	ErrMatchNotModifiable     = errors.New("match is in a terminal status and cannot be modified")
	ErrMatchNotDeletable      = errors.New("match cannot be deleted")

	// Ошибки входных данных таблицы
	ErrStandingsInput = errors.New("completed match record is missing required fields")
)
