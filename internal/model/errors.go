package model

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable error code
type Code string

// Kind groups codes into the three failure families of the aggregate
type Kind string

const (
	KindValidation Kind = "validation" // input violates a range or format rule
	KindTransition Kind = "transition" // operation not allowed in the current state
	KindMissing    Kind = "missing"    // a required reference is absent
)

const (
	CodeUnknown Code = "UNKNOWN"

	// Value object codes
	CodeInvalidGameID        Code = "INVALID_GAME_ID"
	CodeInvalidPlayerID      Code = "INVALID_PLAYER_ID"
	CodePlayerNameEmpty      Code = "PLAYER_NAME_EMPTY"
	CodePlayerNameTooLong    Code = "PLAYER_NAME_TOO_LONG"
	CodeAnswerEmpty          Code = "ANSWER_EMPTY"
	CodeAnswerTooLong        Code = "ANSWER_TOO_LONG"
	CodeAnswerInvalidChars   Code = "ANSWER_INVALID_CHARACTERS"
	CodeInvalidTimeLimit     Code = "INVALID_TIME_LIMIT"
	CodeInvalidRoundCount    Code = "INVALID_ROUND_COUNT"
	CodeInvalidPlayerCount   Code = "INVALID_PLAYER_COUNT"
	CodeInvalidTurnNumber    Code = "INVALID_TURN_NUMBER"
	CodeInvalidTurnTimeLimit Code = "INVALID_TURN_TIME_LIMIT"
	CodeInvalidDrawerID      Code = "INVALID_DRAWER_ID"
	CodeInvalidTurnStatus    Code = "INVALID_TURN_STATUS"
	CodeInvalidRoundNumber   Code = "INVALID_ROUND_NUMBER"
	CodeInvalidPoints        Code = "INVALID_POINTS"
	CodeInvalidScoreReason   Code = "INVALID_SCORE_REASON"
	CodeInvalidGameStatus    Code = "INVALID_GAME_STATUS"
	CodeInvalidPlayerStatus  Code = "INVALID_PLAYER_STATUS"
	CodeDuplicatePlayer      Code = "DUPLICATE_PLAYER"
	CodeDrawerNotInGame      Code = "DRAWER_NOT_IN_GAME"

	// Missing reference codes
	CodeGameIDRequired         Code = "GAME_ID_REQUIRED"
	CodeSettingsRequired       Code = "SETTINGS_REQUIRED"
	CodeCurrentRoundRequired   Code = "CURRENT_ROUND_REQUIRED"
	CodeCurrentTurnRequired    Code = "CURRENT_TURN_REQUIRED"
	CodePlayersRequired        Code = "PLAYERS_REQUIRED"
	CodeScoreHistoriesRequired Code = "SCORE_HISTORIES_REQUIRED"
	CodePlayerIDRequired       Code = "PLAYER_ID_REQUIRED"
	CodeGameRequired           Code = "GAME_REQUIRED"

	// Transition codes
	CodeCannotAddPlayerAfterStart Code = "CANNOT_ADD_PLAYER_AFTER_START"
	CodePlayerLimitExceeded       Code = "PLAYER_LIMIT_EXCEEDED"
	CodePlayerAlreadyJoined       Code = "PLAYER_ALREADY_JOINED"
	CodePlayerNotFound            Code = "PLAYER_NOT_FOUND"
	CodeInvalidPlayerToken        Code = "INVALID_PLAYER_TOKEN"
	CodeAlreadyStarted            Code = "ALREADY_STARTED"
	CodeInsufficientPlayers       Code = "INSUFFICIENT_PLAYERS"
	CodeNotAllPlayersReady        Code = "NOT_ALL_PLAYERS_READY"
	CodeAlreadyEnded              Code = "ALREADY_ENDED"
	CodeGameNotPlaying            Code = "GAME_NOT_PLAYING"
	CodeNotDrawer                 Code = "NOT_DRAWER"
	CodeNotCreator                Code = "NOT_CREATOR"
	CodeDrawerCannotGuess         Code = "DRAWER_CANNOT_GUESS"
	CodeTurnNotAcceptingAnswer    Code = "TURN_NOT_ACCEPTING_ANSWER"
	CodeTurnNotDrawing            Code = "TURN_NOT_DRAWING"
	CodeTurnNotFinished           Code = "TURN_NOT_FINISHED"

	// Lookup codes (raised by the application layer, not the aggregate)
	CodeGameNotFound Code = "GAME_NOT_FOUND"
)

// Error is a typed domain failure carrying a stable code and a human message
type Error struct {
	Code    Code
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code, so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func validationError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func missingError(code Code, message string) *Error {
	return &Error{Code: code, Kind: KindMissing, Message: message}
}

func transitionError(code Code, message string) *Error {
	return &Error{Code: code, Kind: KindTransition, Message: message}
}

// CodeOf extracts the domain code from err, or CodeUnknown
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// KindOf extracts the failure kind from err, or "" for non-domain errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Sentinels for errors.Is checks
var (
	// Value objects
	ErrInvalidGameID      = validationError(CodeInvalidGameID, "game id must not be empty")
	ErrInvalidPlayerID    = validationError(CodeInvalidPlayerID, "player id must not be empty")
	ErrPlayerNameEmpty    = validationError(CodePlayerNameEmpty, "player name must not be empty")
	ErrPlayerNameTooLong  = validationError(CodePlayerNameTooLong, "player name is too long")
	ErrAnswerEmpty        = validationError(CodeAnswerEmpty, "answer must not be empty")
	ErrAnswerTooLong      = validationError(CodeAnswerTooLong, "answer is too long")
	ErrAnswerInvalidChars = validationError(CodeAnswerInvalidChars, "answer contains characters outside the allowed script")
	ErrInvalidTimeLimit   = validationError(CodeInvalidTimeLimit, "time limit out of range")
	ErrInvalidRoundCount  = validationError(CodeInvalidRoundCount, "round count out of range")
	ErrInvalidPlayerCount = validationError(CodeInvalidPlayerCount, "player count out of range")

	// Entities
	ErrInvalidTurnNumber    = validationError(CodeInvalidTurnNumber, "turn number out of range")
	ErrInvalidTurnTimeLimit = validationError(CodeInvalidTurnTimeLimit, "turn time limit out of range")
	ErrInvalidDrawerID      = validationError(CodeInvalidDrawerID, "drawer id must not be empty")
	ErrInvalidRoundNumber   = validationError(CodeInvalidRoundNumber, "round number out of range")
	ErrInvalidPoints        = validationError(CodeInvalidPoints, "points must be at least 1")
	ErrInvalidScoreReason   = validationError(CodeInvalidScoreReason, "unknown score reason")
	ErrDuplicatePlayer      = validationError(CodeDuplicatePlayer, "players share an id")
	ErrDrawerNotInGame      = validationError(CodeDrawerNotInGame, "drawer is not a player of this game")

	// Missing references
	ErrGameIDRequired         = missingError(CodeGameIDRequired, "game id is required")
	ErrSettingsRequired       = missingError(CodeSettingsRequired, "settings are required")
	ErrCurrentRoundRequired   = missingError(CodeCurrentRoundRequired, "current round is required")
	ErrCurrentTurnRequired    = missingError(CodeCurrentTurnRequired, "current turn is required")
	ErrPlayersRequired        = missingError(CodePlayersRequired, "at least one player is required")
	ErrScoreHistoriesRequired = missingError(CodeScoreHistoriesRequired, "score histories are required")
	ErrPlayerIDRequired       = missingError(CodePlayerIDRequired, "player id is required")
	ErrGameRequired           = missingError(CodeGameRequired, "game is required")

	// Transitions
	ErrCannotAddPlayerAfterStart = transitionError(CodeCannotAddPlayerAfterStart, "players can only join while waiting")
	ErrPlayerLimitExceeded       = transitionError(CodePlayerLimitExceeded, "game is full")
	ErrPlayerAlreadyJoined       = transitionError(CodePlayerAlreadyJoined, "player has already joined")
	ErrPlayerNotFound            = transitionError(CodePlayerNotFound, "player not found")
	ErrInvalidPlayerToken        = transitionError(CodeInvalidPlayerToken, "player token is not valid for this game")
	ErrNotCreator                = transitionError(CodeNotCreator, "only the player who created the game can do this")
	ErrAlreadyStarted            = transitionError(CodeAlreadyStarted, "game has already started")
	ErrInsufficientPlayers       = transitionError(CodeInsufficientPlayers, "at least two players are required to start")
	ErrNotAllPlayersReady        = transitionError(CodeNotAllPlayersReady, "not all players are ready")
	ErrAlreadyEnded              = transitionError(CodeAlreadyEnded, "game has already ended")
	ErrGameNotPlaying            = transitionError(CodeGameNotPlaying, "game is not in progress")
	ErrNotDrawer                 = transitionError(CodeNotDrawer, "only the drawer can do this")
	ErrDrawerCannotGuess         = transitionError(CodeDrawerCannotGuess, "the drawer cannot guess")
	ErrTurnNotAcceptingAnswer    = transitionError(CodeTurnNotAcceptingAnswer, "turn is not waiting for an answer")
	ErrTurnNotDrawing            = transitionError(CodeTurnNotDrawing, "turn is not in the drawing phase")
	ErrTurnNotFinished           = transitionError(CodeTurnNotFinished, "current turn has not finished")

	ErrGameNotFound = &Error{Code: CodeGameNotFound, Kind: KindMissing, Message: "game not found"}
)
