package scoring

import (
	"slices"

	"github.com/mcoot/drawguess/internal/model"
)

// Standing is one player's cumulative result in a game
type Standing struct {
	PlayerID       model.PlayerID
	Name           string
	Score          int
	CorrectAnswers int
	Penalties      int
	Rank           int
}

// Summary is the final result of a game
type Summary struct {
	GameID    model.GameID
	Status    model.GameStatus
	Standings []Standing
	// Winner is empty when the top score is shared
	Winner model.PlayerID
}

// Service derives standings from a game's score history
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// Standings totals every player's signed points. Players appear once each,
// highest score first, with ties kept in join order and given the same rank.
// Records for players no longer in the game are ignored.
func (s *Service) Standings(game *model.Game) []Standing {
	players := game.Players()
	standings := make([]Standing, len(players))
	index := make(map[model.PlayerID]int, len(players))
	for i, p := range players {
		standings[i] = Standing{PlayerID: p.ID, Name: p.Name.String()}
		index[p.ID] = i
	}

	for _, sh := range game.ScoreHistories() {
		i, ok := index[sh.PlayerID()]
		if !ok {
			continue
		}
		standings[i].Score += sh.SignedPoints()
		switch sh.Reason() {
		case model.ScoreReasonCorrectAnswer:
			standings[i].CorrectAnswers++
		case model.ScoreReasonDrawerPenalty:
			standings[i].Penalties++
		}
	}

	slices.SortStableFunc(standings, func(a, b Standing) int {
		return b.Score - a.Score
	})

	for i := range standings {
		if i > 0 && standings[i].Score == standings[i-1].Score {
			standings[i].Rank = standings[i-1].Rank
		} else {
			standings[i].Rank = i + 1
		}
	}
	return standings
}

// ScoreFor returns one player's total, or false if the player is not in the game
func (s *Service) ScoreFor(game *model.Game, playerID model.PlayerID) (int, bool) {
	for _, st := range s.Standings(game) {
		if st.PlayerID == playerID {
			return st.Score, true
		}
	}
	return 0, false
}

// DetermineWinner returns the winner's PlayerID, or empty string if tie
func (s *Service) DetermineWinner(standings []Standing) model.PlayerID {
	if len(standings) == 0 {
		return ""
	}
	if len(standings) > 1 && standings[1].Score == standings[0].Score {
		return "" // Tie
	}
	return standings[0].PlayerID
}

// Summarize builds the standings and winner for a game in any status
func (s *Service) Summarize(game *model.Game) Summary {
	standings := s.Standings(game)
	return Summary{
		GameID:    game.ID(),
		Status:    game.Status(),
		Standings: standings,
		Winner:    s.DetermineWinner(standings),
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Standings(game *model.Game) []Standing
	ScoreFor(game *model.Game, playerID model.PlayerID) (int, bool)
	DetermineWinner(standings []Standing) model.PlayerID
	Summarize(game *model.Game) Summary
}

var _ ServiceInterface = (*Service)(nil)
