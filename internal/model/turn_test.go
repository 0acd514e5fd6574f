package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TurnSuite struct {
	suite.Suite
	start time.Time
	turn  *Turn
}

func TestTurnSuite(t *testing.T) {
	suite.Run(t, new(TurnSuite))
}

func (s *TurnSuite) SetupTest() {
	s.start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	turn, err := CreateInitialTurn("drawer", 60, s.start)
	s.Require().NoError(err)
	s.turn = turn
}

func (s *TurnSuite) drawing(answer string) {
	s.Require().NoError(s.turn.SetAnswerAndStartDrawing(answer, s.start.Add(5*time.Second)))
}

func (s *TurnSuite) TestCreateInitial() {
	s.Equal(1, s.turn.TurnNumber())
	s.Equal(PlayerID("drawer"), s.turn.DrawerID())
	s.Equal(TurnStatusSettingAnswer, s.turn.Status())
	s.Equal(60, s.turn.TimeLimitSeconds())
	s.Equal(s.start, s.turn.StartedAt())
	_, ok := s.turn.Answer()
	s.False(ok)
	_, ok = s.turn.EndedAt()
	s.False(ok)
	s.Empty(s.turn.CorrectPlayerIDs())
}

func (s *TurnSuite) TestConstructionValidation() {
	_, err := NewTurn(0, "d", 60, s.start)
	s.ErrorIs(err, ErrInvalidTurnNumber)
	_, err = NewTurn(11, "d", 60, s.start)
	s.ErrorIs(err, ErrInvalidTurnNumber)
	_, err = NewTurn(1, "", 60, s.start)
	s.ErrorIs(err, ErrInvalidDrawerID)
	_, err = NewTurn(1, "d", 0, s.start)
	s.ErrorIs(err, ErrInvalidTurnTimeLimit)
	_, err = NewTurn(1, "d", 301, s.start)
	s.ErrorIs(err, ErrInvalidTurnTimeLimit)
	_, err = RestoreTurn(TurnState{TurnNumber: 1, DrawerID: "d", TimeLimitSeconds: 60, Status: "bogus"})
	s.Equal(CodeInvalidTurnStatus, CodeOf(err))
}

func (s *TurnSuite) TestSetAnswerAndStartDrawing() {
	at := s.start.Add(10 * time.Second)
	s.Require().NoError(s.turn.SetAnswerAndStartDrawing(" ねこ ", at))

	answer, ok := s.turn.Answer()
	s.True(ok)
	s.Equal("ねこ", answer.String())
	s.Equal(TurnStatusDrawing, s.turn.Status())
	s.Equal(at, s.turn.StartedAt())
}

func (s *TurnSuite) TestSetAnswerRejectsInvalidAnswerWithoutChanges() {
	err := s.turn.SetAnswerAndStartDrawing("cat", s.start.Add(time.Second))
	s.ErrorIs(err, ErrAnswerInvalidChars)
	s.Equal(TurnStatusSettingAnswer, s.turn.Status())
	s.Equal(s.start, s.turn.StartedAt())
	_, ok := s.turn.Answer()
	s.False(ok)
}

func (s *TurnSuite) TestCheckAnswerCorrectTrimmed() {
	s.drawing("ねこ")
	at := s.start.Add(20 * time.Second)

	correct, err := s.turn.CheckAnswer(" ねこ ", "p-2", at)
	s.Require().NoError(err)
	s.True(correct)
	s.Equal(TurnStatusFinished, s.turn.Status())
	s.True(s.turn.HasCorrectPlayer("p-2"))
	ended, ok := s.turn.EndedAt()
	s.True(ok)
	s.Equal(at, ended)
}

func (s *TurnSuite) TestCheckAnswerWrongLeavesTurnUnchanged() {
	s.drawing("ねこ")

	correct, err := s.turn.CheckAnswer("いぬ", "p-2", s.start.Add(20*time.Second))
	s.Require().NoError(err)
	s.False(correct)
	s.Equal(TurnStatusDrawing, s.turn.Status())
	s.Empty(s.turn.CorrectPlayerIDs())
	_, ok := s.turn.EndedAt()
	s.False(ok)
}

func (s *TurnSuite) TestCheckAnswerEmptyGuessOrNoAnswer() {
	correct, err := s.turn.CheckAnswer("ねこ", "p-2", s.start)
	s.Require().NoError(err)
	s.False(correct)

	s.drawing("ねこ")
	correct, err = s.turn.CheckAnswer("   ", "p-2", s.start)
	s.Require().NoError(err)
	s.False(correct)
	s.Equal(TurnStatusDrawing, s.turn.Status())
}

func (s *TurnSuite) TestCheckAnswerRequiresPlayerID() {
	s.drawing("ねこ")
	_, err := s.turn.CheckAnswer("ねこ", "", s.start)
	s.ErrorIs(err, ErrPlayerIDRequired)
	s.Equal(TurnStatusDrawing, s.turn.Status())
}

func (s *TurnSuite) TestFinishTurnByTimeout() {
	at := s.start.Add(time.Minute)
	s.turn.FinishTurnByTimeout(at)
	s.Equal(TurnStatusFinished, s.turn.Status())
	ended, _ := s.turn.EndedAt()
	s.Equal(at, ended)

	later := at.Add(time.Second)
	s.turn.FinishTurnByTimeout(later)
	s.Equal(TurnStatusFinished, s.turn.Status())
}

func (s *TurnSuite) TestAddCorrectPlayerIsIdempotent() {
	s.Require().NoError(s.turn.AddCorrectPlayer("p-2"))
	s.Require().NoError(s.turn.AddCorrectPlayer("p-2"))
	s.Require().NoError(s.turn.AddCorrectPlayer("p-3"))
	s.Len(s.turn.CorrectPlayerIDs(), 2)
	s.Equal(TurnStatusSettingAnswer, s.turn.Status())
	s.ErrorIs(s.turn.AddCorrectPlayer(""), ErrPlayerIDRequired)
}

func (s *TurnSuite) TestDeadline() {
	s.Equal(s.start.Add(time.Minute), s.turn.Deadline())
	s.False(s.turn.IsExpired(s.start.Add(59 * time.Second)))
	s.True(s.turn.IsExpired(s.start.Add(time.Minute)))
}

func (s *TurnSuite) TestStateRoundTrip() {
	s.drawing("ねこ")
	_, _ = s.turn.CheckAnswer("ねこ", "p-2", s.start.Add(30*time.Second))

	restored, err := RestoreTurn(s.turn.State())
	s.Require().NoError(err)
	s.Equal(s.turn.State(), restored.State())
}

func (s *TurnSuite) TestCorrectPlayerIDsReturnsCopy() {
	s.Require().NoError(s.turn.AddCorrectPlayer("p-2"))
	ids := s.turn.CorrectPlayerIDs()
	ids[0] = "mutated"
	s.True(s.turn.HasCorrectPlayer("p-2"))
}

func TestRound(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	turn, err := CreateInitialTurn("d", 60, start)
	require.NoError(t, err)

	round, err := CreateInitialRound(turn, start)
	require.NoError(t, err)
	assert.Equal(t, 1, round.RoundNumber())
	assert.Same(t, turn, round.CurrentTurn())
	_, ended := round.EndedAt()
	assert.False(t, ended)

	_, err = NewRound(0, turn, start, nil)
	assert.ErrorIs(t, err, ErrInvalidRoundNumber)
	_, err = NewRound(11, turn, start, nil)
	assert.ErrorIs(t, err, ErrInvalidRoundNumber)
	_, err = NewRound(1, nil, start, nil)
	assert.ErrorIs(t, err, ErrCurrentTurnRequired)

	next, err := NewTurn(2, "d", 60, start)
	require.NoError(t, err)
	require.NoError(t, round.SetTurn(next))
	assert.Same(t, next, round.CurrentTurn())
	assert.ErrorIs(t, round.SetTurn(nil), ErrCurrentTurnRequired)

	round.SetStartTime(start.Add(time.Second))
	assert.Equal(t, start.Add(time.Second), round.StartedAt())
	round.SetEndTime(start.Add(time.Hour))
	end, ok := round.EndedAt()
	assert.True(t, ok)
	assert.Equal(t, start.Add(time.Hour), end)
}
