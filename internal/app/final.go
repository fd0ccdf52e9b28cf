package app

import (
	"jeopardy/internal/domain"
)

// StartFinal leaves board play and shows the final category
func (s *GameSession) StartFinal(role domain.ConnectionRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsHost() {
		return s.ignore("start_final", role, domain.ErrIllegalTransition)
	}
	if err := s.game.StartFinal(); err != nil {
		return s.ignore("start_final", role, err)
	}
	s.cancelCountdown()

	s.publish(domain.EventFinalStarted, &domain.FinalStartedPayload{Category: s.game.Final.Clue.Category}, AudienceAll)
	s.publish(domain.EventFinalAdvanced, &domain.FinalAdvancedPayload{Stage: s.game.Final.Stage}, AudienceAll)
	s.broadcastSnapshots()
	return nil
}

// AdvanceFinal moves the final sequencer one stage forward
func (s *GameSession) AdvanceFinal(role domain.ConnectionRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsHost() {
		return s.ignore("advance_final", role, domain.ErrIllegalTransition)
	}
	stage, err := s.game.AdvanceFinal()
	if err != nil {
		return s.ignore("advance_final", role, err)
	}

	s.publish(domain.EventFinalAdvanced, &domain.FinalAdvancedPayload{Stage: stage}, AudienceAll)

	switch stage {
	case domain.FinalAnswering:
		s.publish(domain.EventFinalClue, &domain.FinalCluePayload{
			Category: s.game.Final.Clue.Category,
			Clue:     s.game.Final.Clue.Clue,
		}, AudienceAll)
	case domain.FinalRevealing:
		s.publish(domain.EventFinalRevealStep, &domain.FinalRevealStepPayload{
			PlayerID: s.game.Final.CurrentRevealPlayerID(),
			Step:     s.game.Final.RevealStep,
		}, AudienceAll)
	case domain.FinalResults:
		s.finish()
		return nil
	}

	s.broadcastSnapshots()
	return nil
}

// SubmitFinalWager stores a player's clamped final wager
func (s *GameSession) SubmitFinalWager(role domain.ConnectionRole, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsPlayer() {
		return s.ignore("final_wager", role, domain.ErrIllegalTransition)
	}
	if _, err := s.game.SubmitFinalWager(role.PlayerID, amount); err != nil {
		return s.ignore("final_wager", role, err)
	}
	s.broadcastSnapshots()
	return nil
}

// SubmitFinalAnswer stores a player's single final answer
func (s *GameSession) SubmitFinalAnswer(role domain.ConnectionRole, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsPlayer() {
		return s.ignore("final_answer", role, domain.ErrIllegalTransition)
	}
	if err := s.game.SubmitFinalAnswer(role.PlayerID, answer); err != nil {
		return s.ignore("final_answer", role, err)
	}
	s.broadcastSnapshots()
	return nil
}

// JudgeFinal records the host's judgment for the card being revealed
func (s *GameSession) JudgeFinal(role domain.ConnectionRole, playerID string, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsHost() {
		return s.ignore("judge_final", role, domain.ErrIllegalTransition)
	}
	if err := s.game.JudgeFinal(playerID, correct); err != nil {
		return s.ignore("judge_final", role, err)
	}

	s.publish(domain.EventFinalJudgeResult, &domain.FinalJudgeResultPayload{
		PlayerID: playerID,
		Correct:  correct,
	}, AudienceAll)
	s.broadcastSnapshots()
	return nil
}

// AdvanceFinalReveal drives the reveal stepper one step
func (s *GameSession) AdvanceFinalReveal(role domain.ConnectionRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsHost() {
		return s.ignore("advance_final_reveal", role, domain.ErrIllegalTransition)
	}
	out, err := s.game.AdvanceReveal()
	if err != nil {
		return s.ignore("advance_final_reveal", role, err)
	}

	if out.Finished {
		s.publish(domain.EventFinalAdvanced, &domain.FinalAdvancedPayload{Stage: s.game.Final.Stage}, AudienceAll)
		s.finish()
		return nil
	}

	s.publish(domain.EventFinalRevealStep, domain.NewRevealStepPayload(out), AudienceAll)
	s.broadcastSnapshots()
	return nil
}

// finish announces the results and hands them to the results publisher
func (s *GameSession) finish() {
	s.publish(domain.EventFinished, &domain.FinishedPayload{
		Scores:   s.game.Standings(),
		Winners:  s.game.Winners(),
		Response: s.game.Final.Clue.Response,
	}, AudienceAll)
	s.broadcastSnapshots()

	results := s.game.Results(s.clock.Now())
	s.logger.Info().Strs("winners", results.Winners).Msg("game finished")
	go s.publishResults(results)
}
