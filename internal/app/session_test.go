package app

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jeopardy/internal/domain"
)

func TestSession_HostOnlyActions(t *testing.T) {
	f := newSessionFixture(t)
	roles := f.join(t, "A")

	for _, role := range []domain.ConnectionRole{display, roles[0]} {
		assert.ErrorIs(t, f.session.StartGame(role), domain.ErrIllegalTransition)
	}
	assert.Equal(t, domain.StatusLobby, f.session.Status())

	require.NoError(t, f.session.StartGame(host))
	assert.ErrorIs(t, f.session.SelectClue(roles[0], 0, 0), domain.ErrIllegalTransition)
	assert.Nil(t, f.game.ActiveClue)
}

func TestSession_JoinBroadcastsPresence(t *testing.T) {
	f := newSessionFixture(t)
	f.join(t, "Ada")

	ev, ok := f.bc.last(domain.EventPlayerJoined)
	require.True(t, ok)
	payload := ev.Payload.(*domain.PresencePayload)
	assert.Equal(t, "Ada", payload.Name)
	assert.True(t, payload.Connected)
	assert.Equal(t, AudienceAll, ev.Audience)
}

func TestSession_RegularClueCountdownOpensBuzzing(t *testing.T) {
	f, roles := startedFixture(t, "A", "B")

	require.NoError(t, f.session.SelectClue(host, 0, 1))
	selected, ok := f.bc.last(domain.EventClueSelected)
	require.True(t, ok)
	payload := selected.Payload.(*domain.ClueSelectedPayload)
	assert.Equal(t, 400, payload.Value)
	assert.Equal(t, "prompt 0-1", payload.Prompt)
	assert.Equal(t, DefaultCountdownTicks, payload.CountdownSeconds)

	answer, ok := f.bc.last(domain.EventHostAnswer)
	require.True(t, ok)
	assert.Equal(t, AudienceHost, answer.Audience)
	assert.Equal(t, "response 0-1", answer.Payload.(*domain.HostAnswerPayload).Response)

	assert.ErrorIs(t, f.session.Buzz(roles[0]), domain.ErrIllegalTransition, "buzz before the window opens")

	cd := f.scheduler.latest()
	require.NotNil(t, cd)
	assert.Equal(t, DefaultCountdownTicks, cd.ticks)
	f.bc.reset()
	cd.run()

	assert.Equal(t, []domain.EventType{
		domain.EventBuzzCountdown, domain.EventBuzzCountdown, domain.EventBuzzCountdown, domain.EventBuzzCountdown,
		domain.EventBuzzingOpen,
	}, f.bc.kinds())
	tick, _ := f.bc.last(domain.EventBuzzCountdown)
	assert.Equal(t, 0, tick.Payload.(*domain.CountdownPayload).SecondsRemaining)
	assert.Equal(t, domain.ClueBuzzingOpen, f.game.ActiveClue.State)
	assert.Equal(t, f.clock.Now(), f.game.ActiveClue.BuzzOpenedAt)
}

func TestSession_NoEventCarriesResponseToPlayersBeforeReveal(t *testing.T) {
	f, _ := startedFixture(t, "A")
	require.NoError(t, f.session.SelectClue(host, 2, 2))

	for _, ev := range f.bc.events {
		if ev.Audience == AudienceHost {
			continue
		}
		if view, ok := ev.Payload.(*domain.GameView); ok && view.ActiveClue != nil {
			assert.Empty(t, view.ActiveClue.Response)
		}
		assert.NotEqual(t, domain.EventHostAnswer, ev.Kind)
	}
}

// Cell worth 400, A wins the race, misses, buzzing reopens with no new
// countdown, B answers correctly.
func TestSession_BuzzRaceScenario(t *testing.T) {
	f, roles := startedFixture(t, "A", "B")
	a, b := roles[0], roles[1]

	require.NoError(t, f.session.SelectClue(host, 0, 1))
	f.scheduler.latest().run()

	require.NoError(t, f.session.Buzz(a))
	f.clock.Advance(10 * time.Millisecond)
	assert.ErrorIs(t, f.session.Buzz(b), domain.ErrIllegalTransition)
	assert.Equal(t, a.PlayerID, f.game.ActiveClue.AnsweringPlayerID)

	buzzed, _ := f.bc.last(domain.EventPlayerBuzzed)
	assert.Equal(t, a.PlayerID, buzzed.Payload.(*domain.PlayerBuzzedPayload).PlayerID)

	f.bc.reset()
	require.NoError(t, f.session.Judge(host, false))
	assert.Equal(t, []domain.EventType{domain.EventJudgeResult, domain.EventBuzzingOpen}, f.bc.kinds())
	reopened, _ := f.bc.last(domain.EventBuzzingOpen)
	assert.True(t, reopened.Payload.(*domain.BuzzingOpenPayload).Reopened)
	assert.Len(t, f.scheduler.started, 1, "reopening never starts a new countdown")
	assert.Equal(t, -400, f.score(a))

	assert.ErrorIs(t, f.session.Buzz(a), domain.ErrIllegalTransition)
	require.NoError(t, f.session.Buzz(b))

	f.bc.reset()
	require.NoError(t, f.session.Judge(host, true))
	assert.Equal(t, []domain.EventType{domain.EventJudgeResult, domain.EventClueComplete}, f.bc.kinds())

	result, _ := f.bc.last(domain.EventJudgeResult)
	jr := result.Payload.(*domain.JudgeResultPayload)
	assert.True(t, jr.ClueComplete)
	assert.Equal(t, 400, jr.Amount)

	complete, _ := f.bc.last(domain.EventClueComplete)
	assert.Equal(t, AudienceAll, complete.Audience)
	assert.Equal(t, "response 0-1", complete.Payload.(*domain.ClueCompletePayload).Response)

	assert.Equal(t, 400, f.score(b))
	assert.Equal(t, b.PlayerID, f.game.LastCorrectPlayerID)
	assert.Nil(t, f.game.ActiveClue)
}

func TestSession_ConcurrentBuzzesHaveOneWinner(t *testing.T) {
	names := make([]string, 16)
	for i := range names {
		names[i] = fmt.Sprintf("P%d", i)
	}
	f, roles := startedFixture(t, names...)

	require.NoError(t, f.session.SelectClue(host, 0, 0))
	f.scheduler.latest().run()
	f.bc.reset()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		start   = make(chan struct{})
	)
	for _, role := range roles {
		wg.Add(1)
		go func(role domain.ConnectionRole) {
			defer wg.Done()
			<-start
			if err := f.session.Buzz(role); err == nil {
				mu.Lock()
				winners = append(winners, role.PlayerID)
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrIllegalTransition)
			}
		}(role)
	}
	close(start)
	wg.Wait()

	require.Len(t, winners, 1)
	require.Len(t, f.game.BuzzQueue, 1)
	assert.Equal(t, winners[0], f.game.BuzzQueue[0].PlayerID)
	assert.Equal(t, winners[0], f.game.ActiveClue.AnsweringPlayerID)
	assert.Equal(t, domain.CluePlayerAnswering, f.game.ActiveClue.State)
	assert.Equal(t, []domain.EventType{domain.EventPlayerBuzzed}, f.bc.kinds())
}

func TestSession_InfoCountsConnections(t *testing.T) {
	f, roles := startedFixture(t, "A")
	require.NoError(t, f.session.Attach(&fakeConn{id: "conn-host", role: host}))
	require.NoError(t, f.session.Attach(&fakeConn{id: "conn-a", role: roles[0]}))

	info := f.session.Info()
	assert.Equal(t, "ABC123", info.Code)
	assert.Equal(t, domain.StatusActive, info.Status)
	assert.Equal(t, 1, info.PlayerCount)
	assert.False(t, info.CanJoin)
	assert.Equal(t, 2, info.Connections)
}

func TestSession_SkipCancelsCountdown(t *testing.T) {
	f, _ := startedFixture(t, "A")
	require.NoError(t, f.session.SelectClue(host, 1, 1))
	cd := f.scheduler.latest()

	require.NoError(t, f.session.SkipClue(host))
	assert.True(t, cd.cancelled)

	f.bc.reset()
	cd.run()
	assert.Empty(t, f.bc.kinds(), "stale countdown callbacks are ignored")
	assert.Nil(t, f.game.ActiveClue)
}

func TestSession_NewSelectionReplacesCountdown(t *testing.T) {
	f, _ := startedFixture(t, "A")
	require.NoError(t, f.session.SelectClue(host, 1, 1))
	first := f.scheduler.latest()
	require.NoError(t, f.session.SkipClue(host))
	require.NoError(t, f.session.SelectClue(host, 1, 2))
	second := f.scheduler.latest()
	require.NotSame(t, first, second)

	f.bc.reset()
	first.run()
	assert.Empty(t, f.bc.kinds())
	assert.Equal(t, domain.ClueShowing, f.game.ActiveClue.State)

	second.run()
	assert.Equal(t, domain.ClueBuzzingOpen, f.game.ActiveClue.State)
}

func TestSession_DailyDoubleFlow(t *testing.T) {
	f, roles := startedFixture(t, "A", "B")
	f.game.SetRandom(func(int) int { return 1 })

	require.NoError(t, f.session.SelectClue(host, 5, 4))
	assert.Empty(t, f.scheduler.started, "daily doubles have no countdown")

	selected, _ := f.bc.last(domain.EventClueSelected)
	sp := selected.Payload.(*domain.ClueSelectedPayload)
	assert.True(t, sp.DailyDouble)
	assert.Empty(t, sp.Prompt)
	assert.Equal(t, roles[1].PlayerID, sp.DesignatedPlayerID)

	prompt, ok := f.bc.last(domain.EventDailyDoubleWager)
	require.True(t, ok)
	assert.Equal(t, AudiencePlayer(roles[1].PlayerID), prompt.Audience)
	assert.Equal(t, domain.DailyDoubleMinWager, prompt.Payload.(*domain.WagerPromptPayload).MinWager)
	assert.Equal(t, 1000, prompt.Payload.(*domain.WagerPromptPayload).MaxWager)

	assert.ErrorIs(t, f.session.SubmitDailyDoubleWager(roles[0], 500), domain.ErrIllegalTransition)
	require.NoError(t, f.session.SubmitDailyDoubleWager(roles[1], 5000))

	revealed, _ := f.bc.last(domain.EventClueSelected)
	rp := revealed.Payload.(*domain.ClueSelectedPayload)
	assert.Equal(t, "prompt 5-4", rp.Prompt)
	assert.Equal(t, 1000, rp.Wager)
	assert.ErrorIs(t, f.session.Buzz(roles[0]), domain.ErrIllegalTransition)

	require.NoError(t, f.session.Judge(host, true))
	assert.Equal(t, 1000, f.score(roles[1]))
	assert.Nil(t, f.game.ActiveClue)
}

func TestSession_DisconnectOnlyForCurrentBinding(t *testing.T) {
	f, roles := startedFixture(t, "A")
	old := &fakeConn{id: "conn-0", role: roles[0]}
	require.NoError(t, f.session.Attach(old))
	assert.Equal(t, 2, old.messages(), "joined ack and snapshot")

	f.session.Detach(old)
	p, _ := f.game.GetPlayer(roles[0].PlayerID)
	assert.False(t, p.IsConnected())
	left, ok := f.bc.last(domain.EventPlayerLeft)
	require.True(t, ok)
	assert.False(t, left.Payload.(*domain.PresencePayload).Connected)

	rejoined, reconnected, err := f.session.JoinPlayer("conn-9", "A")
	require.NoError(t, err)
	assert.True(t, reconnected)
	assert.Equal(t, roles[0].PlayerID, rejoined.ID)

	f.bc.reset()
	f.session.Detach(old)
	assert.True(t, p.IsConnected(), "late close of the old connection is ignored")
	assert.Empty(t, f.bc.kinds())
}

func TestSession_MidGameJoinRefused(t *testing.T) {
	f, _ := startedFixture(t, "A")
	_, _, err := f.session.JoinPlayer("conn-x", "Zed")
	assert.ErrorIs(t, err, domain.ErrInProgressNoReconnect)
}

func TestSession_FinalFlowPublishesResults(t *testing.T) {
	f, roles := startedFixture(t, "High", "Mid", "Low")
	scores := []int{6000, 4000, 2000}
	for i, role := range roles {
		p, _ := f.game.GetPlayer(role.PlayerID)
		p.Score = scores[i]
	}

	require.NoError(t, f.session.StartFinal(host))
	require.NoError(t, f.session.AdvanceFinal(host))
	for i, role := range roles {
		require.NoError(t, f.session.SubmitFinalWager(role, scores[i]/2))
	}
	f.bc.reset()
	require.NoError(t, f.session.AdvanceFinal(host))
	assert.Equal(t, []domain.EventType{domain.EventFinalAdvanced, domain.EventFinalClue}, f.bc.kinds())

	for _, role := range roles {
		require.NoError(t, f.session.SubmitFinalAnswer(role, "Nile"))
	}
	require.NoError(t, f.session.AdvanceFinal(host))
	step, _ := f.bc.last(domain.EventFinalRevealStep)
	assert.Equal(t, roles[2].PlayerID, step.Payload.(*domain.FinalRevealStepPayload).PlayerID)

	assert.ErrorIs(t, f.session.JudgeFinal(roles[2], roles[2].PlayerID, true), domain.ErrIllegalTransition, "host only")

	for range roles {
		require.NoError(t, f.session.AdvanceFinalReveal(host))
		current := f.game.Final.CurrentRevealPlayerID()
		require.NoError(t, f.session.JudgeFinal(host, current, true))
		require.NoError(t, f.session.AdvanceFinalReveal(host))
		require.NoError(t, f.session.AdvanceFinalReveal(host))

		step, _ := f.bc.last(domain.EventFinalRevealStep)
		sp := step.Payload.(*domain.FinalRevealStepPayload)
		assert.Equal(t, domain.RevealScore, sp.Step)
		require.NotNil(t, sp.ScoreAfter)

		if current != roles[0].PlayerID {
			require.NoError(t, f.session.AdvanceFinalReveal(host))
		}
	}

	f.bc.reset()
	require.NoError(t, f.session.AdvanceFinalReveal(host))
	assert.Equal(t, []domain.EventType{domain.EventFinalAdvanced, domain.EventFinished}, f.bc.kinds())
	finished, _ := f.bc.last(domain.EventFinished)
	fp := finished.Payload.(*domain.FinishedPayload)
	assert.Equal(t, []string{roles[0].PlayerID}, fp.Winners)
	assert.Equal(t, 9000, fp.Scores[0].Score)

	select {
	case res := <-f.results.ch:
		assert.Equal(t, "ABC123", res.GameID)
		assert.Equal(t, []string{roles[0].PlayerID}, res.Winners)
	case <-time.After(time.Second):
		t.Fatal("results were not published")
	}
}

func TestSession_SnapshotsAreRoleScoped(t *testing.T) {
	f, roles := startedFixture(t, "A", "B")
	require.NoError(t, f.session.SelectClue(host, 0, 0))

	perAudience := map[Audience]*domain.GameView{}
	for _, ev := range f.bc.events {
		if ev.Kind == domain.EventStateSnapshot {
			perAudience[ev.Audience] = ev.Payload.(*domain.GameView)
		}
	}
	require.Len(t, perAudience, 4)
	assert.Equal(t, "response 0-0", perAudience[AudienceHost].ActiveClue.Response)
	assert.Empty(t, perAudience[AudienceDisplay].ActiveClue.Response)
	me := perAudience[AudiencePlayer(roles[1].PlayerID)].Me
	require.NotNil(t, me)
	assert.Equal(t, roles[1].PlayerID, me.ID)
}

func TestSession_CloseCancelsCountdownAndRoom(t *testing.T) {
	f, _ := startedFixture(t, "A")
	require.NoError(t, f.session.SelectClue(host, 0, 0))
	cd := f.scheduler.latest()

	f.session.Close()
	f.session.Close()
	assert.True(t, cd.cancelled)
	assert.Equal(t, []string{"ABC123"}, f.bc.closed)

	_, _, err := f.session.JoinPlayer("c", "late")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}
