package domain

// GameView is a role-scoped snapshot of a game. Host views carry correct
// responses; display and player views never carry the response of an
// unrevealed clue.
type GameView struct {
	GameID              string              `json:"gameId"`
	Status              Status              `json:"status"`
	Board               BoardView           `json:"board"`
	Players             []PlayerScore       `json:"players"`
	ActiveClue          *ActiveClueView     `json:"activeClue,omitempty"`
	Final               *FinalView          `json:"final,omitempty"`
	LastCorrectPlayerID string              `json:"lastCorrectPlayerId,omitempty"`
	RemainingClues      int                 `json:"remainingClues"`
	Me                  *PlayerScore        `json:"me,omitempty"`
	WagerPrompt         *WagerPromptPayload `json:"wagerPrompt,omitempty"`
}

// BoardView is the projected board
type BoardView struct {
	Categories []CategoryView `json:"categories"`
}

// CategoryView is one projected column
type CategoryView struct {
	Name  string     `json:"name"`
	Cells []CellView `json:"cells"`
}

// CellView is one projected cell. Revealed cells hide their value.
type CellView struct {
	Value       int    `json:"value,omitempty"`
	Revealed    bool   `json:"revealed"`
	DailyDouble bool   `json:"dailyDouble,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
	Response    string `json:"response,omitempty"`
}

// ActiveClueView is the projected active clue
type ActiveClueView struct {
	CategoryIndex      int       `json:"categoryIndex"`
	ClueIndex          int       `json:"clueIndex"`
	Category           string    `json:"category"`
	Value              int       `json:"value"`
	Prompt             string    `json:"prompt,omitempty"`
	Response           string    `json:"response,omitempty"`
	State              ClueState `json:"state"`
	DailyDouble        bool      `json:"dailyDouble"`
	DesignatedPlayerID string    `json:"designatedPlayerId,omitempty"`
	AnsweringPlayerID  string    `json:"answeringPlayerId,omitempty"`
	Wager              *int      `json:"wager,omitempty"`
	Attempted          []string  `json:"attempted"`
}

// FinalView is the projected Final Jeopardy state
type FinalView struct {
	Stage           FinalStage      `json:"stage"`
	Category        string          `json:"category"`
	Clue            string          `json:"clue,omitempty"`
	Response        string          `json:"response,omitempty"`
	RevealOrder     []string        `json:"revealOrder,omitempty"`
	CurrentPlayerID string          `json:"currentPlayerId,omitempty"`
	Cards           []FinalCardView `json:"cards"`
}

// FinalCardView is one player's Final Jeopardy card
type FinalCardView struct {
	PlayerID    string     `json:"playerId"`
	HasWager    bool       `json:"hasWager"`
	HasAnswer   bool       `json:"hasAnswer"`
	Step        RevealStep `json:"step"`
	Wager       *int       `json:"wager,omitempty"`
	Answer      *string    `json:"answer,omitempty"`
	Correct     *bool      `json:"correct,omitempty"`
	ScoreBefore *int       `json:"scoreBefore,omitempty"`
	ScoreAfter  *int       `json:"scoreAfter,omitempty"`
}

type viewer struct {
	host     bool
	playerID string
}

// ProjectHost returns the full view for the host controller
func ProjectHost(g *Game) *GameView {
	return project(g, viewer{host: true})
}

// ProjectDisplay returns the public display view
func ProjectDisplay(g *Game) *GameView {
	return project(g, viewer{})
}

// ProjectPlayer returns the view for one player
func ProjectPlayer(g *Game, playerID string) *GameView {
	view := project(g, viewer{playerID: playerID})
	if p, ok := g.Players[playerID]; ok {
		me := p.ToScore()
		view.Me = &me
		if a := g.ActiveClue; a != nil && a.State == ClueDailyDoubleWager && a.DesignatedPlayerID == playerID {
			lo, hi := DailyDoubleWagerBounds(p.Score)
			view.WagerPrompt = &WagerPromptPayload{MinWager: lo, MaxWager: hi, Score: p.Score}
		}
	}
	return view
}

func project(g *Game, v viewer) *GameView {
	view := &GameView{
		GameID:              g.ID,
		Status:              g.Status,
		Board:               projectBoard(g.Board, v),
		Players:             g.Scores(),
		LastCorrectPlayerID: g.LastCorrectPlayerID,
		RemainingClues:      g.Board.Remaining(),
	}
	if g.ActiveClue != nil {
		view.ActiveClue = projectActiveClue(g, v)
	}
	if g.Status == StatusFinalJeopardy || g.Status == StatusFinished {
		view.Final = projectFinal(g, v)
	}
	return view
}

func projectBoard(b *Board, v viewer) BoardView {
	board := BoardView{Categories: make([]CategoryView, 0, len(b.Categories))}
	for _, cat := range b.Categories {
		cv := CategoryView{Name: cat.Name, Cells: make([]CellView, 0, len(cat.Clues))}
		for _, clue := range cat.Clues {
			cell := CellView{Revealed: clue.Revealed}
			if !clue.Revealed {
				cell.Value = clue.Value
			}
			if v.host {
				cell.DailyDouble = clue.DailyDouble
				cell.Prompt = clue.Prompt
				cell.Response = clue.Response
			}
			cv.Cells = append(cv.Cells, cell)
		}
		board.Categories = append(board.Categories, cv)
	}
	return board
}

func projectActiveClue(g *Game, v viewer) *ActiveClueView {
	a := g.ActiveClue
	clue := g.ActiveBoardClue()
	view := &ActiveClueView{
		CategoryIndex:      a.CategoryIndex,
		ClueIndex:          a.ClueIndex,
		Category:           g.ActiveCategoryName(),
		Value:              clue.Value,
		State:              a.State,
		DailyDouble:        a.DailyDouble,
		DesignatedPlayerID: a.DesignatedPlayerID,
		AnsweringPlayerID:  a.AnsweringPlayerID,
		Wager:              a.Wager,
		Attempted:          a.AttemptedIDs(),
	}
	if v.host || a.State != ClueDailyDoubleWager {
		view.Prompt = clue.Prompt
	}
	if v.host {
		view.Response = clue.Response
	}
	return view
}

func projectFinal(g *Game, v viewer) *FinalView {
	f := g.Final
	view := &FinalView{
		Stage:           f.Stage,
		Category:        f.Clue.Category,
		RevealOrder:     f.RevealOrder,
		CurrentPlayerID: f.CurrentRevealPlayerID(),
		Cards:           make([]FinalCardView, 0, len(f.Submissions)),
	}
	if v.host || f.Stage == FinalAnswering || f.Stage == FinalRevealing || f.Stage == FinalResults {
		view.Clue = f.Clue.Clue
	}
	if v.host || f.Stage == FinalResults {
		view.Response = f.Clue.Response
	}

	for _, id := range g.PlayerOrder {
		sub, ok := f.Submissions[id]
		if !ok {
			continue
		}
		view.Cards = append(view.Cards, projectCard(f, id, sub, v))
	}
	return view
}

func projectCard(f *FinalState, playerID string, sub *FinalSubmission, v viewer) FinalCardView {
	step := f.StepFor(playerID)
	card := FinalCardView{
		PlayerID:  playerID,
		HasWager:  sub.HasWager,
		HasAnswer: sub.HasAnswer,
		Step:      step,
	}
	own := v.playerID == playerID

	if v.host || own || step.Reached(RevealWager) {
		wager := sub.Wager
		card.Wager = &wager
	}
	if v.host || own || step.Reached(RevealAnswer) {
		answer := sub.Answer
		card.Answer = &answer
	}
	if correct, judged := f.Judgments[playerID]; judged && (v.host || step.Reached(RevealJudged)) {
		card.Correct = &correct
	}
	if step.Reached(RevealScore) {
		before, after := f.ScoresBefore[playerID], f.ScoreAfter(playerID)
		card.ScoreBefore = &before
		card.ScoreAfter = &after
	}
	return card
}
