package game

import (
	"context"
	"strings"
	"time"
)

func (r *Room) handle(ctx context.Context, cmd command) (stop bool) {
	switch c := cmd.(type) {
	case joinCmd:
		r.handleJoin(c.conn, c.req)
	case inboundCmd:
		r.handleInbound(ctx, c.connID, c.msg)
	case disconnectCmd:
		return r.handleDisconnect(c.connID)
	case graceExpiredCmd:
		return r.handleGraceExpired(c)
	case teardownCmd:
		r.logger.Debug("teardown delay elapsed")
		return true
	}
	return false
}

func (r *Room) handleJoin(conn Conn, req JoinRoom) {
	name := strings.TrimSpace(req.PlayerName)

	if s := r.slotByConn(conn.ID()); s != nil {
		r.resync(s)
		return
	}
	if r.state == StateCompleted {
		conn.Send(ErrorMsg{Message: ErrMatchOver.Error()})
		return
	}
	if s := r.slotByName(name); s != nil {
		r.reconnect(s, conn, req)
		return
	}
	if len(r.players) >= 2 {
		r.logger.Info("join rejected, room full", "player", name)
		conn.Send(ErrorMsg{Message: ErrRoomFull.Error()})
		return
	}

	slot := newSlot(conn, name, req.PlayerID, r.freeSeat())
	r.players = append(r.players, slot)
	r.logger.Info("player joined", "player", name, "seat", slot.Seat, "conn", slot.ConnID)

	r.broadcast(Connected{Total: r.connectedCount()})
	r.checkStart()
}

// resync answers a repeated join from an already seated connection.
func (r *Room) resync(s *Slot) {
	switch r.state {
	case StateActive:
		r.sendStart(s)
	case StateForming, StateAwaitingReady:
		r.send(s, Preparing{Category: r.category})
	}
}

func (r *Room) reconnect(s *Slot, conn Conn, req JoinRoom) {
	old := s.ConnID
	delete(r.readySet, old)

	s.stopRemoval()
	s.Conn = conn
	s.ConnID = conn.ID()
	s.Connected = true
	s.DisconnectedAt = time.Time{}
	if req.PlayerID != "" {
		s.PlayerID = req.PlayerID
	}
	if s.Ready {
		r.readySet[s.ConnID] = true
	}
	r.logger.Info("player reconnected", "player", s.Name, "seat", s.Seat, "old_conn", old, "conn", s.ConnID)

	r.broadcast(Connected{Total: r.connectedCount()})
	r.send(r.slotBySeat(s.Seat.Other()), OpponentReconnected{Seat: s.Seat})
	if r.state == StateActive {
		r.sendStart(s)
		return
	}
	r.checkStart()
}

// checkStart moves the room along once two seats are filled.
func (r *Room) checkStart() {
	if r.state == StateActive || r.state == StateCompleted {
		return
	}
	if len(r.players) < 2 {
		r.state = StateForming
		return
	}
	if r.allReady() {
		r.start()
		return
	}
	r.state = StateAwaitingReady
	r.broadcast(Preparing{Category: r.category})
}

func (r *Room) allReady() bool {
	for _, s := range r.players {
		if !r.readySet[s.ConnID] {
			return false
		}
	}
	return len(r.players) == 2
}

func (r *Room) start() {
	r.state = StateActive
	r.match.Turn = Seat1
	r.logger.Info("match started",
		"seat1", r.slotBySeat(Seat1).Name,
		"seat2", r.slotBySeat(Seat2).Name,
		"words", []string{r.match.Rounds[0].Word, r.match.Rounds[1].Word},
	)
	for _, s := range r.players {
		r.sendStart(s)
	}
}

func (r *Room) sendStart(s *Slot) {
	var opponentName string
	if opp := r.slotBySeat(s.Seat.Other()); opp != nil {
		opponentName = opp.Name
	}
	own := r.match.Round(s.Seat)
	r.send(s, Start{
		Seat:               s.Seat,
		OpponentName:       opponentName,
		OwnMaskedWord:      own.Masked(true),
		OpponentMaskedWord: r.match.Round(s.Seat.Other()).Masked(false),
		OwnSecretWord:      own.Word,
		Turn:               r.match.Turn,
		Category:           r.category,
		Lives:              r.match.Lives,
		Powers:             s.powerNames(),
		UsedPowers:         s.usedPowerNames(),
		State:              r.match.View(s.Seat),
	})
}

func (r *Room) handleInbound(ctx context.Context, connID string, msg Inbound) {
	slot := r.slotByConn(connID)
	if slot == nil {
		r.logger.Debug("message from unseated connection", "conn", connID, "type", typeName(msg))
		return
	}
	if r.state == StateCompleted {
		r.logger.Debug("message after match end ignored", "seat", slot.Seat, "type", typeName(msg))
		return
	}

	var err error
	switch m := msg.(type) {
	case Ready:
		err = r.ready(slot, m)
	case SetBet:
		err = r.setBet(slot, m)
	case LetterGuess:
		err = r.guessLetter(ctx, slot, m)
	case WordGuess:
		err = r.guessWord(ctx, slot, m)
	case Timeout:
		r.timeout(slot)
	case UsePower:
		err = r.usePower(ctx, slot, m)
	case HintRequest:
		err = r.requestHint(slot)
	case Ping:
		r.send(slot, Pong{})
	case JoinRoom:
		r.handleJoin(slot.Conn, m)
	}

	if err == nil {
		return
	}
	if IsValidation(err) {
		r.logger.Debug("action rejected", "seat", slot.Seat, "type", typeName(msg), "reason", err)
		r.send(slot, ErrorMsg{Message: err.Error()})
		return
	}
	r.logger.Error("action failed", "seat", slot.Seat, "type", typeName(msg), "error", err)
}

func (r *Room) requireActive() error {
	if r.state != StateActive {
		return ErrNotActive
	}
	return nil
}

func (r *Room) ready(s *Slot, m Ready) error {
	if r.state == StateActive {
		return nil
	}
	if m.Bet < 0 {
		return ErrInvalidBet
	}
	if s.SelectedPowers == nil {
		s.SelectedPowers = selectPowers(m.Powers)
	}
	r.bets[s.Seat.idx()] = m.Bet
	s.Ready = true
	r.readySet[s.ConnID] = true

	r.broadcast(ReadyUpdate{Name: s.Name, SocketID: s.ConnID, Total: len(r.readySet)})
	r.checkStart()
	return nil
}

func (r *Room) setBet(s *Slot, m SetBet) error {
	if m.Value < 0 {
		return ErrInvalidBet
	}
	r.bets[s.Seat.idx()] = m.Value
	r.broadcast(BetUpdated{Player: s.Seat, Value: m.Value})
	return nil
}

func (r *Room) guessLetter(ctx context.Context, s *Slot, m LetterGuess) error {
	if err := r.requireActive(); err != nil {
		return err
	}
	res, err := r.match.GuessLetter(s.Seat, m.Letter)
	if err != nil {
		return err
	}
	r.broadcastEach(func(viewer Seat) Outbound {
		return Move{Seat: s.Seat, LetterResult: res, State: r.match.View(viewer)}
	})
	r.afterOutcome(ctx, res.Outcome)
	return nil
}

func (r *Room) guessWord(ctx context.Context, s *Slot, m WordGuess) error {
	if err := r.requireActive(); err != nil {
		return err
	}
	res, err := r.match.GuessWord(s.Seat, m.Word)
	if err != nil {
		return err
	}
	r.broadcastEach(func(viewer Seat) Outbound {
		out := res
		if viewer != s.Seat {
			out.NearMiss = false
		}
		return WordGuessed{Seat: s.Seat, WordResult: out, State: r.match.View(viewer)}
	})
	r.afterOutcome(ctx, res.Outcome)
	return nil
}

func (r *Room) timeout(s *Slot) {
	if r.state != StateActive || !r.match.Timeout(s.Seat) {
		r.logger.Debug("timeout ignored", "seat", s.Seat)
		return
	}
	r.broadcastEach(func(viewer Seat) Outbound {
		return TurnChanged{State: r.match.View(viewer)}
	})
}

func (r *Room) usePower(ctx context.Context, s *Slot, m UsePower) error {
	if err := r.requireActive(); err != nil {
		return err
	}
	if err := r.match.checkTurn(s.Seat); err != nil {
		return err
	}
	id := PowerID(m.PowerID)
	if err := s.checkPower(id); err != nil {
		return err
	}
	res, err := r.match.ApplyPower(s.Seat, id)
	if err != nil {
		return err
	}
	s.UsedPowers[id] = true
	r.logger.Info("power used", "seat", s.Seat, "power", id)

	r.send(s, PowerUsed{PowerResult: res, State: r.match.View(s.Seat)})
	r.broadcastEach(func(viewer Seat) Outbound {
		return PowerUsedGlobal{Seat: s.Seat, State: r.match.View(viewer)}
	})
	r.afterOutcome(ctx, res.Outcome)
	return nil
}

func (r *Room) requestHint(s *Slot) error {
	if err := r.requireActive(); err != nil {
		return err
	}
	hint, blocked, err := r.match.RequestHint(s.Seat)
	if err != nil {
		return err
	}
	r.send(s, HintGiven{Seat: s.Seat, Hint: hint, Blocked: blocked})
	r.send(r.slotBySeat(s.Seat.Other()), HintGiven{Seat: s.Seat, Blocked: blocked})
	return nil
}

func (r *Room) afterOutcome(ctx context.Context, out Outcome) {
	switch {
	case out.MatchOver:
		r.finish(out.Winner, ReasonLives)
	case out.LifeLost:
		r.nextRound(ctx, out.Loser)
	}
}

func (r *Room) nextRound(ctx context.Context, loser Seat) {
	if r.match.Resettable() {
		r.logger.Warn("new round requested while both rounds are in play", "loser", loser)
		return
	}

	lookup, cancel := context.WithTimeout(ctx, r.opts.WordLookupTimeout)
	defer cancel()

	words := r.picker.PickPair(lookup, r.category, r.used, r.rng)
	r.markUsed(words)
	r.match.NewRound(words)
	r.logger.Info("new round",
		"round", r.match.RoundNumber,
		"loser", loser,
		"starter", r.match.RoundStarter,
		"lives", r.match.Lives,
	)

	for _, s := range r.players {
		r.send(s, NewRound{
			Seat:          s.Seat,
			OwnSecretWord: r.match.Round(s.Seat).Word,
			Loser:         loser,
			State:         r.match.View(s.Seat),
		})
	}
}

// finish ends the match once; later calls are no-ops.
func (r *Room) finish(winner Seat, reason string) {
	if r.state == StateCompleted {
		return
	}
	r.state = StateCompleted
	r.logger.Info("match finished", "winner", winner, "reason", reason, "lives", r.match.Lives)

	r.broadcast(Finish{Winner: winner, Lives: r.match.Lives, Reason: reason, Bets: r.bets})
	if s := r.slotBySeat(winner); s != nil && s.PlayerID != "" {
		r.recordVictory(s.PlayerID)
	}
	r.teardown = time.AfterFunc(r.opts.TeardownDelay, func() {
		r.post(teardownCmd{})
	})
}

func (r *Room) recordVictory(playerID string) {
	if r.victories == nil {
		return
	}
	r.bg.Add(1)
	go func() {
		defer r.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.opts.WordLookupTimeout)
		defer cancel()

		n, err := r.victories.RecordWin(ctx, playerID)
		if err != nil {
			r.logger.Warn("failed to record victory", "player_id", playerID, "error", err)
			return
		}
		r.logger.Info("victory recorded", "player_id", playerID, "victories", n)
	}()
}

func (r *Room) handleDisconnect(connID string) (stop bool) {
	s := r.slotByConn(connID)
	if s == nil || !s.Connected {
		return false
	}
	s.Connected = false
	s.DisconnectedAt = r.now()
	delete(r.readySet, connID)
	r.logger.Info("player disconnected", "player", s.Name, "seat", s.Seat, "conn", connID)

	if r.state == StateCompleted {
		return r.connectedCount() == 0
	}

	seat := s.Seat
	s.stopRemoval()
	s.removal = time.AfterFunc(r.opts.GracePeriod, func() {
		r.post(graceExpiredCmd{seat: seat, connID: connID})
	})

	r.broadcast(Connected{Total: r.connectedCount()})
	r.send(r.slotBySeat(seat.Other()), OpponentDisconnected{
		Seat:    seat,
		Seconds: int(r.opts.GracePeriod / time.Second),
	})
	return false
}

func (r *Room) handleGraceExpired(c graceExpiredCmd) (stop bool) {
	s := r.slotBySeat(c.seat)
	if s == nil || s.Connected || s.ConnID != c.connID {
		r.logger.Debug("stale grace expiry", "seat", c.seat, "conn", c.connID)
		return false
	}
	s.removal = nil

	switch r.state {
	case StateActive:
		r.logger.Info("grace period expired, walkover", "seat", c.seat)
		r.finish(c.seat.Other(), ReasonWalkover)
		return false
	case StateCompleted:
		return r.connectedCount() == 0
	}

	r.logger.Info("grace period expired, removing player", "player", s.Name, "seat", s.Seat)
	r.removeSlot(s)
	if len(r.players) == 0 {
		return true
	}
	r.state = StateForming
	r.broadcast(Connected{Total: r.connectedCount()})
	return false
}

func typeName(msg Inbound) string {
	switch msg.(type) {
	case JoinRoom:
		return "joinRoom"
	case Ready:
		return "pronto"
	case LetterGuess:
		return "jogada"
	case WordGuess:
		return "chutarPalavra"
	case Timeout:
		return "tempoEsgotado"
	case UsePower:
		return "usarPoder"
	case SetBet:
		return "definirAposta"
	case HintRequest:
		return "pedirDica"
	case Ping:
		return "ping"
	}
	return "unknown"
}
