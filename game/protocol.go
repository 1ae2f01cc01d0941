package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Conn is a client connection as seen by a room. Send must not block.
type Conn interface {
	ID() string
	Send(msg Outbound)
}

// Envelope is the wire format in both directions.
type Envelope struct {
	Tipo    string          `json:"tipo"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var ErrUnknownMessage = errors.New("unknown message type")

// Inbound is a message sent by a client.
type Inbound interface {
	inbound()
}

type JoinRoom struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	PlayerID   string `json:"playerId"`
	Category   string `json:"category"`
}

type Ready struct {
	Powers []string `json:"powers"`
	Bet    int      `json:"bet"`
}

type LetterGuess struct {
	Letter string `json:"letra"`
}

type WordGuess struct {
	Word string `json:"palavra"`
}

type Timeout struct{}

type UsePower struct {
	PowerID string `json:"poderId"`
}

type SetBet struct {
	Value int `json:"valor"`
}

type HintRequest struct{}

type Ping struct{}

func (JoinRoom) inbound()    {}
func (Ready) inbound()       {}
func (LetterGuess) inbound() {}
func (WordGuess) inbound()   {}
func (Timeout) inbound()     {}
func (UsePower) inbound()    {}
func (SetBet) inbound()      {}
func (HintRequest) inbound() {}
func (Ping) inbound()        {}

// DecodeInbound parses a raw client frame into its message type.
func DecodeInbound(data []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var (
		msg Inbound
		err error
	)
	switch env.Tipo {
	case "joinRoom":
		msg, err = decodePayload[JoinRoom](env.Payload)
	case "pronto":
		msg, err = decodePayload[Ready](env.Payload)
	case "jogada":
		msg, err = decodePayload[LetterGuess](env.Payload)
	case "chutarPalavra":
		msg, err = decodePayload[WordGuess](env.Payload)
	case "tempoEsgotado":
		msg = Timeout{}
	case "usarPoder":
		msg, err = decodePayload[UsePower](env.Payload)
	case "definirAposta":
		msg, err = decodePayload[SetBet](env.Payload)
	case "pedirDica":
		msg = HintRequest{}
	case "ping":
		msg = Ping{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Tipo)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Tipo, err)
	}
	return msg, nil
}

func decodePayload[T Inbound](raw json.RawMessage) (Inbound, error) {
	var msg T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// Outbound is a message sent by the server.
type Outbound interface {
	Tipo() string
}

// Encode wraps msg in an envelope.
func Encode(msg Outbound) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Tipo: msg.Tipo(), Payload: payload})
}

type Connected struct {
	Total int `json:"total"`
}

type Preparing struct {
	Category string `json:"category"`
}

type ReadyUpdate struct {
	Name     string `json:"nome"`
	SocketID string `json:"socketId"`
	Total    int    `json:"total"`
}

type Start struct {
	Seat               Seat      `json:"seat"`
	OpponentName       string    `json:"opponentName"`
	OwnMaskedWord      string    `json:"ownMaskedWord"`
	OpponentMaskedWord string    `json:"opponentMaskedWord"`
	OwnSecretWord      string    `json:"ownSecretWord"`
	Turn               Seat      `json:"turn"`
	Category           string    `json:"category"`
	Lives              [2]int    `json:"lives"`
	Powers             []string  `json:"powers"`
	UsedPowers         []string  `json:"usedPowers,omitempty"`
	State              MatchView `json:"estado"`
}

type Move struct {
	Seat Seat `json:"seat"`
	LetterResult
	State MatchView `json:"estado"`
}

type TurnChanged struct {
	State MatchView `json:"estado"`
}

type WordGuessed struct {
	Seat Seat `json:"seat"`
	WordResult
	State MatchView `json:"estado"`
}

type PowerUsed struct {
	PowerResult
	State MatchView `json:"estado"`
}

type PowerUsedGlobal struct {
	Seat  Seat      `json:"seat"`
	State MatchView `json:"estado"`
}

type NewRound struct {
	Seat          Seat      `json:"seat"`
	OwnSecretWord string    `json:"ownSecretWord"`
	Loser         Seat      `json:"perdedor"`
	State         MatchView `json:"estado"`
}

type Finish struct {
	Winner Seat   `json:"winner"`
	Lives  [2]int `json:"lives"`
	Reason string `json:"motivo"`
	Bets   [2]int `json:"apostas"`
}

type ErrorMsg struct {
	Message string `json:"mensagem"`
}

type HintGiven struct {
	Seat    Seat   `json:"seat"`
	Hint    string `json:"dica,omitempty"`
	Blocked bool   `json:"bloqueada"`
}

type BetUpdated struct {
	Player Seat `json:"jogador"`
	Value  int  `json:"valor"`
}

type OpponentDisconnected struct {
	Seat    Seat `json:"seat"`
	Seconds int  `json:"segundos"`
}

type OpponentReconnected struct {
	Seat Seat `json:"seat"`
}

type Pong struct{}

func (Connected) Tipo() string            { return "conectado" }
func (Preparing) Tipo() string            { return "preparacao" }
func (ReadyUpdate) Tipo() string          { return "pronto" }
func (Start) Tipo() string                { return "inicio" }
func (Move) Tipo() string                 { return "jogada" }
func (TurnChanged) Tipo() string          { return "turnoTrocado" }
func (WordGuessed) Tipo() string          { return "chutePalavra" }
func (PowerUsed) Tipo() string            { return "poderUsado" }
func (PowerUsedGlobal) Tipo() string      { return "poderUsadoGlobal" }
func (NewRound) Tipo() string             { return "novaRodada" }
func (Finish) Tipo() string               { return "fim" }
func (ErrorMsg) Tipo() string             { return "erro" }
func (HintGiven) Tipo() string            { return "dicaPedida" }
func (BetUpdated) Tipo() string           { return "apostaAtualizada" }
func (OpponentDisconnected) Tipo() string { return "oponenteDesconectado" }
func (OpponentReconnected) Tipo() string  { return "oponenteReconectado" }
func (Pong) Tipo() string                 { return "pong" }
