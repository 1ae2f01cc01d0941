package game

import "errors"

// ValidationError is returned when a player action is rejected. The message is
// sent back to the originating connection as-is and no state is changed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

var (
	ErrNotActive       = invalid("a partida não está em andamento")
	ErrUnknownSeat     = invalid("jogador não encontrado na sala")
	ErrNotYourTurn     = invalid("não é sua vez")
	ErrInvalidLetter   = invalid("letra inválida")
	ErrRepeatedLetter  = invalid("letra repetida")
	ErrEmptyWordGuess  = invalid("palpite vazio")
	ErrRoundNotPlaying = invalid("a rodada já terminou")
	ErrRoomFull        = invalid("sala cheia")
	ErrMatchOver       = invalid("partida encerrada")
	ErrUnknownPower    = invalid("poder desconhecido")
	ErrPowerNotOwned   = invalid("poder não selecionado")
	ErrPowerUsed       = invalid("poder já utilizado")
	ErrNothingToReveal = invalid("nenhuma letra para revelar")
	ErrNothingToHide   = invalid("nenhuma letra para ocultar")
	ErrHintUsed        = invalid("dica já utilizada nesta rodada")
	ErrInvalidBet      = invalid("aposta inválida")
	ErrMissingRoomCode = invalid("código da sala obrigatório")
	ErrMissingName     = invalid("nome do jogador obrigatório")
)

// Errors returned by the external collaborators.
var (
	ErrNoWordsAvailable = errors.New("no words available")
	ErrPlayerNotFound   = errors.New("player not found")
)

// IsValidation reports whether err is a rejected player action.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
