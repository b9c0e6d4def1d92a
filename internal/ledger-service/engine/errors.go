package engine

import "errors"

// Erros do ciclo de vida. Toda violação de precondição aborta a chamada sem
// nenhuma mutação parcial; a mensagem é a razão legível exposta ao chamador.
var (
	ErrNoOptions       = errors.New("must provide betting options")
	ErrDuplicateOption = errors.New("betting options must be distinct")
	ErrBetNotFound     = errors.New("bet not found")
	ErrAlreadyResolved = errors.New("bet is already resolved")
	ErrInvalidOption   = errors.New("invalid betting option")
	ErrZeroStake       = errors.New("must send funds to bet")
	ErrAlreadyJoined   = errors.New("player already joined this bet")
	ErrUnauthorized    = errors.New("only organizer can resolve bet")
	ErrNotResolved     = errors.New("bet not resolved yet")
	ErrNoStake         = errors.New("no bet found for player")
	ErrAlreadyClaimed  = errors.New("prize already claimed")
	ErrNotAWinner      = errors.New("player did not win")
	ErrNoWinners       = errors.New("no winners found")
	ErrTransferFailed  = errors.New("transfer failed")
)
