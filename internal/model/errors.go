package model

import "errors"

var (
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	ErrBoardRange          = errors.New("position is not on the board")
	ErrSquareOccupied      = errors.New("square already occupied")
	ErrInvalidPosition     = errors.New("invalid position")

	ErrEmptySource        = errors.New("no piece on source square")
	ErrNotYourPiece       = errors.New("piece belongs to the opponent")
	ErrNoPossibleMoves    = errors.New("piece has no possible moves")
	ErrIllegalDestination = errors.New("piece cannot move to target square")
	ErrSelfCheck          = errors.New("move leaves own king in check")
	ErrMatchFinished      = errors.New("match is over")

	ErrPromotionPending   = errors.New("pending promotion must be resolved first")
	ErrNoPendingPromotion = errors.New("no piece awaiting promotion")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")

	ErrGameNotFound  = errors.New("game not found")
	ErrGameFull      = errors.New("game is full")
	ErrGameExists    = errors.New("game already exists")
	ErrNotAPlayer    = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrTimeExpired   = errors.New("time expired")
	ErrAlreadyQueued = errors.New("player already in queue")

	ErrDuplicateConnection = errors.New("connection already exists")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrMalformedCoordinate, "malformed_coordinate"},
	{ErrBoardRange, "board_range"},
	{ErrSquareOccupied, "square_occupied"},
	{ErrInvalidPosition, "invalid_position"},
	{ErrEmptySource, "empty_source"},
	{ErrNotYourPiece, "not_your_piece"},
	{ErrNoPossibleMoves, "no_possible_moves"},
	{ErrIllegalDestination, "illegal_destination"},
	{ErrSelfCheck, "self_check"},
	{ErrMatchFinished, "match_finished"},
	{ErrPromotionPending, "promotion_pending"},
	{ErrNoPendingPromotion, "no_pending_promotion"},
	{ErrInvalidPromotion, "invalid_promotion"},
	{ErrGameNotFound, "game_not_found"},
	{ErrGameFull, "game_full"},
	{ErrGameExists, "game_exists"},
	{ErrNotAPlayer, "not_a_player"},
	{ErrNotYourTurn, "not_your_turn"},
	{ErrTimeExpired, "time_expired"},
	{ErrAlreadyQueued, "already_queued"},
	{ErrDuplicateConnection, "duplicate_connection"},
}

// ErrorCode returns a stable identifier for err, or "internal" when err is not
// one of the package sentinels.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}
