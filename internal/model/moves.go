package model

var (
	rookDirs   = []Position{{Row: 1, Column: 0}, {Row: -1, Column: 0}, {Row: 0, Column: 1}, {Row: 0, Column: -1}}
	bishopDirs = []Position{{Row: 1, Column: 1}, {Row: 1, Column: -1}, {Row: -1, Column: 1}, {Row: -1, Column: -1}}
	knightDirs = []Position{{Row: 2, Column: 1}, {Row: 2, Column: -1}, {Row: -2, Column: 1}, {Row: -2, Column: -1}, {Row: 1, Column: 2}, {Row: 1, Column: -2}, {Row: -1, Column: 2}, {Row: -1, Column: -2}}
	kingDirs   = append(append([]Position{}, rookDirs...), bishopDirs...)
)

// moveContext is the match state a piece needs beyond the board itself.
type moveContext struct {
	enPassantVulnerable *Piece
	kingInCheck         bool
}

// possibleMoves marks every square piece could reach, not accounting for
// moves that would leave its own king attacked.
func possibleMoves(board *Board, piece *Piece, ctx moveContext) [][]bool {
	mat := make([][]bool, board.rows)
	for i := range mat {
		mat[i] = make([]bool, board.columns)
	}
	switch piece.Type {
	case Pawn:
		pawnMoves(board, piece, ctx, mat)
	case Knight:
		stepMoves(board, piece, knightDirs, mat)
	case Bishop:
		rayMoves(board, piece, bishopDirs, mat)
	case Rook:
		rayMoves(board, piece, rookDirs, mat)
	case Queen:
		rayMoves(board, piece, rookDirs, mat)
		rayMoves(board, piece, bishopDirs, mat)
	case King:
		stepMoves(board, piece, kingDirs, mat)
		castlingMoves(board, piece, ctx, mat)
	}
	return mat
}

func anyMove(mat [][]bool) bool {
	for _, row := range mat {
		for _, ok := range row {
			if ok {
				return true
			}
		}
	}
	return false
}

func isThereOpponentPiece(board *Board, piece *Piece, pos Position) bool {
	if !board.PositionExists(pos) {
		return false
	}
	other := board.at(pos)
	return other != nil && other.Color != piece.Color
}

func isFreeOrOpponent(board *Board, piece *Piece, pos Position) bool {
	return board.PositionExists(pos) && (board.at(pos) == nil || board.at(pos).Color != piece.Color)
}

func rayMoves(board *Board, piece *Piece, dirs []Position, mat [][]bool) {
	for _, dir := range dirs {
		target := piece.Position.offset(dir.Row, dir.Column)
		for board.PositionExists(target) {
			if board.at(target) == nil {
				mat[target.Row][target.Column] = true
			} else if board.at(target).Color != piece.Color {
				mat[target.Row][target.Column] = true
				break
			} else {
				break
			}
			target = target.offset(dir.Row, dir.Column)
		}
	}
}

func stepMoves(board *Board, piece *Piece, dirs []Position, mat [][]bool) {
	for _, dir := range dirs {
		target := piece.Position.offset(dir.Row, dir.Column)
		if isFreeOrOpponent(board, piece, target) {
			mat[target.Row][target.Column] = true
		}
	}
}

func castlingMoves(board *Board, king *Piece, ctx moveContext, mat [][]bool) {
	if king.MoveCount != 0 || ctx.kingInCheck {
		return
	}
	pos := king.Position
	// king side: rook three columns right, f and g empty
	if canCastleWith(board, king, pos.offset(0, 3)) && emptyBetween(board, pos, 1, 2) {
		mat[pos.Row][pos.Column+2] = true
	}
	// queen side: rook four columns left, b, c and d empty
	if canCastleWith(board, king, pos.offset(0, -4)) && emptyBetween(board, pos, -1, 3) {
		mat[pos.Row][pos.Column-2] = true
	}
}

func canCastleWith(board *Board, king *Piece, rookPos Position) bool {
	if !board.PositionExists(rookPos) {
		return false
	}
	rook := board.at(rookPos)
	return rook != nil && rook.Type == Rook && rook.Color == king.Color && rook.MoveCount == 0
}

func emptyBetween(board *Board, from Position, dir, count int) bool {
	for i := 1; i <= count; i++ {
		sq := from.offset(0, dir*i)
		if !board.PositionExists(sq) || board.at(sq) != nil {
			return false
		}
	}
	return true
}

// pawnDirection is the row delta of a forward pawn step.
func pawnDirection(color Color) int {
	if color == White {
		return -1
	}
	return 1
}

// enPassantRow is the row a pawn stands on when it can capture en passant.
func enPassantRow(board *Board, color Color) int {
	if color == White {
		return 3
	}
	return board.rows - 4
}

func pawnMoves(board *Board, pawn *Piece, ctx moveContext, mat [][]bool) {
	dir := pawnDirection(pawn.Color)
	pos := pawn.Position

	one := pos.offset(dir, 0)
	if board.PositionExists(one) && board.at(one) == nil {
		mat[one.Row][one.Column] = true
		two := pos.offset(2*dir, 0)
		if pawn.MoveCount == 0 && board.PositionExists(two) && board.at(two) == nil {
			mat[two.Row][two.Column] = true
		}
	}

	for _, side := range []int{-1, 1} {
		diag := pos.offset(dir, side)
		if isThereOpponentPiece(board, pawn, diag) {
			mat[diag.Row][diag.Column] = true
		}
	}

	if ctx.enPassantVulnerable == nil || pos.Row != enPassantRow(board, pawn.Color) {
		return
	}
	for _, side := range []int{-1, 1} {
		beside := pos.offset(0, side)
		if isThereOpponentPiece(board, pawn, beside) && board.at(beside) == ctx.enPassantVulnerable {
			target := beside.offset(dir, 0)
			if board.PositionExists(target) {
				mat[target.Row][target.Column] = true
			}
		}
	}
}
