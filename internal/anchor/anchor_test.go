package anchor

import (
	"errors"
	"testing"

	"minebot/internal/geometry"
)

func TestErrAnchorNotFound_IsBoardNotFound(t *testing.T) {
	if !errors.Is(ErrAnchorNotFound, geometry.ErrBoardNotFound) {
		t.Fatal("missing anchor must read as a missing board")
	}
}
