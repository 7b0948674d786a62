package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"minebot/internal/board"
)

// ErrSolverUnavailable удалённый решатель не ответил или ответил ошибкой
var ErrSolverUnavailable = errors.New("remote solver unavailable")

const protocolVersion = 1

// Коды действий в ответе решателя
const (
	actionClick = 0
	actionFlag  = 1
	actionGuess = 2
)

// Client отправляет доску внешнему решателю
type Client struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient timeout <= 0 означает без ограничения (кроме контекста)
func NewClient(url string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, httpClient: httpClient, timeout: timeout}
}

func (c *Client) Name() string {
	return "remote"
}

// EncodeCell три числа на клетку в формате решателя
func EncodeCell(s board.CellState) [3]int {
	switch {
	case s.IsNumber():
		return [3]int{s.Count(), 0, 1}
	case s == board.Flagged:
		return [3]int{0, 0, 2}
	case s == board.SafeRevealed:
		return [3]int{0, 0, 5}
	}
	// Unknown, бонусы и нераспознанные клетки для решателя закрыты
	return [3]int{0, 0, 0}
}

// EncodeRequest [версия, ширина, высота, мины, 1, 0, 0, 0, тройки клеток по строкам...]
func EncodeRequest(b *board.Board, mines int) []int {
	req := make([]int, 0, 8+3*b.Rows*b.Cols)
	req = append(req, protocolVersion, b.Cols, b.Rows, mines, 1, 0, 0, 0)
	b.Each(func(_ board.Coord, s board.CellState) {
		enc := EncodeCell(s)
		req = append(req, enc[0], enc[1], enc[2])
	})
	return req
}

// DecodeResponse пары (индекс, код действия) -> ходы, index = row*width + col
func DecodeResponse(b *board.Board, resp []int) ([]board.Move, error) {
	if len(resp)%2 != 0 {
		return nil, fmt.Errorf("нечётная длина ответа: %d", len(resp))
	}
	moves := make([]board.Move, 0, len(resp)/2)
	for i := 0; i < len(resp); i += 2 {
		index, code := resp[i], resp[i+1]
		if index < 0 || index >= b.Rows*b.Cols {
			return nil, fmt.Errorf("индекс клетки вне поля: %d", index)
		}
		m := board.Move{Row: index / b.Cols, Col: index % b.Cols}
		switch code {
		case actionClick:
			m.Kind = board.Click
		case actionFlag:
			m.Kind = board.Flag
		case actionGuess:
			m.Kind = board.Guess
		default:
			return nil, fmt.Errorf("неизвестный код действия %d для клетки %d", code, index)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// Order упорядочивает ответ решателя по тем же правилам, что и локальный выбор хода:
// сначала флаги, затем действия по бонусным клеткам, затем остальные клики.
// Если решатель вернул только догадки, остаётся одна, бонусная клетка в приоритете.
func Order(b *board.Board, moves []board.Move) []board.Move {
	var certain, guesses []board.Move
	for _, m := range moves {
		if m.Kind == board.Guess {
			guesses = append(guesses, m)
		} else {
			certain = append(certain, m)
		}
	}

	if len(certain) > 0 {
		sort.SliceStable(certain, func(i, j int) bool {
			return rank(b, certain[i]) < rank(b, certain[j])
		})
		return certain
	}
	if len(guesses) == 0 {
		return nil
	}
	sort.SliceStable(guesses, func(i, j int) bool {
		return guessRank(b, guesses[i]) < guessRank(b, guesses[j])
	})
	return guesses[:1]
}

func rank(b *board.Board, m board.Move) int {
	switch {
	case m.Kind == board.Flag:
		return 0
	case b.At(m.Row, m.Col).IsBonus():
		return 1
	}
	return 2
}

func guessRank(b *board.Board, m board.Move) int {
	switch b.At(m.Row, m.Col) {
	case board.BonusPendingA:
		return 0
	case board.BonusPendingB:
		return 1
	}
	return 2
}

// Solve отправляет доску и возвращает упорядоченные ходы.
// Любая ошибка сети, таймаут или не-200 оборачиваются в ErrSolverUnavailable.
func (c *Client) Solve(ctx context.Context, b *board.Board, mines int) ([]board.Move, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(EncodeRequest(b, mines))
	if err != nil {
		return nil, fmt.Errorf("ошибка кодирования запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrSolverUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}

	var pairs []int
	if err := json.Unmarshal(bytes.TrimSpace(data), &pairs); err != nil {
		return nil, fmt.Errorf("%w: некорректный ответ: %v", ErrSolverUnavailable, err)
	}

	moves, err := DecodeResponse(b, pairs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}
	return Order(b, moves), nil
}
