package click_manager

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"minebot/internal/board"
	"minebot/internal/geometry"
)

type recordingMouse struct {
	calls []string
	fail  error
}

func (m *recordingMouse) record(name string, x, y int) error {
	m.calls = append(m.calls, name+":"+image.Pt(x, y).String())
	return m.fail
}

func (m *recordingMouse) Click(x, y int) error      { return m.record("click", x, y) }
func (m *recordingMouse) RightClick(x, y int) error { return m.record("right", x, y) }
func (m *recordingMouse) Move(x, y int) error       { return m.record("move", x, y) }
func (m *recordingMouse) PressKey(key string) error {
	m.calls = append(m.calls, "key:"+key)
	return m.fail
}

func testGeometry() geometry.Geometry {
	return geometry.Geometry{Origin: image.Pt(100, 50), CellSize: 34, Spacing: 2, Rows: 9, Cols: 9}
}

func TestClickManager_Execute(t *testing.T) {
	mouse := &recordingMouse{}
	m := NewClickManager(mouse, 1000, 20, 0, nil)

	moves := []board.Move{
		{Kind: board.Click, Row: 1, Col: 2},
		{Kind: board.Flag, Row: 0, Col: 0},
		{Kind: board.Guess, Row: 2, Col: 1},
	}
	for _, mv := range moves {
		if err := m.Execute(mv, testGeometry()); err != nil {
			t.Fatalf("execute %v: %v", mv, err)
		}
	}
	want := []string{
		"click:(1189,123)",
		"right:(1117,87)",
		"click:(1153,159)",
	}
	if !reflect.DeepEqual(mouse.calls, want) {
		t.Fatalf("calls: got %v want %v", mouse.calls, want)
	}
}

func TestClickManager_ParkAndKey(t *testing.T) {
	mouse := &recordingMouse{}
	m := NewClickManager(mouse, 1000, 20, 0, nil)
	if err := m.ParkCursor(); err != nil {
		t.Fatalf("park: %v", err)
	}
	if err := m.PressKey("1"); err != nil {
		t.Fatalf("press: %v", err)
	}
	want := []string{"move:(10,10)", "key:1"}
	if !reflect.DeepEqual(mouse.calls, want) {
		t.Fatalf("calls: got %v want %v", mouse.calls, want)
	}
}

func TestClickManager_DeviceError(t *testing.T) {
	boom := errors.New("port closed")
	m := NewClickManager(&recordingMouse{fail: boom}, 0, 0, 0, nil)
	err := m.Execute(board.Move{Kind: board.Click}, testGeometry())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped device error, got %v", err)
	}
}
