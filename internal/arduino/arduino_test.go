package arduino

import (
	"bytes"
	"strings"
	"testing"
)

type fakePort struct {
	in  *strings.Reader
	out bytes.Buffer
}

func newFakePort(responses string) *fakePort {
	return &fakePort{in: strings.NewReader(responses)}
}

func (p *fakePort) Read(b []byte) (int, error)  { return p.in.Read(b) }
func (p *fakePort) Write(b []byte) (int, error) { return p.out.Write(b) }

func TestArduino_CommandLines(t *testing.T) {
	port := newFakePort(strings.Repeat("received\r\n", 6))
	a := New(port)

	steps := []func() error{
		func() error { return a.Click(10, 20) },
		func() error { return a.RightClick(3, 4) },
		func() error { return a.Move(10, 10) },
		func() error { return a.PressKey("1") },
		func() error { return a.KeyDown("shift") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	want := "click:10,20\nright_click:3,4\nmove:10,10\nkey_down:1\nkey_up:1\nkey_down:shift\n"
	if got := port.out.String(); got != want {
		t.Fatalf("written: got %q want %q", got, want)
	}
}

func TestArduino_UnexpectedResponse(t *testing.T) {
	a := New(newFakePort("error\n"))
	if err := a.Click(1, 1); err == nil {
		t.Fatal("expected error for unexpected response")
	}
}

func TestArduino_NoResponse(t *testing.T) {
	a := New(newFakePort(""))
	if err := a.Click(1, 1); err == nil {
		t.Fatal("expected error when the board stays silent")
	}
}
