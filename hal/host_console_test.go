package hal

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestConsolePressesAndReleases(t *testing.T) {
	h := NewHost(Geometry{})
	b := h.Buttons()
	if err := b.Up.Configure(GPIOModeInput, GPIOPullUp); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	var unknown []string
	con := NewConsole(h, strings.NewReader("bogus\nup\n"), time.Millisecond)
	if err := con.Run(context.Background(), func(line string) { unknown = append(unknown, line) }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Fatalf("unknown = %v, want [bogus]", unknown)
	}
	if level, _ := b.Up.Read(); !level {
		t.Fatal("expected line released after press")
	}
}

func TestHostPinNames(t *testing.T) {
	h := NewHost(Geometry{})
	for _, name := range []string{"select", "escape", "up", "down", "ENTER", "esc"} {
		if h.Pin(name) == nil {
			t.Fatalf("Pin(%q) = nil", name)
		}
	}
	if h.Pin("left") != nil {
		t.Fatal("expected nil for unknown pin")
	}
	if h.Status(2) != nil {
		t.Fatal("expected nil for third status panel")
	}
}
