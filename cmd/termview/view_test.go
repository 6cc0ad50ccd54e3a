package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/watershed/pkg/config"
)

func newTestView(t *testing.T) (*termView, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init simulation screen: %v", err)
	}
	screen.SetSize(120, 40)
	t.Cleanup(screen.Fini)

	view, err := newTermView(screen, config.DefaultLevelDirector(), 5, 30)
	if err != nil {
		t.Fatalf("newTermView failed: %v", err)
	}
	return view, screen
}

func rowText(screen tcell.SimulationScreen, row, width int) string {
	var sb strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, row)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestTermView_DrawsCameraAndHUD(t *testing.T) {
	view, screen := newTestView(t)
	view.draw()

	cx, cy := view.project(view.camera.Position())
	if r, _, _, _ := screen.GetContent(cx, cy); r != '@' {
		t.Errorf("expected camera glyph at (%d, %d), got %q", cx, cy, r)
	}
	if cx != 60 || cy != 30 {
		t.Errorf("expected camera at screen (60, 30), got (%d, %d)", cx, cy)
	}

	hud := rowText(screen, 0, 120)
	if !strings.Contains(hud, "seed 5") || !strings.Contains(hud, "active 0..1") {
		t.Errorf("unexpected HUD: %q", hud)
	}
}

func TestTermView_StepAdvancesCourse(t *testing.T) {
	view, _ := newTestView(t)
	start := view.camera.Position()

	for i := 0; i < 600; i++ {
		view.step(1.0 / 60)
	}
	if view.camera.Position().Z >= start.Z {
		t.Error("camera did not move forward")
	}
	if view.streaming.State().LastGeneratedID < 2 {
		t.Error("expected at least one generated segment")
	}
}

func TestTermView_HandleEvent(t *testing.T) {
	view, _ := newTestView(t)

	key := func(r rune) tcell.Event {
		return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
	}

	if keep, err := view.handleEvent(key(' ')); !keep || err != nil || !view.paused {
		t.Errorf("space should pause: keep=%v err=%v paused=%v", keep, err, view.paused)
	}
	if !view.camera.Camera().Paused {
		t.Error("camera should be paused")
	}

	before := view.scale
	view.handleEvent(key('+'))
	if view.scale <= before {
		t.Errorf("zoom in did not increase scale: %v -> %v", before, view.scale)
	}
	for i := 0; i < 50; i++ {
		view.handleEvent(key('-'))
	}
	if view.scale != minScale {
		t.Errorf("scale should clamp to %v, got %v", minScale, view.scale)
	}

	if keep, err := view.handleEvent(key('r')); !keep || err != nil {
		t.Fatalf("reseed failed: keep=%v err=%v", keep, err)
	}
	if view.seed != 6 {
		t.Errorf("expected seed 6 after reseed, got %d", view.seed)
	}
	if !view.camera.Camera().Paused {
		t.Error("pause state should survive reseed")
	}

	if keep, _ := view.handleEvent(key('q')); keep {
		t.Error("q should quit")
	}
	if keep, _ := view.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)); keep {
		t.Error("escape should quit")
	}
}
