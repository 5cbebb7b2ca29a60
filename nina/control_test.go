package nina

import (
	"testing"

	"ninadrv.dev/nina/ninasim"
)

func newTestControl() (*ControlLines, *ninasim.Pin, *ninasim.ScriptedPin, *ninasim.Delay) {
	cs := ninasim.NewPin(true)
	readyAck := &ninasim.ScriptedPin{States: []bool{false, true}}
	delay := &ninasim.Delay{}
	c := &ControlLines{
		CS:       cs,
		Boot:     ninasim.NewPin(true),
		Rst:      ninasim.NewPin(true),
		ReadyAck: readyAck,
		Delay:    delay,
	}
	return c, cs, readyAck, delay
}

func TestAcquireSelectsOnly(t *testing.T) {
	c, cs, _, _ := newTestControl()
	if err := c.Acquire(); err != nil {
		t.Fatal(err)
	}
	if len(cs.Transition) != 1 || cs.Transition[0] != false {
		t.Fatalf("CS transitions = %v, want a single SetLow", cs.Transition)
	}
}

func TestDeselectDrivesHigh(t *testing.T) {
	c, cs, _, _ := newTestControl()
	if err := c.Select(); err != nil {
		t.Fatal(err)
	}
	if err := c.Deselect(); err != nil {
		t.Fatal(err)
	}
	want := []bool{false, true}
	if len(cs.Transition) != len(want) || cs.Transition[0] != want[0] || cs.Transition[1] != want[1] {
		t.Fatalf("CS transitions = %v, want %v", cs.Transition, want)
	}
}

func TestResetTiming(t *testing.T) {
	c, _, _, delay := newTestControl()
	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	want := []uint32{10, 750}
	if len(delay.Sleeps) != len(want) || delay.Sleeps[0] != want[0] || delay.Sleeps[1] != want[1] {
		t.Fatalf("Reset delays = %v, want %v", delay.Sleeps, want)
	}
}

func TestIsReadyIsAckShareOnePin(t *testing.T) {
	c, _, readyAck, _ := newTestControl()
	_ = readyAck
	ready, err := c.IsReady()
	if err != nil {
		t.Fatal(err)
	}
	if !ready {
		t.Fatal("expected ready on first (low) scripted state")
	}
	ack, err := c.IsAck()
	if err != nil {
		t.Fatal(err)
	}
	if !ack {
		t.Fatal("expected ack on second (high) scripted state")
	}
}
