package emutest

import (
	"testing"

	"github.com/bft-labs/pine/pkg/codec"
	"github.com/bft-labs/pine/pkg/command"
)

func TestExecMemory(t *testing.T) {
	e := New(codec.Codec{})
	e.SetMemory(0x100, 0x01, 0x02, 0x03, 0x04)

	tests := []struct {
		cmd  command.Command
		want command.Result
	}{
		{command.Read8{Addr: 0x100}, command.Read8Result{Value: 0x01}},
		{command.Read16{Addr: 0x100}, command.Read16Result{Value: 0x0201}},
		{command.Read32{Addr: 0x100}, command.Read32Result{Value: 0x04030201}},
		{command.Read64{Addr: 0x100}, command.Read64Result{Value: 0x04030201}},
		{command.Read8{Addr: 0x200}, command.Read8Result{Value: 0}},
	}
	for _, tt := range tests {
		got, ok := e.exec(tt.cmd)
		if !ok || got != tt.want {
			t.Errorf("exec(%v) = %v, %v; want %v", tt.cmd, got, ok, tt.want)
		}
	}

	e.exec(command.Write16{Addr: 0x300, Value: 0xBEEF})
	if got := e.Memory(0x300, 2); got[0] != 0xEF || got[1] != 0xBE {
		t.Errorf("Memory after Write16 = % X", got)
	}
}

func TestSaveAndLoadState(t *testing.T) {
	e := New(codec.Codec{})
	e.SetMemory(0, 7)

	if _, ok := e.exec(command.LoadState{Slot: 1}); ok {
		t.Error("loading an unsaved slot should fail")
	}
	e.exec(command.SaveState{Slot: 1})
	e.exec(command.Write8{Addr: 0, Value: 9})
	if _, ok := e.exec(command.LoadState{Slot: 1}); !ok {
		t.Fatal("LoadState failed")
	}
	if got := e.Memory(0, 1)[0]; got != 7 {
		t.Errorf("memory after LoadState = %d, want 7", got)
	}
}

func TestRespondFailure(t *testing.T) {
	c := codec.Codec{}
	e := New(c)

	e.FailNext(1)
	resp, _ := e.respond(nil, []byte{byte(command.OpStatus)})
	if want := c.AppendFailure(nil); string(resp) != string(want) {
		t.Errorf("respond = % X, want % X", resp, want)
	}

	resp, _ = e.respond(nil, []byte{byte(command.OpStatus)})
	results, err := c.DecodeFrame([]command.Command{command.Status{}}, resp)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if results[0] != (command.StatusResult{Status: command.StatusRunning}) {
		t.Errorf("result = %v", results[0])
	}

	resp, _ = e.respond(nil, []byte{0x42})
	if string(resp) != string(c.AppendFailure(nil)) {
		t.Errorf("unknown opcode response = % X, want failure", resp)
	}
	if got := len(e.Requests()); got != 2 {
		t.Errorf("recorded %d requests, want 2", got)
	}
}
