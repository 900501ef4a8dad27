package codec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/bft-labs/pine/pkg/command"
)

// allCommands covers every opcode once.
var allCommands = []command.Command{
	command.Read8{Addr: 0x10},
	command.Read16{Addr: 0x20},
	command.Read32{Addr: 0x003667DC},
	command.Read64{Addr: 0x40},
	command.Write8{Addr: 0x50, Value: 0xA9},
	command.Write16{Addr: 0x60, Value: 0xBEEF},
	command.Write32{Addr: 0x70, Value: 0xDEADBEEF},
	command.Write64{Addr: 0x80, Value: 0x0102030405060708},
	command.Version{},
	command.SaveState{Slot: 3},
	command.LoadState{Slot: 4},
	command.Title{},
	command.ID{},
	command.UUID{},
	command.GameVersion{},
	command.Status{},
	command.Unimplemented{},
}

var allResults = []command.Result{
	command.Read8Result{Value: 0xFE},
	command.Read16Result{Value: 0xCAFE},
	command.Read32Result{Value: 3566512},
	command.Read64Result{Value: 0x1122334455667788},
	command.Write8Result{},
	command.Write16Result{},
	command.Write32Result{},
	command.Write64Result{},
	command.VersionResult{Version: "PCSX2 v1.7.5"},
	command.SaveStateResult{},
	command.LoadStateResult{},
	command.TitleResult{Title: "Klonoa 2 - Lunatea's Veil"},
	command.IDResult{ID: "SLUS-20151"},
	command.UUIDResult{UUID: "7b7c3a4f"},
	command.GameVersionResult{Version: "1.00"},
	command.StatusResult{Status: command.StatusPaused},
	command.UnimplementedResult{},
}

func TestEncodeRead32Scenario(t *testing.T) {
	cmds := []command.Command{command.Read32{Addr: 0x003667DC}}

	got := Codec{}.AppendRequest(nil, cmds)
	want := []byte{
		5, 0, 0, 0, // length
		2,                      // opcode Read32
		0xDC, 0x67, 0x36, 0x00, // address
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("encode:\n\twant=%v,\n\t got=%v", want, got)
	}

	response := []byte{
		5, 0, 0, 0,
		StatusOK,
		0xB0, 0x6B, 0x36, 0x00,
	}
	results, err := Codec{}.DecodeFrame(cmds, response)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	wantResults := []command.Result{command.Read32Result{Value: 3566512}}
	if !reflect.DeepEqual(results, wantResults) {
		t.Errorf("results = %v, want %v", results, wantResults)
	}
}

func TestEncodeAllArguments(t *testing.T) {
	cmds := []command.Command{
		command.Write8{Addr: 0x01020304, Value: 0xAA},
		command.Write16{Addr: 0x01020304, Value: 0xBBCC},
		command.Write64{Addr: 0x01020304, Value: 0x1122334455667788},
		command.SaveState{Slot: 7},
		command.Title{},
	}
	got := Codec{}.AppendRequest(nil, cmds)
	want := []byte{
		29, 0, 0, 0,
		4, 0x04, 0x03, 0x02, 0x01, 0xAA,
		5, 0x04, 0x03, 0x02, 0x01, 0xCC, 0xBB,
		7, 0x04, 0x03, 0x02, 0x01, 0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11,
		9, 7,
		11,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("encode:\n\twant=%v,\n\t got=%v", want, got)
	}
	if RequestSize(cmds) != len(want) {
		t.Errorf("RequestSize() = %d, want %d", RequestSize(cmds), len(want))
	}
}

func TestAppendRequestReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 64)
	first := Codec{}.AppendRequest(buf[:0], []command.Command{command.Title{}})
	second := Codec{}.AppendRequest(buf[:0], []command.Command{command.Status{}})
	if &first[0] != &second[0] {
		t.Error("AppendRequest did not reuse the scratch buffer")
	}
	if !bytes.Equal(second, []byte{1, 0, 0, 0, 15}) {
		t.Errorf("second frame = %v", second)
	}
}

func TestEmptyBatch(t *testing.T) {
	frame := Codec{}.AppendRequest(nil, nil)
	if !bytes.Equal(frame, []byte{0, 0, 0, 0}) {
		t.Fatalf("empty request = %v", frame)
	}

	resp, err := Codec{}.AppendResponse(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Codec{}.DecodeFrame(nil, resp)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
}

func TestEmptyBatchBareResponse(t *testing.T) {
	for _, c := range []Codec{{}, {InclusiveLength: true}} {
		header := []byte{0, 0, 0, 0}
		if c.InclusiveLength {
			header = []byte{4, 0, 0, 0}
		}
		results, err := c.DecodeFrame(nil, header)
		if err != nil {
			t.Fatalf("inclusive=%v: DecodeFrame() error = %v", c.InclusiveLength, err)
		}
		if results == nil || len(results) != 0 {
			t.Errorf("inclusive=%v: results = %#v, want empty non-nil", c.InclusiveLength, results)
		}
	}

	// A non-empty batch still needs the status byte.
	if _, err := (Codec{}).DecodeResponse([]command.Command{command.Status{}}, nil); !errors.Is(err, ErrProtocol) {
		t.Errorf("non-empty batch with empty payload: error = %v, want ErrProtocol", err)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Codec{{}, {InclusiveLength: true}} {
		req := c.AppendRequest(nil, allCommands)
		n, err := c.PayloadLength(req)
		if err != nil {
			t.Fatal(err)
		}
		cmds, err := c.DecodeRequest(req[HeaderSize : HeaderSize+n])
		if err != nil {
			t.Fatalf("DecodeRequest() error = %v", err)
		}
		if !reflect.DeepEqual(cmds, allCommands) {
			t.Fatalf("DecodeRequest() = %v, want %v", cmds, allCommands)
		}

		resp, err := c.AppendResponse(nil, allResults)
		if err != nil {
			t.Fatal(err)
		}
		results, err := c.DecodeFrame(cmds, resp)
		if err != nil {
			t.Fatalf("DecodeFrame() error = %v", err)
		}
		if len(results) != len(allCommands) {
			t.Fatalf("got %d results, want %d", len(results), len(allCommands))
		}
		for i := range results {
			if results[i].Opcode() != allCommands[i].Opcode() {
				t.Errorf("result %d opcode = %s, want %s", i, results[i].Opcode(), allCommands[i].Opcode())
			}
		}
		if !reflect.DeepEqual(results, allResults) {
			t.Errorf("results = %v, want %v", results, allResults)
		}
	}
}

func TestOrderPreservation(t *testing.T) {
	cmds := []command.Command{
		command.Title{},
		command.Read8{Addr: 1},
		command.Read64{Addr: 2},
	}
	results := []command.Result{
		command.TitleResult{Title: "a much longer title than the others"},
		command.Read8Result{Value: 1},
		command.Read64Result{Value: 2},
	}

	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, p := range perms {
		var pc []command.Command
		var pr []command.Result
		for _, i := range p {
			pc = append(pc, cmds[i])
			pr = append(pr, results[i])
		}
		resp, err := Codec{}.AppendResponse(nil, pr)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Codec{}.DecodeFrame(pc, resp)
		if err != nil {
			t.Fatalf("perm %v: DecodeFrame() error = %v", p, err)
		}
		if !reflect.DeepEqual(got, pr) {
			t.Errorf("perm %v: results = %v, want %v", p, got, pr)
		}
	}
}

func TestStringBoundary(t *testing.T) {
	cmds := []command.Command{command.Title{}, command.Read8{Addr: 0}}
	payload := []byte{
		StatusOK,
		0, 0, 0, 0, // empty title
		0x7F,
	}
	results, err := Codec{}.DecodeResponse(cmds, payload)
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	want := []command.Result{command.TitleResult{Title: ""}, command.Read8Result{Value: 0x7F}}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results = %v, want %v", results, want)
	}
}

func TestStringWithoutTerminator(t *testing.T) {
	payload := []byte{StatusOK, 4, 0, 0, 0, '1', '.', '0', '0'}
	results, err := Codec{}.DecodeResponse([]command.Command{command.GameVersion{}}, payload)
	if err != nil {
		t.Fatal(err)
	}
	if got := results[0].(command.GameVersionResult).Version; got != "1.00" {
		t.Errorf("Version = %q, want 1.00", got)
	}
}

func TestFailureShortCircuit(t *testing.T) {
	tests := []struct {
		name    string
		cmds    []command.Command
		payload []byte
	}{
		{"empty batch", nil, []byte{StatusFail}},
		{"fail status", allCommands, []byte{StatusFail}},
		{"fail status with trailing garbage", allCommands, []byte{StatusFail, 1, 2, 3}},
		{"nonzero status", []command.Command{command.Read8{}}, []byte{0x01, 0x42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Codec{}.DecodeResponse(tt.cmds, tt.payload)
			if !errors.Is(err, ErrBatchFailure) {
				t.Fatalf("error = %v, want ErrBatchFailure", err)
			}
			if results != nil {
				t.Errorf("results = %v, want nil", results)
			}
		})
	}

	frame := Codec{}.AppendFailure(nil)
	if !bytes.Equal(frame, []byte{1, 0, 0, 0, StatusFail}) {
		t.Errorf("AppendFailure() = %v", frame)
	}
}

func TestMalformedResponses(t *testing.T) {
	read32 := []command.Command{command.Read32{Addr: 0}}
	title := []command.Command{command.Title{}}

	tests := []struct {
		name    string
		cmds    []command.Command
		payload []byte
	}{
		{"missing status", read32, nil},
		{"truncated read", read32, []byte{StatusOK, 1, 2, 3}},
		{"trailing bytes", read32, []byte{StatusOK, 1, 2, 3, 4, 5}},
		{"trailing bytes on empty batch", nil, []byte{StatusOK, 0}},
		{"truncated string length", title, []byte{StatusOK, 3, 0}},
		{"string longer than payload", title, []byte{StatusOK, 9, 0, 0, 0, 'a', 'b'}},
		{"invalid utf8", title, []byte{StatusOK, 2, 0, 0, 0, 0xFF, 0xFE}},
		{"write with extra byte", []command.Command{command.Write8{}}, []byte{StatusOK, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Codec{}.DecodeResponse(tt.cmds, tt.payload)
			if !errors.Is(err, ErrProtocol) {
				t.Fatalf("error = %v, want ErrProtocol", err)
			}
			var perr *ProtocolError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *ProtocolError", err)
			}
			if results != nil {
				t.Errorf("results = %v, want nil", results)
			}
		})
	}
}

func TestLengthPrefixExactness(t *testing.T) {
	cmds := []command.Command{command.Read8{Addr: 0}}

	tests := []struct {
		name  string
		frame []byte
	}{
		{"short header", []byte{2, 0}},
		{"declared longer than available", []byte{5, 0, 0, 0, StatusOK, 1}},
		{"declared shorter than available", []byte{1, 0, 0, 0, StatusOK, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (Codec{}).DecodeFrame(cmds, tt.frame); !errors.Is(err, ErrProtocol) {
				t.Errorf("error = %v, want ErrProtocol", err)
			}
		})
	}
}

func TestInclusiveLength(t *testing.T) {
	c := Codec{InclusiveLength: true}
	frame := c.AppendRequest(nil, []command.Command{command.Read32{Addr: 0x003667DC}})
	if !bytes.Equal(frame[:4], []byte{9, 0, 0, 0}) {
		t.Errorf("inclusive prefix = %v, want 9", frame[:4])
	}

	n, err := c.PayloadLength([]byte{9, 0, 0, 0})
	if err != nil || n != 5 {
		t.Errorf("PayloadLength() = %d, %v; want 5", n, err)
	}
	if _, err := c.PayloadLength([]byte{3, 0, 0, 0}); !errors.Is(err, ErrProtocol) {
		t.Errorf("PayloadLength(3) error = %v, want ErrProtocol", err)
	}
}

func TestMaxFrameSize(t *testing.T) {
	c := Codec{MaxFrameSize: 16}
	if _, err := c.PayloadLength([]byte{12, 0, 0, 0}); err != nil {
		t.Errorf("PayloadLength(12) error = %v", err)
	}
	if _, err := c.PayloadLength([]byte{13, 0, 0, 0}); !errors.Is(err, ErrProtocol) {
		t.Errorf("PayloadLength(13) error = %v, want ErrProtocol", err)
	}
	if _, err := (Codec{}).PayloadLength([]byte{0xFF, 0xFF, 0xFF, 0xFF}); !errors.Is(err, ErrProtocol) {
		t.Errorf("PayloadLength(max uint32) error = %v, want ErrProtocol", err)
	}
}

func TestDecodeRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"unknown opcode", []byte{0x42}},
		{"truncated address", []byte{byte(command.OpRead32), 1, 2}},
		{"truncated write value", []byte{byte(command.OpWrite16), 1, 2, 3, 4, 5}},
		{"missing slot", []byte{byte(command.OpSaveState)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (Codec{}).DecodeRequest(tt.payload); !errors.Is(err, ErrProtocol) {
				t.Errorf("error = %v, want ErrProtocol", err)
			}
		})
	}
}

func TestStatusDecoding(t *testing.T) {
	payload := []byte{StatusOK, 7, 0, 0, 0}
	results, err := Codec{}.DecodeResponse([]command.Command{command.Status{}}, payload)
	if err != nil {
		t.Fatal(err)
	}
	if got := results[0].(command.StatusResult).Status; got != command.StatusUnknown {
		t.Errorf("Status = %v, want Unknown", got)
	}
}
