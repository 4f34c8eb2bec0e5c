package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestClassifyCoversCommandTable(t *testing.T) {
	for _, commandType := range CommandTypes() {
		if kind := Classify(commandType); kind != KindCommand {
			t.Fatalf("Classify(%q) = %v, want KindCommand", commandType, kind)
		}
		resultType, ok := ResultTypeFor(commandType)
		if !ok {
			t.Fatalf("no result type for command %q", commandType)
		}
		if kind := Classify(resultType); kind != KindResult {
			t.Fatalf("Classify(%q) = %v, want KindResult", resultType, kind)
		}
		if !strings.HasSuffix(resultType, "_result") {
			t.Fatalf("result type %q does not follow the _result convention", resultType)
		}
	}
}

func TestClassifyErrorAndUnknown(t *testing.T) {
	if kind := Classify(TypeError); kind != KindError {
		t.Fatalf("Classify(error) = %v, want KindError", kind)
	}
	for _, unknown := range []string{"", "bogus", "execute", "run_cell_request"} {
		if kind := Classify(unknown); kind != KindUnknown {
			t.Fatalf("Classify(%q) = %v, want KindUnknown", unknown, kind)
		}
	}
}

func TestDecodeEnvelope(t *testing.T) {
	raw := []byte(`{"type":"run_cell","request_id":"r1","index":3}`)
	env, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Type != TypeRunCell || env.RequestID != "r1" || env.Kind != KindCommand {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if string(env.Raw) != string(raw) {
		t.Fatalf("raw bytes not preserved")
	}
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte("not json"))
	if !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

func TestDecodeHandshakeRoles(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		isHost  bool
	}{
		{"host", `{"role":"host"}`, true},
		{"caller", `{"role":"caller"}`, false},
		{"unknown role registers as caller", `{"role":"external"}`, false},
		{"missing role registers as caller", `{}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hs, err := DecodeHandshake([]byte(tc.payload))
			if err != nil {
				t.Fatalf("decode handshake: %v", err)
			}
			if hs.IsHost() != tc.isHost {
				t.Fatalf("IsHost() = %v, want %v", hs.IsHost(), tc.isHost)
			}
		})
	}
}

func TestDecodeHandshakeMalformed(t *testing.T) {
	_, err := DecodeHandshake([]byte("hello"))
	if !errors.Is(err, ErrMalformedHandshake) {
		t.Fatalf("expected ErrMalformedHandshake, got %v", err)
	}
}

func TestNoHostErrorFrame(t *testing.T) {
	payload, err := json.Marshal(NewNoHostErrorFrame("r1"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"error","request_id":"r1","message":"No notebook client connected"}`
	if string(payload) != want {
		t.Fatalf("frame = %s, want %s", payload, want)
	}
}

func TestDecodeResult(t *testing.T) {
	raw := []byte(`{"type":"save_result","request_id":"r2","status":"success","path":"scratch.ipynb"}`)
	result, err := DecodeResult(raw)
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Type != TypeSaveResult || result.RequestID != "r2" || result.Status != StatusSuccess {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.IsError() {
		t.Fatalf("success result reported as error")
	}

	var save SaveResult
	if err := result.Decode(&save); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if save.Path != "scratch.ipynb" {
		t.Fatalf("path = %q", save.Path)
	}
}

func TestResultIsError(t *testing.T) {
	errResult, err := DecodeResult([]byte(`{"type":"error","request_id":"r3","message":"boom"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !errResult.IsError() {
		t.Fatalf("error frame not reported as error")
	}

	failed, err := DecodeResult([]byte(`{"type":"run_cell_result","request_id":"r4","status":"error"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !failed.IsError() {
		t.Fatalf("error-status result not reported as error")
	}
}

func TestCommandValidation(t *testing.T) {
	cases := []struct {
		name    string
		cmd     interface{ Validate() error }
		wantErr error
	}{
		{"valid run_cell", NewRunCellCommand("r1", 0), nil},
		{"run_cell missing request id", NewRunCellCommand("", 0), ErrMissingRequestID},
		{"run_cell negative index", NewRunCellCommand("r1", -1), ErrInvalidCellIndex},
		{"insert missing cell type", NewInsertAndExecuteCellCommand("r1", " ", 0, "x"), ErrEmptyCellType},
		{"text output zero max length", NewGetCellTextOutputCommand("r1", 0, 0), ErrInvalidMaxLength},
		{"valid save", NewSaveNotebookCommand("r1"), nil},
		{"valid slideshow", NewSetSlideshowTypeCommand("r1", 2, "slide"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCommandFramesCarryTypeAndRequestID(t *testing.T) {
	payload, err := json.Marshal(NewGetCellTextOutputCommand("r9", 1, 1500))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	env, err := DecodeEnvelope(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Type != TypeGetCellTextOutput || env.RequestID != "r9" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
