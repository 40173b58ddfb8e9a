package domain

import (
	"encoding/json"
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		input    string
		expected ActionType
	}{
		{"START", ActionStart},
		{"start", ActionStart},
		{"Input", ActionInput},
		{"STOP", ActionStop},
		{"INIT", ActionInit},
		{"grant_upgrade", ActionGrantUpgrade},
		{"ATTACK", ActionUnknown},
		{"", ActionUnknown},
	}

	for _, tt := range tests {
		result := ParseAction(tt.input)
		if result != tt.expected {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestActionType_String(t *testing.T) {
	tests := []struct {
		action   ActionType
		expected string
	}{
		{ActionInput, "INPUT"},
		{ActionStop, "STOP"},
		{ActionUnknown, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.action.String(); got != tt.expected {
			t.Errorf("ActionType(%d).String() = %q, want %q", tt.action, got, tt.expected)
		}
	}
}

func TestParseEvent_RoundTrip(t *testing.T) {
	for typ, name := range eventTypeToString {
		if got := ParseEvent(name); got != typ {
			t.Errorf("ParseEvent(%q) = %v, want %v", name, got, typ)
		}
	}
	if ParseEvent("door_opened") != EventUnknown {
		t.Error("unexpected event type for unknown name")
	}
}

func TestParseUpgrade(t *testing.T) {
	if ParseUpgrade("multishot") != UpgradeMultishot {
		t.Error("expected MULTISHOT")
	}
	if ParseUpgrade("laser") != UpgradeUnknown {
		t.Error("expected UNKNOWN for unknown upgrade")
	}
	if len(AllUpgrades) != 5 {
		t.Errorf("expected 5 upgrade kinds, got %d", len(AllUpgrades))
	}
}

func TestEventAndPhase_DecodeFromWire(t *testing.T) {
	raw := []byte(`{"type":"SESSION_ENDED","sessionId":"s1","reason":"AMMO_DEPLETED","ammo":0,"health":3}`)
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.Type != EventSessionEnded || ev.Reason != EndAmmoDepleted {
		t.Errorf("decoded %+v", ev)
	}

	var tel Telemetry
	if err := json.Unmarshal([]byte(`{"phase":"GAME_OVER","ammo":2}`), &tel); err != nil {
		t.Fatalf("unmarshal telemetry: %v", err)
	}
	if tel.Phase != PhaseGameOver {
		t.Errorf("phase = %v, want GAME_OVER", tel.Phase)
	}

	if err := json.Unmarshal([]byte(`{"phase":"PAUSED"}`), &tel); err == nil {
		t.Error("unknown phase must fail")
	}
}
