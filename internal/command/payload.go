package command

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Typed payloads, one per command kind that declares a payload schema.
// Closed payloads reject unknown fields at the decode boundary; ChordPlay is
// explicitly open for extension.

// NotePlay plays a single note. Note is a name ("C4") or a key number 0-127.
type NotePlay struct {
	Note        any     `json:"note"`
	Velocity    int     `json:"velocity"`
	DurationSec float64 `json:"durationSec"`
	Channel     int     `json:"channel"`
}

// ChordPlay plays a chord by root and quality.
type ChordPlay struct {
	Root    string `json:"root"`
	Quality string `json:"quality"`
	Voicing string `json:"voicing,omitempty"`
	Channel int    `json:"channel"`
}

// Arpeggiate plays a chord as a pattern. RateHz or Sync must be set.
type Arpeggiate struct {
	Style       string   `json:"style"`
	Rate        string   `json:"rate"`
	Gate        float64  `json:"gate"`
	LengthBeats float64  `json:"lengthBeats"`
	Channel     int      `json:"channel"`
	RateHz      *float64 `json:"rateHz,omitempty"`
	Sync        string   `json:"sync,omitempty"`
}

// CCSet sets a MIDI controller value.
type CCSet struct {
	CC      int `json:"cc"`
	Value   int `json:"value"`
	Channel int `json:"channel"`
}

// CCRamp sweeps a controller between two values over time.
type CCRamp struct {
	CC      int     `json:"cc"`
	From    int     `json:"from"`
	To      int     `json:"to"`
	TimeMs  float64 `json:"timeMs"`
	Channel int     `json:"channel"`
}

// CCLFO modulates a controller with a waveform. RateHz or Sync must be set.
type CCLFO struct {
	CC       int      `json:"cc"`
	Waveform string   `json:"waveform"`
	RateHz   *float64 `json:"rateHz,omitempty"`
	Sync     string   `json:"sync,omitempty"`
	Depth    int      `json:"depth"`
	Center   int      `json:"center"`
	Channel  int      `json:"channel"`
}

// ProgramChange switches a program, optionally with bank select.
type ProgramChange struct {
	Program int  `json:"program"`
	BankMsb *int `json:"bankMsb,omitempty"`
	BankLsb *int `json:"bankLsb,omitempty"`
	Channel int  `json:"channel"`
}

// PitchBend sets the pitch wheel.
type PitchBend struct {
	Value   int `json:"value"`
	Channel int `json:"channel"`
}

// Aftertouch sets channel pressure.
type Aftertouch struct {
	Value   int `json:"value"`
	Channel int `json:"channel"`
}

// DAWSceneLaunch fires a scene by index.
type DAWSceneLaunch struct {
	Scene int `json:"scene"`
}

// DAWClipLaunch fires a clip slot.
type DAWClipLaunch struct {
	Track int `json:"track"`
	Slot  int `json:"slot"`
}

// DAWTrackArm arms or disarms a track.
type DAWTrackArm struct {
	Track int  `json:"track"`
	State bool `json:"state"`
}

// OSCSend sends an OSC message.
type OSCSend struct {
	Addr string `json:"addr"`
	Args []any  `json:"args,omitempty"`
}

// DeviceParamSet sets a named device parameter.
type DeviceParamSet struct {
	TargetID string  `json:"targetId"`
	Param    string  `json:"param"`
	Value    float64 `json:"value"`
}

// MacroTrigger fires a stored macro.
type MacroTrigger struct {
	MacroID string `json:"macroId"`
}

// CueGoto jumps the transport to a cue position.
type CueGoto struct {
	Position string `json:"position"`
}

// TempoSet changes the transport tempo.
type TempoSet struct {
	BPM float64 `json:"bpm"`
}

// MIDIClockTx toggles MIDI clock transmission.
type MIDIClockTx struct {
	Enabled bool `json:"enabled"`
}

// closed decodes a closed payload, rejecting unknown fields. This is where
// the additionalProperties check happens for typed payloads arriving from
// untyped storage.
func closed[T any](t Type, raw json.RawMessage) (any, error) {
	var p T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("payload for %s: %w", t, err)
	}
	return p, nil
}

// decodePayload turns raw payload JSON into the typed variant for t. Types
// without a declared payload shape decode to a plain map.
func decodePayload(t Type, raw json.RawMessage) (any, error) {
	switch t {
	case TypeNotePlay:
		return closed[NotePlay](t, raw)
	case TypeChordPlay:
		// Open payload: unknown fields are allowed and dropped.
		var p ChordPlay
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("payload for %s: %w", t, err)
		}
		return p, nil
	case TypeArpeggiate:
		return closed[Arpeggiate](t, raw)
	case TypeCCSet:
		return closed[CCSet](t, raw)
	case TypeCCRamp:
		return closed[CCRamp](t, raw)
	case TypeCCLFO:
		return closed[CCLFO](t, raw)
	case TypeProgramChange:
		return closed[ProgramChange](t, raw)
	case TypePitchBend:
		return closed[PitchBend](t, raw)
	case TypeAftertouch:
		return closed[Aftertouch](t, raw)
	case TypeDAWSceneLaunch:
		return closed[DAWSceneLaunch](t, raw)
	case TypeDAWClipLaunch:
		return closed[DAWClipLaunch](t, raw)
	case TypeDAWTrackArm:
		return closed[DAWTrackArm](t, raw)
	case TypeOSCSend:
		return closed[OSCSend](t, raw)
	case TypeDeviceParamSet:
		return closed[DeviceParamSet](t, raw)
	case TypeMacroTrigger:
		return closed[MacroTrigger](t, raw)
	case TypeCueGoto:
		return closed[CueGoto](t, raw)
	case TypeTransportTempo:
		return closed[TempoSet](t, raw)
	case TypeSyncMIDIClockTx:
		return closed[MIDIClockTx](t, raw)
	default:
		// No declared payload shape; keep the raw object.
		var p map[string]any
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("payload for %s: %w", t, err)
		}
		return p, nil
	}
}
