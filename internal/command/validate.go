package command

import (
	"encoding/json"
	"math"

	"github.com/2nist/dawsheet/internal/schema"
)

// requiredKeys lists the required payload fields per command kind, used when
// a payload arrives as an untyped map and zero values would otherwise hide a
// missing field.
var requiredKeys = map[Type][]string{
	TypeNotePlay:        {"note", "velocity", "durationSec", "channel"},
	TypeChordPlay:       {"root", "quality", "channel"},
	TypeArpeggiate:      {"style", "rate", "gate", "lengthBeats", "channel"},
	TypeCCSet:           {"cc", "value", "channel"},
	TypeCCRamp:          {"cc", "from", "to", "timeMs", "channel"},
	TypeCCLFO:           {"cc", "waveform", "depth", "center", "channel"},
	TypeProgramChange:   {"program", "channel"},
	TypePitchBend:       {"value", "channel"},
	TypeAftertouch:      {"value", "channel"},
	TypeDAWSceneLaunch:  {"scene"},
	TypeDAWClipLaunch:   {"track", "slot"},
	TypeDAWTrackArm:     {"track", "state"},
	TypeOSCSend:         {"addr"},
	TypeDeviceParamSet:  {"targetId", "param", "value"},
	TypeMacroTrigger:    {"macroId"},
	TypeCueGoto:         {"position"},
	TypeTransportTempo:  {"bpm"},
	TypeSyncMIDIClockTx: {"enabled"},
}

// ValidateEnvelope checks an envelope against the structural contract of the
// commands wire shape: required fields, enums, numeric ranges, and string
// patterns, with the payload shape determined by the type discriminant. It
// never panics and never returns an error; callers decide whether a failure
// is fatal.
func ValidateEnvelope(e Envelope) schema.Result {
	res := schema.OK()
	if e.V != Version {
		res.Addf("v = %d, want %d", e.V, Version)
	}
	if !e.Type.Known() {
		res.Addf("type %q is not a known command kind", e.Type)
	}
	if e.ID == "" {
		res.Addf("id is required")
	}
	if e.Origin == "" {
		res.Addf("origin is required")
	}
	if !schema.ValidAt(e.At) {
		res.Addf("at %q is not \"now\", bar:beat[:ticks], or ISO-8601", e.At)
	}
	if e.Quantize != nil && !e.Quantize.Known() {
		res.Addf("quantize %q is not an allowed grid", *e.Quantize)
	}
	if e.Target == "" {
		res.Addf("target is required")
	}
	for i, tr := range e.Transform {
		if !tr.Op.Known() {
			res.Addf("transform[%d].op %q is not an allowed operation", i, tr.Op)
		}
		if tr.Shape != "" && tr.Shape != "exp" && tr.Shape != "log" && tr.Shape != "sine" {
			res.Addf("transform[%d].shape %q is not exp, log, or sine", i, tr.Shape)
		}
	}
	if e.Payload == nil {
		res.Addf("payload is required")
		return res
	}
	validatePayload(e.Type, e.Payload, &res)
	return res
}

func validatePayload(t Type, payload any, res *schema.Result) {
	required, declared := requiredKeys[t]
	if m, ok := payload.(map[string]any); ok {
		if !declared {
			return // no declared shape, any object passes
		}
		for _, key := range required {
			if _, ok := m[key]; !ok {
				res.Addf("payload.%s is required for %s", key, t)
			}
		}
		raw, err := json.Marshal(m)
		if err != nil {
			res.Addf("payload for %s is not serializable: %v", t, err)
			return
		}
		typed, err := decodePayload(t, raw)
		if err != nil {
			res.Addf("%v", err)
			return
		}
		payload = typed
	}
	if !declared {
		if _, ok := payload.(map[string]any); !ok {
			res.Addf("payload for %s must be a plain object", t)
		}
		return
	}
	if check, ok := payloadChecks[t]; ok {
		check(payload, res)
	}
}

var payloadChecks = map[Type]func(any, *schema.Result){
	TypeNotePlay:        checkNotePlay,
	TypeChordPlay:       checkChordPlay,
	TypeArpeggiate:      checkArpeggiate,
	TypeCCSet:           checkCCSet,
	TypeCCRamp:          checkCCRamp,
	TypeCCLFO:           checkCCLFO,
	TypeProgramChange:   checkProgramChange,
	TypePitchBend:       checkPitchBend,
	TypeAftertouch:      checkAftertouch,
	TypeDAWSceneLaunch:  checkDAWSceneLaunch,
	TypeDAWClipLaunch:   checkDAWClipLaunch,
	TypeDAWTrackArm:     checkDAWTrackArm,
	TypeOSCSend:         checkOSCSend,
	TypeDeviceParamSet:  checkDeviceParamSet,
	TypeMacroTrigger:    checkMacroTrigger,
	TypeCueGoto:         checkCueGoto,
	TypeTransportTempo:  checkTempoSet,
	TypeSyncMIDIClockTx: checkMIDIClockTx,
}

func shaped[T any](t Type, payload any, res *schema.Result) (T, bool) {
	p, ok := payload.(T)
	if !ok {
		res.Addf("payload %T does not match command type %s", payload, t)
	}
	return p, ok
}

func checkRange(res *schema.Result, field string, value, min, max int) {
	if value < min || value > max {
		res.Addf("payload.%s = %d, must be %d..%d", field, value, min, max)
	}
}

func checkChannel(res *schema.Result, channel int) {
	checkRange(res, "channel", channel, 1, 16)
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func checkNotePlay(payload any, res *schema.Result) {
	p, ok := shaped[NotePlay](TypeNotePlay, payload, res)
	if !ok {
		return
	}
	switch note := p.Note.(type) {
	case string:
		if note == "" {
			res.Addf("payload.note is required")
		}
	case int:
		checkRange(res, "note", note, 0, 127)
	case float64:
		if note != math.Trunc(note) {
			res.Addf("payload.note = %v, must be a note name or integer key", note)
		} else {
			checkRange(res, "note", int(note), 0, 127)
		}
	default:
		res.Addf("payload.note must be a string or integer")
	}
	checkRange(res, "velocity", p.Velocity, 1, 127)
	if p.DurationSec < 0 {
		res.Addf("payload.durationSec = %v, must be >= 0", p.DurationSec)
	}
	checkChannel(res, p.Channel)
}

func checkChordPlay(payload any, res *schema.Result) {
	p, ok := shaped[ChordPlay](TypeChordPlay, payload, res)
	if !ok {
		return
	}
	if p.Root == "" {
		res.Addf("payload.root is required")
	}
	if p.Quality == "" {
		res.Addf("payload.quality is required")
	}
	checkChannel(res, p.Channel)
}

func checkArpeggiate(payload any, res *schema.Result) {
	p, ok := shaped[Arpeggiate](TypeArpeggiate, payload, res)
	if !ok {
		return
	}
	if !oneOf(p.Style, "up", "down", "updown", "random") {
		res.Addf("payload.style %q is not up, down, updown, or random", p.Style)
	}
	if !oneOf(p.Rate, "1/8", "1/8T", "1/16", "1/32") {
		res.Addf("payload.rate %q is not an allowed rate", p.Rate)
	}
	if p.Gate < 0 || p.Gate > 1 {
		res.Addf("payload.gate = %v, must be 0..1", p.Gate)
	}
	if p.LengthBeats < 0 {
		res.Addf("payload.lengthBeats = %v, must be >= 0", p.LengthBeats)
	}
	checkChannel(res, p.Channel)
	checkRateOrSync(res, p.RateHz, p.Sync)
}

func checkRateOrSync(res *schema.Result, rateHz *float64, sync string) {
	if rateHz == nil && sync == "" {
		res.Addf("payload requires rateHz or sync")
		return
	}
	if rateHz != nil && *rateHz < 0 {
		res.Addf("payload.rateHz = %v, must be >= 0", *rateHz)
	}
	if sync != "" && !oneOf(sync, "off", "1/4", "1/8", "1/8T", "1/16") {
		res.Addf("payload.sync %q is not an allowed grid", sync)
	}
}

func checkCCSet(payload any, res *schema.Result) {
	p, ok := shaped[CCSet](TypeCCSet, payload, res)
	if !ok {
		return
	}
	checkRange(res, "cc", p.CC, 0, 127)
	checkRange(res, "value", p.Value, 0, 127)
	checkChannel(res, p.Channel)
}

func checkCCRamp(payload any, res *schema.Result) {
	p, ok := shaped[CCRamp](TypeCCRamp, payload, res)
	if !ok {
		return
	}
	checkRange(res, "cc", p.CC, 0, 127)
	checkRange(res, "from", p.From, 0, 127)
	checkRange(res, "to", p.To, 0, 127)
	if p.TimeMs < 0 {
		res.Addf("payload.timeMs = %v, must be >= 0", p.TimeMs)
	}
	checkChannel(res, p.Channel)
}

func checkCCLFO(payload any, res *schema.Result) {
	p, ok := shaped[CCLFO](TypeCCLFO, payload, res)
	if !ok {
		return
	}
	checkRange(res, "cc", p.CC, 0, 127)
	if !oneOf(p.Waveform, "sine", "tri", "saw", "square", "random") {
		res.Addf("payload.waveform %q is not an allowed waveform", p.Waveform)
	}
	checkRange(res, "depth", p.Depth, 0, 127)
	checkRange(res, "center", p.Center, 0, 127)
	checkChannel(res, p.Channel)
	checkRateOrSync(res, p.RateHz, p.Sync)
}

func checkProgramChange(payload any, res *schema.Result) {
	p, ok := shaped[ProgramChange](TypeProgramChange, payload, res)
	if !ok {
		return
	}
	checkRange(res, "program", p.Program, 0, 127)
	if p.BankMsb != nil {
		checkRange(res, "bankMsb", *p.BankMsb, 0, 127)
	}
	if p.BankLsb != nil {
		checkRange(res, "bankLsb", *p.BankLsb, 0, 127)
	}
	checkChannel(res, p.Channel)
}

func checkPitchBend(payload any, res *schema.Result) {
	p, ok := shaped[PitchBend](TypePitchBend, payload, res)
	if !ok {
		return
	}
	checkRange(res, "value", p.Value, -8192, 8191)
	checkChannel(res, p.Channel)
}

func checkAftertouch(payload any, res *schema.Result) {
	p, ok := shaped[Aftertouch](TypeAftertouch, payload, res)
	if !ok {
		return
	}
	checkRange(res, "value", p.Value, 0, 127)
	checkChannel(res, p.Channel)
}

func checkDAWSceneLaunch(payload any, res *schema.Result) {
	p, ok := shaped[DAWSceneLaunch](TypeDAWSceneLaunch, payload, res)
	if !ok {
		return
	}
	if p.Scene < 0 {
		res.Addf("payload.scene = %d, must be >= 0", p.Scene)
	}
}

func checkDAWClipLaunch(payload any, res *schema.Result) {
	p, ok := shaped[DAWClipLaunch](TypeDAWClipLaunch, payload, res)
	if !ok {
		return
	}
	if p.Track < 0 {
		res.Addf("payload.track = %d, must be >= 0", p.Track)
	}
	if p.Slot < 0 {
		res.Addf("payload.slot = %d, must be >= 0", p.Slot)
	}
}

func checkDAWTrackArm(payload any, res *schema.Result) {
	p, ok := shaped[DAWTrackArm](TypeDAWTrackArm, payload, res)
	if !ok {
		return
	}
	if p.Track < 0 {
		res.Addf("payload.track = %d, must be >= 0", p.Track)
	}
}

func checkOSCSend(payload any, res *schema.Result) {
	p, ok := shaped[OSCSend](TypeOSCSend, payload, res)
	if !ok {
		return
	}
	if p.Addr == "" {
		res.Addf("payload.addr is required")
	}
}

func checkDeviceParamSet(payload any, res *schema.Result) {
	p, ok := shaped[DeviceParamSet](TypeDeviceParamSet, payload, res)
	if !ok {
		return
	}
	if p.TargetID == "" {
		res.Addf("payload.targetId is required")
	}
	if p.Param == "" {
		res.Addf("payload.param is required")
	}
}

func checkMacroTrigger(payload any, res *schema.Result) {
	p, ok := shaped[MacroTrigger](TypeMacroTrigger, payload, res)
	if !ok {
		return
	}
	if p.MacroID == "" {
		res.Addf("payload.macroId is required")
	}
}

func checkCueGoto(payload any, res *schema.Result) {
	p, ok := shaped[CueGoto](TypeCueGoto, payload, res)
	if !ok {
		return
	}
	if p.Position == "" {
		res.Addf("payload.position is required")
	}
}

func checkTempoSet(payload any, res *schema.Result) {
	p, ok := shaped[TempoSet](TypeTransportTempo, payload, res)
	if !ok {
		return
	}
	if p.BPM < 1 {
		res.Addf("payload.bpm = %v, must be >= 1", p.BPM)
	}
}

func checkMIDIClockTx(payload any, res *schema.Result) {
	_, _ = shaped[MIDIClockTx](TypeSyncMIDIClockTx, payload, res)
}
