// Package command defines the DAWSheet command envelope: the atomic,
// schema-validated unit of instruction handed to a playback target. The wire
// contract of Schemas v1 is expressed as typed variants plus a structural
// validator that runs wherever data crosses from untyped storage into the
// compiler or out to the transport.
package command

// Version is the command envelope wire version.
const Version = 1

// Type is the closed set of command kinds.
type Type string

const (
	TypeTransportStart  Type = "TRANSPORT.START"
	TypeTransportStop   Type = "TRANSPORT.STOP"
	TypeTransportTempo  Type = "TRANSPORT.TEMPO_SET"
	TypeSyncMIDIClockTx Type = "SYNC.MIDI_CLOCK_TX"
	TypeNotePlay        Type = "NOTE.PLAY"
	TypeChordPlay       Type = "CHORD.PLAY"
	TypeArpeggiate      Type = "ARPEGGIATE"
	TypePatternTrigger  Type = "PATTERN.TRIGGER"
	TypeStepRatchet     Type = "STEP.RATCHET"
	TypeStepProb        Type = "STEP.PROB"
	TypeCCSet           Type = "CC.SET"
	TypeCCRamp          Type = "CC.RAMP"
	TypeCCLFO           Type = "CC.LFO"
	TypeProgramChange   Type = "PROGRAM.CHANGE"
	TypePitchBend       Type = "PITCH.BEND"
	TypeAftertouch      Type = "AFTERTOUCH"
	TypeDAWClipLaunch   Type = "DAW.CLIP.LAUNCH"
	TypeDAWSceneLaunch  Type = "DAW.SCENE.LAUNCH"
	TypeDAWTrackArm     Type = "DAW.TRACK.ARM"
	TypeOSCSend         Type = "OSC.SEND"
	TypeDeviceParamSet  Type = "DEVICE.PARAM_SET"
	TypeMacroTrigger    Type = "MACRO.TRIGGER"
	TypeCueGoto         Type = "CUE.GOTO"
)

// Types lists every command kind in schema order.
var Types = []Type{
	TypeTransportStart, TypeTransportStop, TypeTransportTempo, TypeSyncMIDIClockTx,
	TypeNotePlay, TypeChordPlay, TypeArpeggiate, TypePatternTrigger, TypeStepRatchet, TypeStepProb,
	TypeCCSet, TypeCCRamp, TypeCCLFO, TypeProgramChange, TypePitchBend, TypeAftertouch,
	TypeDAWClipLaunch, TypeDAWSceneLaunch, TypeDAWTrackArm,
	TypeOSCSend, TypeDeviceParamSet, TypeMacroTrigger, TypeCueGoto,
}

// Known reports whether t is one of the closed command kinds.
func (t Type) Known() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Grid is a quantize snapping grid. The envelope stamps the requested grid;
// snapping itself happens in the downstream player.
type Grid string

const (
	GridOff       Grid = "off"
	GridQuarter   Grid = "1/4"
	GridEighth    Grid = "1/8"
	GridEighthTri Grid = "1/8T"
	GridSixteenth Grid = "1/16"
	GridBar       Grid = "bar"
	GridScene     Grid = "scene"
)

var grids = []Grid{GridOff, GridQuarter, GridEighth, GridEighthTri, GridSixteenth, GridBar, GridScene}

// Known reports whether g is an allowed quantize grid.
func (g Grid) Known() bool {
	for _, known := range grids {
		if g == known {
			return true
		}
	}
	return false
}

// TransformOp is the closed set of post-processing operations.
type TransformOp string

const (
	OpTranspose     TransformOp = "transpose"
	OpHumanize      TransformOp = "humanize"
	OpQuantize      TransformOp = "quantize"
	OpLimit         TransformOp = "limit"
	OpCurve         TransformOp = "curve"
	OpScaleFit      TransformOp = "scale_fit"
	OpVelocityCurve TransformOp = "velocity_curve"
	OpRamp          TransformOp = "ramp"
)

var transformOps = []TransformOp{
	OpTranspose, OpHumanize, OpQuantize, OpLimit, OpCurve, OpScaleFit, OpVelocityCurve, OpRamp,
}

// Known reports whether op is an allowed transform operation.
func (op TransformOp) Known() bool {
	for _, known := range transformOps {
		if op == known {
			return true
		}
	}
	return false
}

// Transform is one post-processing step with operation-specific parameters.
// Pointer fields distinguish "absent" from zero.
type Transform struct {
	Op        TransformOp `json:"op"`
	Semitones *int        `json:"semitones,omitempty"`
	Ms        *float64    `json:"ms,omitempty"`
	Vel       *float64    `json:"vel,omitempty"`
	Grid      string      `json:"grid,omitempty"`
	Strength  *float64    `json:"strength,omitempty"`
	Min       *float64    `json:"min,omitempty"`
	Max       *float64    `json:"max,omitempty"`
	Shape     string      `json:"shape,omitempty"`
	Amount    *float64    `json:"amount,omitempty"`
	Scale     string      `json:"scale,omitempty"`
	Root      string      `json:"root,omitempty"`
}

// Meta is the open envelope metadata block.
type Meta struct {
	SongID string   `json:"songId,omitempty"`
	Tags   []string `json:"tags"`
}
