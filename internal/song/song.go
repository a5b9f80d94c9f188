// Package song holds the in-memory song/arrangement model and its structural
// validation. A Song is loaded externally (library store, JSON/YAML document)
// and treated as immutable for the duration of one compilation pass.
package song

// Version is the song object wire version.
const Version = 1

// Song is the root aggregate: metadata, sections, and the arrangement
// timeline that places sections in playback order.
type Song struct {
	V           int               `json:"v" yaml:"v"`
	SongID      string            `json:"songId" yaml:"songId"`
	Meta        Meta              `json:"meta" yaml:"meta"`
	Sections    []Section         `json:"sections" yaml:"sections"`
	Arrangement []ArrangementItem `json:"arrangement" yaml:"arrangement"`
	CommandsRef []string          `json:"commands_ref,omitempty" yaml:"commandsRef,omitempty"`
}

// Meta carries song-level metadata.
type Meta struct {
	Title         string   `json:"title" yaml:"title"`
	Artist        string   `json:"artist,omitempty" yaml:"artist,omitempty"`
	BPM           float64  `json:"bpm" yaml:"bpm"`
	Key           string   `json:"key" yaml:"key"`
	Mode          string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	TimeSignature string   `json:"timeSignature,omitempty" yaml:"timeSignature,omitempty"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Notes         string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Section is a named span of bars with an ordered, duration-bearing chord list.
type Section struct {
	SectionID   string  `json:"sectionId" yaml:"sectionId"`
	SectionName string  `json:"sectionName" yaml:"sectionName"`
	LengthBars  float64 `json:"lengthBars" yaml:"lengthBars"`
	Chords      []Chord `json:"chords,omitempty" yaml:"chords,omitempty"`
	LyricsRef   string  `json:"lyricsRef,omitempty" yaml:"lyricsRef,omitempty"`
	Notes       string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Chord is one chord within a section. Notes is populated for detected
// chords (explicit pitch list) rather than authored ones.
type Chord struct {
	Symbol  string   `json:"symbol" yaml:"symbol"`
	Beats   float64  `json:"beats" yaml:"beats"`
	Roman   string   `json:"roman,omitempty" yaml:"roman,omitempty"`
	Scale   string   `json:"scale,omitempty" yaml:"scale,omitempty"`
	Notes   []string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Quality string   `json:"quality,omitempty" yaml:"quality,omitempty"`
}

// ArrangementItem anchors one section occurrence on the song timeline.
// ArrangementIndex declares playback order but the compiler walks the
// arrangement array in input order; Lint flags any divergence.
type ArrangementItem struct {
	ArrangementIndex int    `json:"arrangementIndex" yaml:"arrangementIndex"`
	SectionID        string `json:"sectionId" yaml:"sectionId"`
	StartBar         int    `json:"startBar" yaml:"startBar"`
	Repeat           int    `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	SceneRef         string `json:"sceneRef,omitempty" yaml:"sceneRef,omitempty"`
	MacroRef         string `json:"macroRef,omitempty" yaml:"macroRef,omitempty"`
}

// SectionByID returns the section with the given id, if any.
func (s Song) SectionByID(id string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.SectionID == id {
			return sec, true
		}
	}
	return Section{}, false
}

// Repetitions returns the effective repeat count for an arrangement item,
// defaulting to 1.
func (a ArrangementItem) Repetitions() int {
	if a.Repeat < 1 {
		return 1
	}
	return a.Repeat
}
