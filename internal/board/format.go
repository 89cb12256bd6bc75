package board

// Format is the project-level task encoding, probed once when a project is
// opened and threaded through every codec call afterwards.
type Format int

// Project encodings. A project is indexed iff its metadata index file
// exists, even when empty; otherwise it is legacy.
const (
	FormatLegacy Format = iota
	FormatIndexed
)

func (f Format) String() string {
	if f == FormatIndexed {
		return "indexed"
	}

	return "legacy"
}
