package capture

// State is the stage an Invocation is in
type State int32

const (
	Idle State = iota
	AssetLoading
	Normalizing
	Rendering
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AssetLoading:
		return "asset-loading"
	case Normalizing:
		return "normalizing"
	case Rendering:
		return "rendering"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions can happen
func (s State) Terminal() bool {
	return s == Resolved || s == Failed
}
