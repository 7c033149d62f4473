package input

// State is the held-key snapshot sampled once per frame by the input provider.
type State struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Moving reports whether any movement key is held.
func (s State) Moving() bool {
	return s.Up || s.Down || s.Left || s.Right
}
