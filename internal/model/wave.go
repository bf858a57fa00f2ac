package model

// WaveTag is the outcome of an impulse/retracement detection.
type WaveTag string

const (
	WaveUnavailable        WaveTag = "UNAVAILABLE"
	WaveInsideRetracement  WaveTag = "INSIDE_RETRACEMENT"
	WaveOutsideRetracement WaveTag = "OUTSIDE_RETRACEMENT"
)

// Label returns the dashboard text for the tag.
func (t WaveTag) Label() string {
	switch t {
	case WaveInsideRetracement:
		return "Likely Wave 2"
	case WaveOutsideRetracement:
		return "Impulse Complete or Waiting"
	default:
		return "Unavailable"
	}
}

// WaveClassification is the result of one detection call. When Tag is
// WaveUnavailable every price field is zero and both indices are -1.
type WaveClassification struct {
	Tag          WaveTag `json:"tag"`
	LegLow       float64 `json:"leg_low"`
	LegHigh      float64 `json:"leg_high"`
	Level382     float64 `json:"level_382"`
	Level618     float64 `json:"level_618"`
	CurrentPrice float64 `json:"current_price"`
	StartIndex   int     `json:"start_index"`
	EndIndex     int     `json:"end_index"`
	NetChange    float64 `json:"net_change"` // rolling close-to-close sum of the leg
}

// UnavailableWave is the neutral classification for sparse or invalid data.
func UnavailableWave() WaveClassification {
	return WaveClassification{Tag: WaveUnavailable, StartIndex: -1, EndIndex: -1}
}

// Available reports whether a leg and band were computed.
func (w WaveClassification) Available() bool {
	return w.Tag != WaveUnavailable
}
