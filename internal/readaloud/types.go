package readaloud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StatusSuccess is the discriminator value the backend uses for a successful call.
const StatusSuccess = "success"

// Action names accepted by /api/tts.
const (
	ActionReadClipboard = "read_clipboard"
	ActionReadSelection = "read_selection"
	ActionStop          = "stop"
	ActionTest          = "test"
)

// Settings mirrors the configuration record served by /api/config.
//
// Every field is optional. String fields are undefined when empty and float
// fields when nil. Keys the panel does not know about are kept in Extra and
// written back on save so a save never drops server-side settings.
type Settings struct {
	TTSEngine       string
	Voice           string
	Temperature     *float64
	Volume          *float64
	Speed           *float64
	AudioOutputPath string

	Extra map[string]json.RawMessage
}

var knownSettingKeys = []string{"tts_engine", "voice", "temperature", "volume", "speed", "audio_output_path"}

// DefaultSettings returns the fixed record used by a reset.
func DefaultSettings() Settings {
	return Settings{
		TTSEngine:       "higgs_audio",
		Voice:           "default",
		Temperature:     Float(0.3),
		Volume:          Float(0.8),
		Speed:           Float(1.0),
		AudioOutputPath: "./audio_output",
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.Temperature = cloneFloat(s.Temperature)
	out.Volume = cloneFloat(s.Volume)
	out.Speed = cloneFloat(s.Speed)
	if s.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v)
}

// MarshalJSON writes defined fields plus any preserved extra keys.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+len(knownSettingKeys))
	for k, v := range s.Extra {
		out[k] = v
	}
	if s.TTSEngine != "" {
		out["tts_engine"] = s.TTSEngine
	}
	if s.Voice != "" {
		out["voice"] = s.Voice
	}
	if s.Temperature != nil {
		out["temperature"] = *s.Temperature
	}
	if s.Volume != nil {
		out["volume"] = *s.Volume
	}
	if s.Speed != nil {
		out["speed"] = *s.Speed
	}
	if s.AudioOutputPath != "" {
		out["audio_output_path"] = s.AudioOutputPath
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts any JSON object. Known keys with a null value are
// treated as undefined.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Settings
	for key, value := range raw {
		if isNull(value) {
			if !isKnownSetting(key) {
				out.setExtra(key, value)
			}
			continue
		}
		var err error
		switch key {
		case "tts_engine":
			err = json.Unmarshal(value, &out.TTSEngine)
		case "voice":
			err = json.Unmarshal(value, &out.Voice)
		case "audio_output_path":
			err = json.Unmarshal(value, &out.AudioOutputPath)
		case "temperature":
			out.Temperature, err = decodeFloat(value)
		case "volume":
			out.Volume, err = decodeFloat(value)
		case "speed":
			out.Speed, err = decodeFloat(value)
		default:
			out.setExtra(key, value)
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	*s = out
	return nil
}

func (s *Settings) setExtra(key string, value json.RawMessage) {
	if s.Extra == nil {
		s.Extra = make(map[string]json.RawMessage)
	}
	s.Extra[key] = append(json.RawMessage(nil), value...)
}

func decodeFloat(value json.RawMessage) (*float64, error) {
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func isKnownSetting(key string) bool {
	for _, k := range knownSettingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Envelope is the {status, message} discriminator shared by every write call.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the envelope carries the success discriminator.
func (e Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// ActionRequest is the tagged body posted to /api/tts.
type ActionRequest struct {
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
}

// ActionResponse mirrors /api/tts replies.
type ActionResponse struct {
	Envelope
	Text      string `json:"text,omitempty"`
	AudioFile string `json:"audio_file,omitempty"`
}

// ServiceStatus describes the background inference service.
type ServiceStatus struct {
	Running bool `json:"running"`
	Ready   bool `json:"ready"`
}

// ServiceState is the three-way service state shown in the panel.
type ServiceState int

const (
	ServiceStopped ServiceState = iota
	ServiceLoading
	ServiceReady
)

// State collapses the running/ready flags.
func (s ServiceStatus) State() ServiceState {
	switch {
	case s.Running && s.Ready:
		return ServiceReady
	case s.Running:
		return ServiceLoading
	default:
		return ServiceStopped
	}
}

// String returns the panel label for the state.
func (s ServiceState) String() string {
	switch s {
	case ServiceReady:
		return "Ready"
	case ServiceLoading:
		return "Loading..."
	default:
		return "Stopped"
	}
}

// StatusResponse mirrors the payload returned by /api/status.
type StatusResponse struct {
	Status     string         `json:"status"`
	HiggsAudio bool           `json:"higgs_audio"`
	Service    *ServiceStatus `json:"higgs_service,omitempty"`
}

// OK reports whether the status call succeeded.
func (s StatusResponse) OK() bool {
	return strings.TrimSpace(s.Status) == StatusSuccess
}
