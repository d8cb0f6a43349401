package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonStreamConnect ReasonCode = "stream_connect"
	ReasonStreamRead    ReasonCode = "stream_read"
	ReasonStreamDecode  ReasonCode = "stream_decode"

	ReasonSynthesis   ReasonCode = "synthesis"
	ReasonAudioDecode ReasonCode = "audio_decode"
	ReasonAudioPlay   ReasonCode = "audio_play"

	ReasonRecognizeConnect ReasonCode = "recognize_connect"
	ReasonRecognizeSend    ReasonCode = "recognize_send"

	ReasonHealthCheck  ReasonCode = "health_check"
	ReasonProfileFetch ReasonCode = "profile_fetch"
	ReasonGaiaFetch    ReasonCode = "gaia_fetch"
	ReasonPrefsIO      ReasonCode = "prefs_io"
)
