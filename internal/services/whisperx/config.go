package whisperx

// Config captures runtime settings for WhisperX transcription.
type Config struct {
	// Model is the Whisper model to load (e.g., "base", "large-v3").
	Model string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// ComputeType selects the CTranslate2 precision on CPU ("int8", "float32").
	ComputeType string
	// VADMethod selects the voice activity detection method ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
	// Language forces the spoken language. Empty lets WhisperX detect it.
	Language string
}

// WhisperX configuration constants.
const (
	DefaultModel       = "base"
	CUDAIndexURL       = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL       = "https://pypi.org/simple"
	BatchSize          = "4"
	ChunkSize          = "15"
	VADOnset           = "0.08"
	VADOffset          = "0.07"
	BeamSize           = "5"
	Temperature        = "0.0"
	SegmentResolution  = "sentence"
	OutputFormat       = "json"
	CPUDevice          = "cpu"
	CUDADevice         = "cuda"
	DefaultComputeType = "int8"
	VADMethodPyannote  = "pyannote"
	VADMethodSilero    = "silero"
)

// UVXCommand is the launcher used to run WhisperX without a local install.
const UVXCommand = "uvx"
