package model

import "encoding/json"

// Wire types for the Gemini Live bidirectional WebSocket API
// (BidiGenerateContent). Only the subset of the vocabulary this gateway
// exchanges is modeled; unknown fields are left to the decoder to drop.

// clientMessage is the envelope for everything we send after dialing.
type clientMessage struct {
	Setup         *Setup         `json:"setup,omitempty"`
	RealtimeInput *realtimeInput `json:"realtimeInput,omitempty"`
	ClientContent *clientContent `json:"clientContent,omitempty"`
	ToolResponse  *toolResponse  `json:"toolResponse,omitempty"`
}

// Setup is the first message on the wire and fixes the session configuration:
// audio-only output, named voice, system instruction, tool declarations,
// transcription on both directions, and telephony-tuned VAD.
type Setup struct {
	Model                    string               `json:"model"`
	GenerationConfig         *GenerationConfig    `json:"generationConfig,omitempty"`
	SystemInstruction        *Content             `json:"systemInstruction,omitempty"`
	Tools                    []Tool               `json:"tools,omitempty"`
	RealtimeInputConfig      *RealtimeInputConfig `json:"realtimeInputConfig,omitempty"`
	InputAudioTranscription  *struct{}            `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}            `json:"outputAudioTranscription,omitempty"`
}

type GenerationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *SpeechConfig `json:"speechConfig,omitempty"`
}

type SpeechConfig struct {
	VoiceConfig *VoiceConfig `json:"voiceConfig,omitempty"`
}

type VoiceConfig struct {
	PrebuiltVoiceConfig *PrebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type RealtimeInputConfig struct {
	AutomaticActivityDetection *AutomaticActivityDetection `json:"automaticActivityDetection,omitempty"`
}

// AutomaticActivityDetection tunes the server-side VAD for telephony noise.
type AutomaticActivityDetection struct {
	StartOfSpeechSensitivity string `json:"startOfSpeechSensitivity,omitempty"`
	EndOfSpeechSensitivity   string `json:"endOfSpeechSensitivity,omitempty"`
	PrefixPaddingMs          int    `json:"prefixPaddingMs,omitempty"`
	SilenceDurationMs        int    `json:"silenceDurationMs,omitempty"`
}

const (
	StartSensitivityHigh = "START_SENSITIVITY_HIGH"
	EndSensitivityLow    = "END_SENSITIVITY_LOW"
)

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"` // base64
}

type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations,omitempty"`
}

// FunctionDeclaration advertises one callable tool to the model.
type FunctionDeclaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Schema is the JSON-schema-shaped parameter declaration the Live API
// accepts (upper-case type names per the generative language API).
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

type realtimeInput struct {
	Audio *InlineData `json:"audio,omitempty"`
}

type clientContent struct {
	Turns        []Content `json:"turns,omitempty"`
	TurnComplete bool      `json:"turnComplete"`
}

type toolResponse struct {
	FunctionResponses []FunctionResponse `json:"functionResponses"`
}

// FunctionCall is one model-issued tool invocation.
type FunctionCall struct {
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// FunctionResponse acknowledges one FunctionCall, in batch order.
type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// serverMessage is the envelope for everything the service sends. Any subset
// of the fields may be present in a single message.
type serverMessage struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ServerContent *serverContent `json:"serverContent,omitempty"`
	ToolCall      *toolCall      `json:"toolCall,omitempty"`
}

type serverContent struct {
	ModelTurn           *Content       `json:"modelTurn,omitempty"`
	OutputTranscription *transcription `json:"outputTranscription,omitempty"`
	InputTranscription  *transcription `json:"inputTranscription,omitempty"`
	Interrupted         bool           `json:"interrupted,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
}

type transcription struct {
	Text string `json:"text,omitempty"`
}

type toolCall struct {
	FunctionCalls []FunctionCall `json:"functionCalls,omitempty"`
}
