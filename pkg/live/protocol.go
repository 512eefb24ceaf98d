package live

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lumell/parley/pkg/audioio"
)

// Role identifies who produced a transcription fragment.
type Role string

const (
	// RoleUser is the human speaker (input transcription).
	RoleUser Role = "user"
	// RoleModel is the remote model (output transcription).
	RoleModel Role = "model"
)

// Schema is a minimal JSON-schema node for function declarations.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// FunctionDeclaration describes a tool the model may call.
type FunctionDeclaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// FunctionCall is a tool invocation requested by the model.
// Every call must receive exactly one correlated response.
type FunctionCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Outbound wire messages.

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type toolDeclaration struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations"`
}

type setupPayload struct {
	Model                    string            `json:"model"`
	GenerationConfig         generationConfig  `json:"generationConfig"`
	SystemInstruction        *content          `json:"systemInstruction,omitempty"`
	Tools                    []toolDeclaration `json:"tools,omitempty"`
	InputAudioTranscription  *struct{}         `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}         `json:"outputAudioTranscription,omitempty"`
}

type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type realtimeInput struct {
	MediaChunks []inlineData `json:"mediaChunks"`
}

type realtimeInputMessage struct {
	RealtimeInput realtimeInput `json:"realtimeInput"`
}

type functionResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type toolResponse struct {
	FunctionResponses []functionResponse `json:"functionResponses"`
}

type toolResponseMessage struct {
	ToolResponse toolResponse `json:"toolResponse"`
}

// Inbound wire messages.

type transcription struct {
	Text string `json:"text"`
}

type serverContent struct {
	ModelTurn           *content       `json:"modelTurn,omitempty"`
	InputTranscription  *transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *transcription `json:"outputTranscription,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	Interrupted         bool           `json:"interrupted,omitempty"`
}

type toolCallPayload struct {
	FunctionCalls []FunctionCall `json:"functionCalls"`
}

type serverMessage struct {
	SetupComplete        *json.RawMessage `json:"setupComplete,omitempty"`
	ServerContent        *serverContent   `json:"serverContent,omitempty"`
	ToolCall             *toolCallPayload `json:"toolCall,omitempty"`
	ToolCallCancellation *json.RawMessage `json:"toolCallCancellation,omitempty"`
}

// Event is one inbound session event. The concrete types are
// SetupCompleteEvent, AudioEvent, TranscriptEvent, TurnCompleteEvent,
// ToolCallEvent, InterruptedEvent and ClosedEvent; consumers switch
// exhaustively over them.
type Event interface {
	eventType() string
}

// SetupCompleteEvent signals the session is configured and ready.
type SetupCompleteEvent struct{}

func (SetupCompleteEvent) eventType() string { return "setup_complete" }

// AudioEvent carries one playback-ready audio chunk.
type AudioEvent struct {
	Chunk audioio.Chunk
}

func (AudioEvent) eventType() string { return "audio" }

// TranscriptEvent carries a streaming transcription fragment.
type TranscriptEvent struct {
	Text  string
	Role  Role
	Final bool
}

func (TranscriptEvent) eventType() string { return "transcript" }

// TurnCompleteEvent marks the end of the model's turn.
type TurnCompleteEvent struct{}

func (TurnCompleteEvent) eventType() string { return "turn_complete" }

// ToolCallEvent carries one or more function calls from the model.
type ToolCallEvent struct {
	Calls []FunctionCall
}

func (ToolCallEvent) eventType() string { return "tool_call" }

// InterruptedEvent signals barge-in: the user spoke over the model and
// all pending playback must stop immediately.
type InterruptedEvent struct{}

func (InterruptedEvent) eventType() string { return "interrupted" }

// ClosedEvent is the final event on the channel. Err is nil on a clean
// close and carries the transport error otherwise.
type ClosedEvent struct {
	Err error
}

func (ClosedEvent) eventType() string { return "closed" }

// ParseServerMessage decodes one wire message into session events.
// A single message may yield several events (audio plus transcription
// plus turn completion).
func ParseServerMessage(data []byte) ([]Event, error) {
	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("live: malformed server message: %w", err)
	}

	var events []Event

	if msg.SetupComplete != nil {
		events = append(events, SetupCompleteEvent{})
	}

	if sc := msg.ServerContent; sc != nil {
		// Interruption must take effect before any audio that follows,
		// so it is emitted ahead of the content of the same message.
		if sc.Interrupted {
			events = append(events, InterruptedEvent{})
		}

		if sc.ModelTurn != nil {
			for _, p := range sc.ModelTurn.Parts {
				if p.InlineData == nil || !strings.HasPrefix(p.InlineData.MimeType, "audio/pcm") {
					continue
				}
				pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("live: malformed audio payload: %w", err)
				}
				if len(pcm) == 0 {
					continue
				}
				events = append(events, AudioEvent{Chunk: audioio.Chunk{
					PCM:        pcm,
					SampleRate: pcmRate(p.InlineData.MimeType),
				}})
			}
		}

		if sc.InputTranscription != nil {
			events = append(events, TranscriptEvent{Text: sc.InputTranscription.Text, Role: RoleUser})
		}
		if sc.OutputTranscription != nil {
			events = append(events, TranscriptEvent{Text: sc.OutputTranscription.Text, Role: RoleModel})
		}

		if sc.TurnComplete {
			events = append(events, TurnCompleteEvent{})
		}
	}

	if msg.ToolCall != nil && len(msg.ToolCall.FunctionCalls) > 0 {
		events = append(events, ToolCallEvent{Calls: msg.ToolCall.FunctionCalls})
	}

	return events, nil
}

// pcmRate extracts the sample rate from a mime type like
// "audio/pcm;rate=24000". Chunks without an explicit rate use the
// service's playback rate.
func pcmRate(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";")[1:] {
		param = strings.TrimSpace(param)
		if v, ok := strings.CutPrefix(param, "rate="); ok {
			if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return audioio.PlaybackSampleRate
}
