// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"medical-conversation-processor/internal/models"
	"medical-conversation-processor/internal/service/stt"
)

// Config holds recognition parameters for the Google adapter.
type Config struct {
	LanguageCode  string
	SampleRateHz  int
	AudioEncoding string
}

// DefaultConfig returns the default recognition parameters.
func DefaultConfig() Config {
	return Config{
		LanguageCode:  "en-US",
		SampleRateHz:  16000,
		AudioEncoding: "LINEAR16",
	}
}

// Adapter implements stt.Transcriber using Google Cloud Speech-to-Text
// batch recognition.
type Adapter struct {
	client *speech.Client
	cfg    Config
}

// New creates a Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: c, cfg: cfg}, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string { return "google" }

// Transcribe runs batch recognition over the complete recording.
// Each recognition result becomes one transcript segment; result end times
// bound the segments, with each segment starting where the previous ended.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, opts stt.Options) (*stt.Transcription, error) {
	lang := a.cfg.LanguageCode
	if opts.LanguageHint != "" && !opts.Conservative {
		lang = opts.LanguageHint
	}

	cfg := &speechpb.RecognitionConfig{
		Encoding:                   parseAudioEncoding(a.cfg.AudioEncoding),
		SampleRateHertz:            int32(a.cfg.SampleRateHz),
		LanguageCode:               lang,
		EnableAutomaticPunctuation: true,
	}
	if opts.Conservative {
		// Defensive retry set: default model, no punctuation inference.
		cfg.EnableAutomaticPunctuation = false
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		if st, ok := status.FromError(err); ok {
			switch st.Code() {
			case codes.InvalidArgument, codes.OutOfRange:
				return nil, fmt.Errorf("audio not recognizable by provider: %s", st.Message())
			}
		}
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, stt.ErrNoSpeech
	}

	tr := &stt.Transcription{Language: lang}
	var texts []string
	var prevEnd float64
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		text := strings.TrimSpace(alt.Transcript)
		if len(text) <= 2 {
			continue
		}
		end := prevEnd
		if r.ResultEndTime != nil {
			end = r.ResultEndTime.AsDuration().Seconds()
		}
		tr.Segments = append(tr.Segments, models.TranscriptSegment{
			Text:  text,
			Start: prevEnd,
			End:   end,
		})
		prevEnd = end
		texts = append(texts, text)
		if r.LanguageCode != "" {
			tr.Language = r.LanguageCode
		}
	}
	if len(tr.Segments) == 0 {
		return nil, stt.ErrNoSpeech
	}
	tr.FullText = strings.Join(texts, " ")
	tr.Duration = prevEnd
	return tr, nil
}

// Close releases the underlying gRPC client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// parseAudioEncoding maps a config string to the protobuf encoding enum.
// Unknown values fall back to LINEAR16.
func parseAudioEncoding(s string) speechpb.RecognitionConfig_AudioEncoding {
	switch s {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}
