package openai

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/gitpulse/internal/model/interfaces"
	"github.com/maxbolgarin/lang"
)

const speechPath = "/audio/speech"

var _ interfaces.SpeechAPI = (*Speech)(nil)

// SpeechConfig is the configuration of the speech endpoint
type SpeechConfig struct {
	APIKey string
	URL    string
	Model  string
	Format string
	Speed  float32
}

// Speech implements the SpeechAPI interface using the OpenAI audio endpoint
type Speech struct {
	cli *cliex.HTTP
	cfg SpeechConfig
}

// NewSpeech creates a new text-to-speech client
func NewSpeech(cli *cliex.HTTP, cfg SpeechConfig) (*Speech, error) {
	if cfg.APIKey == "" {
		return nil, errm.New("OpenAI API key is required")
	}
	cfg.URL = strings.TrimSuffix(lang.Check(cfg.URL, defaultURL), "/")
	cfg.Model = lang.Check(cfg.Model, "tts-1")
	cfg.Format = lang.Check(cfg.Format, "mp3")
	cfg.Speed = lang.Check(cfg.Speed, 1.0)

	cli.C().SetAuthToken(cfg.APIKey)

	return &Speech{cli: cli, cfg: cfg}, nil
}

// Synthesize returns the raw audio stream of the response, it is not buffered in memory.
// The voice selects the speaker, the model detects language from the text itself.
func (s *Speech) Synthesize(ctx context.Context, req model.SpeechRequest) (io.ReadCloser, error) {
	resp, err := s.cli.C().R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Content-Type", "application/json").
		SetBody(speechRequest{
			Model:          s.cfg.Model,
			Input:          req.Text,
			Voice:          req.Voice,
			ResponseFormat: s.cfg.Format,
			Speed:          s.cfg.Speed,
		}).
		Post(s.cfg.URL + speechPath)
	if err != nil {
		return nil, classify(nil, err, "failed to request speech")
	}

	body := resp.RawBody()
	if resp.StatusCode() != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(body, 4096))
		body.Close()
		return nil, model.NewStatusError(resp.StatusCode(), "OpenAI TTS failed", errm.New(string(msg)))
	}

	return body, nil
}

// classify keeps the upstream status of a failed request if there is one
func classify(resp *resty.Response, err error, message string) error {
	if resp != nil && resp.StatusCode() >= http.StatusBadRequest {
		return model.NewStatusError(resp.StatusCode(), message, err)
	}
	return erro.Wrap(err, message)
}
