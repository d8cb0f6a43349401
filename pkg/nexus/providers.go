package nexus

import (
	"fmt"

	"github.com/harunnryd/nexus/pkg/adapters/recognizer"
	"github.com/harunnryd/nexus/pkg/configutil"
	"github.com/harunnryd/nexus/pkg/providers/deepgram"
	"github.com/harunnryd/nexus/pkg/providers/mock"
)

type deepgramSettings struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	Language   string `mapstructure:"language"`
	SampleRate int    `mapstructure:"sample_rate"`
	Encoding   string `mapstructure:"encoding"`
	Interim    bool   `mapstructure:"interim"`
}

// BuildRecognizer constructs the configured speech-capture provider.
func BuildRecognizer(cfg VendorConfig) (recognizer.Recognizer, error) {
	switch cfg.Provider {
	case "deepgram":
		var s deepgramSettings
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, fmt.Errorf("recognizer settings: %w", err)
		}
		if err := configutil.RequireString(s.APIKey, "recognizer.settings.api_key"); err != nil {
			return nil, err
		}
		return deepgram.New(deepgram.Config{
			APIKey:     s.APIKey,
			Model:      configutil.StringValue(s.Model, "nova-2"),
			Language:   configutil.StringValue(s.Language, "en-US"),
			SampleRate: configutil.IntValue(s.SampleRate, 16000),
			Encoding:   s.Encoding,
			Interim:    s.Interim,
		}), nil
	case "mock", "":
		return mock.NewRecognizer(mock.RecognizerConfig{}), nil
	default:
		return nil, fmt.Errorf("unknown recognizer provider %q", cfg.Provider)
	}
}
