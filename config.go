package syncvar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/polling"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// SyncMethod names the transport a variable would be synchronized with.
type SyncMethod string

const (
	MethodHTTP SyncMethod = "http"
	MethodTCP  SyncMethod = "tcp"
)

// ParseSyncMethod parses a method name, case-insensitively.
func ParseSyncMethod(s string) (SyncMethod, error) {
	switch SyncMethod(strings.ToLower(strings.TrimSpace(s))) {
	case MethodHTTP:
		return MethodHTTP, nil
	case MethodTCP:
		return MethodTCP, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownMethod, s)
}

// ConnectConfig declares how a variable would be synchronized.
type ConnectConfig struct {
	Method          SyncMethod    `json:"method" yaml:"method" mapstructure:"method"`
	Host            string        `json:"host" yaml:"host" mapstructure:"host"`
	PollingInterval time.Duration `json:"polling_interval,omitempty" yaml:"polling_interval,omitempty" mapstructure:"polling_interval"`

	// Handler overrides the polling handler derived from Method.
	Handler polling.Handler `json:"-" yaml:"-" mapstructure:"-"`
}

// Validate checks the method.
func (c ConnectConfig) Validate() error {
	_, err := ParseSyncMethod(string(c.Method))
	return err
}

func (c ConnectConfig) handler() polling.Handler {
	if c.Handler != nil {
		return c.Handler
	}
	method, _ := ParseSyncMethod(string(c.Method))
	if method == MethodTCP {
		return polling.NewTCPPolling(c.PollingInterval)
	}
	return polling.NewHTTPPolling(c.PollingInterval)
}

// DecodeConnectConfig decodes a loosely typed option map, as found in YAML
// frontmatter or JSON requests, into a ConnectConfig.
// Durations accept Go syntax ("3s"); methods are case-insensitive.
func DecodeConnectConfig(options map[string]any) (ConnectConfig, error) {
	var cfg ConnectConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			syncMethodHook,
		),
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(options); err != nil {
		return cfg, fmt.Errorf("invalid connect options: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func syncMethodHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(SyncMethod("")) {
		return data, nil
	}
	return ParseSyncMethod(reflect.ValueOf(data).String())
}

// LoadConnectConfig reads a ConnectConfig from a YAML or JSON file.
func LoadConnectConfig(path string) (ConnectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ConnectConfig{}, fmt.Errorf("failed to read connect config: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		// Default to YAML
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return ConnectConfig{}, fmt.Errorf("failed to parse connect config %s: %w", path, err)
	}

	return DecodeConnectConfig(raw)
}
