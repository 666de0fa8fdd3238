package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
	"gopkg.in/yaml.v3"
)

// Publisher types.
const (
	TypeHTTP   = "http"
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
)

const defaultHTTPTimeout = 5 * time.Second

// PublisherConfig declares one downstream sink for exchange events. When
// narrows the exchanges it receives; an empty When forwards every exchange.
type PublisherConfig struct {
	ID      string        `json:"id" yaml:"id"`
	Type    string        `json:"type" yaml:"type"`
	Enabled *bool         `json:"enabled" yaml:"enabled"`
	When    Match         `json:"when" yaml:"when"`
	HTTP    *HTTPConfig   `json:"http" yaml:"http"`
	SQS     *SQSConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// HTTPConfig posts events as JSON to a webhook.
type HTTPConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// SQSConfig sends events to an SQS queue.
type SQSConfig struct {
	QueueURL    string          `json:"queue_url" yaml:"queue_url"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// SNSConfig publishes events to an SNS topic.
type SNSConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// PubSubConfig publishes events to a Google Cloud Pub/Sub topic.
type PubSubConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// block is the type-specific part of a PublisherConfig.
type block interface {
	normalize()
	validate() error
}

// Load reads publisher declarations from a YAML or JSON file.
func Load(path string) ([]PublisherConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes, normalizes and validates publisher declarations. ext picks
// the format; an empty ext means YAML.
func Parse(data []byte, ext string) ([]PublisherConfig, error) {
	var file struct {
		Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
	}
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode json publishers: %w", err)
		}
	case "", ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode yaml publishers: %w", err)
		}
	default:
		return nil, fmt.Errorf("publishers file extension %q not supported (expected .yaml, .yml or .json)", ext)
	}

	seen := make(map[string]bool, len(file.Publishers))
	for i := range file.Publishers {
		cfg := &file.Publishers[i]
		if err := cfg.prepare(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if seen[cfg.ID] {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = true
	}
	return file.Publishers, nil
}

// Enabled filters out publishers switched off in config.
func Enabled(cfgs []PublisherConfig) []PublisherConfig {
	out := make([]PublisherConfig, 0, len(cfgs))
	for _, cfg := range cfgs {
		if cfg.IsEnabled() {
			out = append(out, cfg)
		}
	}
	return out
}

// IsEnabled defaults to true when enabled is omitted.
func (c PublisherConfig) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

// prepare normalizes c in place and reports the first problem found.
func (c *PublisherConfig) prepare() error {
	c.ID = strings.TrimSpace(c.ID)
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	if c.ID == "" {
		return errors.New("id is required")
	}
	b, err := c.block()
	if err != nil {
		return err
	}
	b.normalize()
	if err := b.validate(); err != nil {
		return fmt.Errorf("publisher %q: %w", c.ID, err)
	}
	if _, err := c.When.Compile(); err != nil {
		return fmt.Errorf("publisher %q: when: %w", c.ID, err)
	}
	return nil
}

// block returns the settings matching c.Type.
func (c *PublisherConfig) block() (block, error) {
	var (
		b       block
		present bool
	)
	switch c.Type {
	case TypeHTTP:
		b, present = c.HTTP, c.HTTP != nil
	case TypeSQS:
		b, present = c.SQS, c.SQS != nil
	case TypeSNS:
		b, present = c.SNS, c.SNS != nil
	case TypePubSub:
		b, present = c.PubSub, c.PubSub != nil
	case "":
		return nil, fmt.Errorf("type is required for publisher %q", c.ID)
	default:
		return nil, fmt.Errorf("unsupported type %q for publisher %q", c.Type, c.ID)
	}
	if !present {
		return nil, fmt.Errorf("%s settings required for publisher %q", c.Type, c.ID)
	}
	return b, nil
}

func (h *HTTPConfig) normalize() {
	h.URL = strings.TrimSpace(h.URL)
	h.Method = strings.ToUpper(strings.TrimSpace(h.Method))
	if h.Method == "" {
		h.Method = httpclient.MethodPost.String()
	}
	headers := make(map[string]string, len(h.Headers))
	for k, v := range h.Headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			headers[k] = v
		}
	}
	h.Headers = headers
	if h.TimeoutSeconds <= 0 {
		h.TimeoutSeconds = int(defaultHTTPTimeout.Seconds())
	}
}

func (h *HTTPConfig) validate() error {
	if h.URL == "" {
		return errors.New("http.url is required")
	}
	u, err := url.Parse(h.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("http.url %q is not an absolute http(s) url", h.URL)
	}
	if httpclient.ParseMethod(h.Method).String() != h.Method {
		return fmt.Errorf("http.method %q is not supported", h.Method)
	}
	return nil
}

func (h *HTTPConfig) timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

func (s *SQSConfig) normalize() {
	s.QueueURL = strings.TrimSpace(s.QueueURL)
	s.Region = strings.TrimSpace(s.Region)
}

func (s *SQSConfig) validate() error {
	if s.QueueURL == "" || s.Region == "" {
		return errors.New("sqs.queue_url and sqs.region are required")
	}
	return nil
}

func (s *SNSConfig) normalize() {
	s.TopicARN = strings.TrimSpace(s.TopicARN)
	s.Region = strings.TrimSpace(s.Region)
}

func (s *SNSConfig) validate() error {
	if s.TopicARN == "" || s.Region == "" {
		return errors.New("sns.topic_arn and sns.region are required")
	}
	return nil
}

func (p *PubSubConfig) normalize() {
	p.ProjectID = strings.TrimSpace(p.ProjectID)
	p.Topic = strings.TrimSpace(p.Topic)
	p.CredentialsFile = strings.TrimSpace(p.CredentialsFile)
}

func (p *PubSubConfig) validate() error {
	if p.ProjectID == "" || p.Topic == "" {
		return errors.New("pubsub.project_id and pubsub.topic are required")
	}
	return nil
}
