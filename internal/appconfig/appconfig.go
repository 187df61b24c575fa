package appconfig

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host          string              `yaml:"host"`
	BasePath      string              `yaml:"basePath"`
	DocsPath      string              `yaml:"docsPath"`
	Database      DatabaseConfig      `yaml:"database"`
	Pulsar        PulsarConfig        `yaml:"pulsar"`
	AWS           AWSConfig           `yaml:"aws"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Auth          AuthConfig          `yaml:"auth"`
	Tunnel        TunnelConfig        `yaml:"tunnel"`
}

// DatabaseConfig defines the database connection details. When SecretName is
// set the connection details are read from AWS Secrets Manager instead of Source.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Source     string `yaml:"source"`
	SecretName string `yaml:"secretName"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

// NotificationsConfig controls the email sent to users removed from a group
type NotificationsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	SenderEmail string `yaml:"senderEmail"`
}

// AuthConfig gates every route behind a Bearer JWT carrying AdminRole.
// Browsers do not attach the token themselves, so with Enabled set the HTML
// pages must sit behind a gateway that injects the Authorization header.
// The removal form carries no CSRF token; the gateway session is expected
// to provide that protection.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	AdminRole string `yaml:"adminRole"`
}

// TunnelConfig describes an SSH local-forward used to reach a private
// database from a development machine.
type TunnelConfig struct {
	SSHUser        string `yaml:"sshUser"`
	SSHHost        string `yaml:"sshHost"`
	SSHPort        string `yaml:"sshPort"`
	RemoteHost     string `yaml:"remoteHost"`
	RemotePort     string `yaml:"remotePort"`
	LocalPort      string `yaml:"localPort"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
	KnownHostsPath string `yaml:"knownHostsPath"`
}

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required")
	}

	// Parse the template file
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, err
	}

	// Execute the template with environment variables
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, loadEnvVars()); err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, err
	}

	config := Config{
		Database: DatabaseConfig{Driver: "postgres"},
		Auth:     AuthConfig{AdminRole: "hub_admin"},
		DocsPath: "/docs",
	}
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, err
	}

	return &config, nil
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
