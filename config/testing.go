package config

import (
	"github.com/creasty/defaults"
)

const testConfig = `
MongoDB:
    ConnectionString: null
    AuthenticationMechanism: null
    SocketTimeout: 2
    TLS:
        Enable: false
        VerifyCertificate: false
        CAFile: null
    MetaDB: SOCINTEL-TEST-MetaDatabase
LogConfig:
    LogLevel: 3
    LogPath: null
    LogToFile: false
    LogToDB: true
UserConfig:
    UpdateCheckFrequency: 14
Beacon:
    MinConnections: 5
    MaxJitter: 0.5
Scanning:
    PortThreshold: 15
    HostThreshold: 3
DNSTunnel:
    MaxQueryLength: 60
    MaxLabels: 6
    EntropyThreshold: 4.0
    MinQueries: 3
Scoring:
    CurrentWeight: 0.75
    HistoricalWeight: 0.25
    HighThreshold: 0.7
    LowThreshold: 0.3
    MaxDivergence: 0.3
    CacheSize: 16
Import:
    BatchLimit: 50000
    ImportBuffer: 100
`

// LoadTestingConfig loads the hard coded testing config
func LoadTestingConfig(mongoURI string) (*Config, error) {
	config := &Config{}

	// Initialize table config to the default values
	if err := defaults.Set(&config.T); err != nil {
		return nil, err
	}

	// Initialize static config to the default values
	if err := defaults.Set(&config.S); err != nil {
		return nil, err
	}

	config.S.MongoDB.ConnectionString = mongoURI

	// Deserialize the yaml file contents into the static config
	if err := parseStaticConfig([]byte(testConfig), &config.S); err != nil {
		return nil, err
	}

	config.S.Version = "v0.0.0+testing"
	config.S.ExactVersion = "v0.0.0+testing"

	// Use the static config to initialize the running config
	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	if err := config.S.Verify(); err != nil {
		return nil, err
	}

	return config, nil
}
