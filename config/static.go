package config

import (
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"reflect"
	"time"

	"github.com/creasty/defaults"
	yaml "gopkg.in/yaml.v2"
)

type (
	//StaticCfg is the container for other static config sections
	StaticCfg struct {
		MongoDB   MongoDBStaticCfg   `yaml:"MongoDB"`
		Log       LogStaticCfg       `yaml:"LogConfig"`
		UserConfig UserCfg           `yaml:"UserConfig"`
		Beacon    BeaconStaticCfg    `yaml:"Beacon"`
		Scanning  ScanningStaticCfg  `yaml:"Scanning"`
		DNSTunnel DNSTunnelStaticCfg `yaml:"DNSTunnel"`
		Scoring   ScoringStaticCfg   `yaml:"Scoring"`
		Import    ImportStaticCfg    `yaml:"Import"`
		Version      string
		ExactVersion string
	}

	//MongoDBStaticCfg contains the means for connecting to MongoDB
	MongoDBStaticCfg struct {
		ConnectionString string        `yaml:"ConnectionString" default:"mongodb://localhost:27017"`
		AuthMechanism    string        `yaml:"AuthenticationMechanism" default:""`
		SocketTimeout    time.Duration `yaml:"SocketTimeout" default:"2"`
		TLS              TLSStaticCfg  `yaml:"TLS"`
		MetaDB           string        `yaml:"MetaDB" default:"SocintelMetaDatabase"`
	}

	//TLSStaticCfg contains the means for connecting to MongoDB over TLS
	TLSStaticCfg struct {
		Enabled           bool   `yaml:"Enable" default:"false"`
		VerifyCertificate bool   `yaml:"VerifyCertificate" default:"false"`
		CAFile            string `yaml:"CAFile" default:""`
	}

	//LogStaticCfg contains the configuration for logging
	LogStaticCfg struct {
		LogLevel  int    `yaml:"LogLevel" default:"2"`
		LogPath   string `yaml:"LogPath" default:""`
		LogToFile bool   `yaml:"LogToFile" default:"false"`
		LogToDB   bool   `yaml:"LogToDB" default:"true"`
	}

	//UserCfg holds user preferences
	UserCfg struct {
		UpdateCheckFrequency int `yaml:"UpdateCheckFrequency" default:"14"`
	}

	//BeaconStaticCfg is used to control the beaconing detector
	BeaconStaticCfg struct {
		MinConnections int     `yaml:"MinConnections" default:"5"`
		MaxJitter      float64 `yaml:"MaxJitter" default:"0.5"`
	}

	//ScanningStaticCfg is used to control the port scan detector
	ScanningStaticCfg struct {
		PortThreshold int `yaml:"PortThreshold" default:"15"`
		HostThreshold int `yaml:"HostThreshold" default:"3"`
	}

	//DNSTunnelStaticCfg is used to control the DNS tunneling detector
	DNSTunnelStaticCfg struct {
		MaxQueryLength   int     `yaml:"MaxQueryLength" default:"60"`
		MaxLabels        int     `yaml:"MaxLabels" default:"6"`
		EntropyThreshold float64 `yaml:"EntropyThreshold" default:"4.0"`
		MinQueries       int     `yaml:"MinQueries" default:"3"`
	}

	//ScoringStaticCfg is used to control the weighted threat score blender
	ScoringStaticCfg struct {
		CurrentWeight    float64 `yaml:"CurrentWeight" default:"0.75"`
		HistoricalWeight float64 `yaml:"HistoricalWeight" default:"0.25"`
		HighThreshold    float64 `yaml:"HighThreshold" default:"0.7"`
		LowThreshold     float64 `yaml:"LowThreshold" default:"0.3"`
		MaxDivergence    float64 `yaml:"MaxDivergence" default:"0.3"`
		CacheSize        int     `yaml:"CacheSize" default:"1024"`
	}

	//ImportStaticCfg controls the event file importer
	ImportStaticCfg struct {
		BatchLimit   int `yaml:"BatchLimit" default:"50000"`
		ImportBuffer int `yaml:"ImportBuffer" default:"30000"`
	}
)

//UnsupportedConfigurationError reports a threshold or weight which is
//outside of its valid range. Configuration problems abort before any
//analysis starts.
type UnsupportedConfigurationError struct {
	Section string
	Reason  string
}

func (e UnsupportedConfigurationError) Error() string {
	return fmt.Sprintf("unsupported %s configuration: %s", e.Section, e.Reason)
}

// loadStaticConfig attempts to parse a config file
func loadStaticConfig(cfgPath string) (*StaticCfg, error) {
	config := new(StaticCfg)

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	if cfgPath != "" {
		cfgFile, err := ioutil.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		if err := parseStaticConfig(cfgFile, config); err != nil {
			return nil, err
		}
	}

	// grab the version constants set by the build process
	config.Version = Version
	config.ExactVersion = ExactVersion

	return config, nil
}

// parseStaticConfig loads the yaml from cfgFile into config
func parseStaticConfig(cfgFile []byte, config *StaticCfg) error {
	err := yaml.Unmarshal(cfgFile, config)
	if err != nil {
		return err
	}

	// expand env variables, config is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(config).Elem())

	// set the socket time out in hours
	config.MongoDB.SocketTimeout *= time.Hour

	return nil
}

//Verify checks the static config thresholds and weights against their
//valid ranges
func (s *StaticCfg) Verify() error {
	if s.Beacon.MinConnections < 2 {
		return UnsupportedConfigurationError{"Beacon", "MinConnections must be at least 2"}
	}
	if s.Beacon.MaxJitter < 0 || math.IsNaN(s.Beacon.MaxJitter) {
		return UnsupportedConfigurationError{"Beacon", "MaxJitter must be non-negative"}
	}
	if s.Scanning.PortThreshold < 1 {
		return UnsupportedConfigurationError{"Scanning", "PortThreshold must be positive"}
	}
	if s.Scanning.HostThreshold < 1 {
		return UnsupportedConfigurationError{"Scanning", "HostThreshold must be positive"}
	}
	if s.DNSTunnel.MaxQueryLength < 1 {
		return UnsupportedConfigurationError{"DNSTunnel", "MaxQueryLength must be positive"}
	}
	if s.DNSTunnel.MaxLabels < 1 {
		return UnsupportedConfigurationError{"DNSTunnel", "MaxLabels must be positive"}
	}
	if s.DNSTunnel.EntropyThreshold < 0 || math.IsNaN(s.DNSTunnel.EntropyThreshold) {
		return UnsupportedConfigurationError{"DNSTunnel", "EntropyThreshold must be non-negative"}
	}
	if s.DNSTunnel.MinQueries < 1 {
		return UnsupportedConfigurationError{"DNSTunnel", "MinQueries must be positive"}
	}
	if s.Scoring.CurrentWeight < 0 || s.Scoring.HistoricalWeight < 0 {
		return UnsupportedConfigurationError{"Scoring", "weights must be non-negative"}
	}
	if math.Abs(s.Scoring.CurrentWeight+s.Scoring.HistoricalWeight-1.0) > 1e-9 {
		return UnsupportedConfigurationError{"Scoring", "CurrentWeight and HistoricalWeight must sum to 1"}
	}
	if s.Scoring.HighThreshold < 0 || s.Scoring.HighThreshold > 1 ||
		s.Scoring.LowThreshold < 0 || s.Scoring.LowThreshold > 1 {
		return UnsupportedConfigurationError{"Scoring", "assessment thresholds must fall in [0, 1]"}
	}
	if s.Scoring.LowThreshold >= s.Scoring.HighThreshold {
		return UnsupportedConfigurationError{"Scoring", "LowThreshold must be below HighThreshold"}
	}
	if s.Scoring.MaxDivergence < 0 || s.Scoring.MaxDivergence > 1 {
		return UnsupportedConfigurationError{"Scoring", "MaxDivergence must fall in [0, 1]"}
	}
	if s.Scoring.CacheSize < 1 {
		return UnsupportedConfigurationError{"Scoring", "CacheSize must be positive"}
	}
	if s.Import.BatchLimit < 1 {
		return UnsupportedConfigurationError{"Import", "BatchLimit must be positive"}
	}
	return nil
}

// expandConfig expands environment variables in config strings
func expandConfig(reflected reflect.Value) {
	for i := 0; i < reflected.NumField(); i++ {
		f := reflected.Field(i)
		// process sub configs
		if f.Kind() == reflect.Struct {
			expandConfig(f)
		} else if f.Kind() == reflect.String {
			f.SetString(os.ExpandEnv(f.String()))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
			strs := f.Interface().([]string)
			for i, str := range strs {
				strs[i] = os.ExpandEnv(str)
			}
			f.Set(reflect.ValueOf(strs))
		}
	}
}
