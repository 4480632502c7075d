package config

//Version is filled at compile time with the git version of socintel
var Version = "undefined"

//ExactVersion is filled at compile time with the exact git version of socintel
var ExactVersion = "undefined"

type (
	//Config holds the configuration for the running system
	Config struct {
		R RunningCfg
		S StaticCfg
		T TableCfg
	}
)

//LoadConfig initializes a Config from the given file path, filling in
//defaults for unset values and failing fast on unsupported threshold
//combinations
func LoadConfig(cfgPath string) (*Config, error) {
	config := &Config{}

	static, err := loadStaticConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	config.S = *static

	if err := initTableConfig(&config.T); err != nil {
		return nil, err
	}

	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	if err := config.S.Verify(); err != nil {
		return nil, err
	}

	return config, nil
}
