package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"icassist/lib/campus"
	"icassist/lib/configutil"
	"icassist/lib/digest"
	"icassist/lib/gradestore"
	"icassist/lib/osutil"
)

type WatchConfig struct {
	// Interval between two snapshots, ex. "6h". Defaults to 6 hours.
	Interval string `json:"interval"`
}

type Config struct {
	District string `json:"district" validate:"required"`
	State    string `json:"state" validate:"required,len=2"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`

	SchoolID string `json:"school_id"`
	Legacy   bool   `json:"legacy"`
	// Timezone is the IANA name of the district's timezone, the local one if empty.
	Timezone          string  `json:"timezone"`
	SearchURL         string  `json:"search_url" validate:"omitempty,url"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
	RequestsPerSecond float64 `json:"requests_per_second" validate:"gte=0"`
	HTTPDumpDir       string  `json:"http_dump_dir"`

	Gradestore gradestore.Database `json:"gradestore"`
	SMTP       *digest.EmailConfig `json:"smtp"`
	Watch      WatchConfig         `json:"watch"`
}

func (c Config) Credentials() campus.Credentials {
	return campus.Credentials{
		District: c.District,
		State:    c.State,
		Username: c.Username,
		Password: c.Password,
	}
}

// StudentKey identifies the student in the grade store.
func (c Config) StudentKey() string {
	return fmt.Sprintf("%s@%s/%s", c.Username, c.District, c.State)
}

func (c Config) WatchInterval() (time.Duration, error) {
	if c.Watch.Interval == "" {
		return 6 * time.Hour, nil
	}
	interval, err := time.ParseDuration(c.Watch.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid watch interval: %w", err)
	}
	if interval < time.Minute {
		return 0, fmt.Errorf("watch interval must be at least a minute, got %s", interval)
	}
	return interval, nil
}

// LoadConfig reads the config at path. A bare file name is searched for in the
// working directory and its parents.
func LoadConfig(path string) (Config, error) {
	path, err := osutil.ExpandHome(path)
	if err != nil {
		return Config{}, err
	}
	if filepath.Base(path) == path {
		return configutil.ReadRecursively[Config](path)
	}
	return configutil.ReadConfig[Config](path)
}
