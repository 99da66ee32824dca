package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database   *dbConfig
	Service    *svcConfig
	Scheduling *SchedulingConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"inspections"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
	// MaxOpenConns of 0 keeps the driver default: 100 for postgres, 1 for sqlite.
	MaxOpenConns int `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
}

type svcConfig struct {
	Address         string    `envconfig:"INSPECTION_PLANNER_ADDRESS" default:":3443"`
	MetricsAddress  string    `envconfig:"INSPECTION_PLANNER_METRICS_ADDRESS" default:":8080"`
	LogLevel        string    `envconfig:"INSPECTION_PLANNER_LOG_LEVEL" default:"info"`
	LogFormat       string    `envconfig:"INSPECTION_PLANNER_LOG_FORMAT" default:"console"`
	LatencyBuckets  []float64 `envconfig:"INSPECTION_PLANNER_LATENCY_BUCKETS" default:"5,25,100,300,1000,5000"`
	MigrationFolder string    `envconfig:"INSPECTION_PLANNER_MIGRATIONS_FOLDER" default:""`
	EventsTopic     string    `envconfig:"INSPECTION_PLANNER_EVENTS_TOPIC" default:"inspection.planner.events"`
	Auth            Auth
}

type Auth struct {
	AuthenticationType string `envconfig:"INSPECTION_PLANNER_AUTH" default:""`
	JwtSecret          string `envconfig:"INSPECTION_PLANNER_JWT_SECRET" default:""`
}

// SchedulingConfig holds the knobs of the availability and assignment engine.
type SchedulingConfig struct {
	SupervisorCapacity      int           `envconfig:"SCHEDULER_SUPERVISOR_CAPACITY" default:"3"`
	InspectorCapacity       int           `envconfig:"SCHEDULER_INSPECTOR_CAPACITY" default:"3"`
	StoreTimeout            time.Duration `envconfig:"SCHEDULER_STORE_TIMEOUT" default:"5s"`
	Timezone                string        `envconfig:"SCHEDULER_TIMEZONE" default:"UTC"`
	AvailabilityConcurrency int           `envconfig:"SCHEDULER_AVAILABILITY_CONCURRENCY" default:"4"`
}

// Location resolves the configured timezone, falling back to UTC.
func (s *SchedulingConfig) Location() *time.Location {
	if s == nil || s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a configuration backed by an in-memory sqlite database.
// It is meant for tests and local experiments.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: "file::memory:?cache=shared",
		},
		Service: &svcConfig{
			Address:        ":3443",
			MetricsAddress: ":8080",
			LogLevel:       "debug",
			EventsTopic:    "inspection.planner.events",
		},
		Scheduling: &SchedulingConfig{
			SupervisorCapacity:      3,
			InspectorCapacity:       3,
			StoreTimeout:            5 * time.Second,
			Timezone:                "UTC",
			AvailabilityConcurrency: 4,
		},
	}
}
