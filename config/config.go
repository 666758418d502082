package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Parking   ParkingConfig   `yaml:"parking"`
	Worker    WorkerConfig    `yaml:"worker"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig with an empty Addr disables the availability cache and vehicle locks.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers           []string `yaml:"brokers"`
	TicketEventsTopic string   `yaml:"ticket_events_topic"`
	ReceiptsTopic     string   `yaml:"receipts_topic"`
	GroupID           string   `yaml:"group_id"`
}

type ParkingConfig struct {
	CarSpots                 int `yaml:"car_spots"`
	BikeSpots                int `yaml:"bike_spots"`
	VehicleLockSeconds       int `yaml:"vehicle_lock_seconds"`
	AvailabilityCacheSeconds int `yaml:"availability_cache_seconds"`
}

type WorkerConfig struct {
	OccupancyReportMinutes int `yaml:"occupancy_report_minutes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in the ParkIt facility layout: spots 1-3 for cars, 4-5 for bikes.
func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Parking.CarSpots == 0 && c.Parking.BikeSpots == 0 {
		c.Parking.CarSpots = 3
		c.Parking.BikeSpots = 2
	}
	if c.Parking.VehicleLockSeconds == 0 {
		c.Parking.VehicleLockSeconds = 10
	}
	if c.Parking.AvailabilityCacheSeconds == 0 {
		c.Parking.AvailabilityCacheSeconds = 30
	}
	if c.Worker.OccupancyReportMinutes == 0 {
		c.Worker.OccupancyReportMinutes = 5
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "parking-system"
	}
	if c.Telemetry.OTLPEndpoint == "" {
		c.Telemetry.OTLPEndpoint = "http://localhost:4318"
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Parking.CarSpots < 0 || c.Parking.BikeSpots < 0 {
		return errors.New("spot counts must not be negative")
	}
	if c.Parking.CarSpots+c.Parking.BikeSpots == 0 {
		return errors.New("facility has no spots")
	}
	return nil
}
