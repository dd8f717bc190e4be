package config

import (
	"os"

	"github.com/Laisky/errors/v2"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"blogd/internal/application/usecase"
	"blogd/internal/infrastructure/broker"
	"blogd/internal/infrastructure/database"
	"blogd/internal/infrastructure/filestore"
	"blogd/internal/infrastructure/mailer"
	"blogd/internal/infrastructure/minio"
	"blogd/pkg/logger"
)

const (
	DriverFile  = "file"
	DriverMongo = "mongo"

	defaultTimeout = 5000

	// defaultClaimIdle must stay above the longest notification retry delay.
	defaultClaimIdle = 300000
)

// Config represents the configs used by services on system.
type Config struct {
	Environment     string                 `yaml:"environment"`
	HTTP            HTTPConfig             `yaml:"http"`
	Storage         StorageConfig          `yaml:"storage"`
	FileStore       filestore.Config       `yaml:"file_store"`
	DBConfig        database.Config        `yaml:"db_config"`
	MinIOClient     minio.ClientConfig     `yaml:"minio_client"`
	MinIOUploader   minio.UploaderConfig   `yaml:"minio_uploader"`
	MinIORemover    minio.RemoverConfig    `yaml:"minio_remover"`
	Mailer          mailer.Config          `yaml:"mailer"`
	Notifier        usecase.NotifierConfig `yaml:"notifier"`
	BrokerConfig    broker.Config          `yaml:"redis_broker_config"`
	PublisherConfig broker.PublisherConfig `yaml:"publisher_config"`
	Logger          logger.Config          `yaml:"logger"`
}

type HTTPConfig struct {
	Address   string `yaml:"address"`
	BodyLimit string `yaml:"body_limit"`
}

type StorageConfig struct {
	// Driver is DriverFile or DriverMongo.
	Driver string `yaml:"driver"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}
	defer file.Close()

	config := &Config{}

	decoder := yaml.NewDecoder(file)

	if err := decoder.Decode(config); err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}

	if config.Environment != "prod" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, Error{
				reason: err.Error(),
			}
		}
	}

	config.MinIOClient.AccessKey = os.Getenv("MINIO_ROOT_USER")
	config.MinIOClient.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")
	config.DBConfig.URI = os.Getenv("DATABASE_URI")
	config.BrokerConfig.URI = os.Getenv("BROKER_URI")
	config.Mailer.APIKey = os.Getenv("SEND_GRID_API_KEY")

	if err = config.basicCheck(); err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}

	return config, nil
}

// basicCheck fills defaults and rejects settings the service can't run with.
func (c *Config) basicCheck() error {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.BodyLimit == "" {
		c.HTTP.BodyLimit = "10M"
	}

	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = DriverFile
	case DriverFile, DriverMongo:
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.Driver == DriverFile && c.FileStore.Dir == "" {
		c.FileStore.Dir = "data"
	}
	if c.Storage.Driver == DriverMongo && c.DBConfig.URI == "" {
		return errors.New("DATABASE_URI is required for the mongo storage driver")
	}

	if c.MinIOClient.Endpoint == "" || c.MinIOClient.Bucket == "" {
		return errors.New("minio_client.endpoint and minio_client.bucket are required")
	}

	switch c.Notifier.Mode {
	case "":
		c.Notifier.Mode = usecase.NotifyDirect
	case usecase.NotifyDirect:
	case usecase.NotifyQueue:
		if c.BrokerConfig.URI == "" {
			return errors.New("BROKER_URI is required for the queue notifier")
		}
	default:
		return errors.Errorf("unknown notifier mode %q", c.Notifier.Mode)
	}

	if c.Notifier.Consumer == "" {
		c.Notifier.Consumer = "blogd"
	}
	if c.BrokerConfig.StreamName == "" {
		c.BrokerConfig.StreamName = "notifications"
	}
	if c.BrokerConfig.GroupName == "" {
		c.BrokerConfig.GroupName = "mailers"
	}
	if c.BrokerConfig.ClaimIdle <= 0 {
		c.BrokerConfig.ClaimIdle = defaultClaimIdle
	}

	for _, timeout := range []*int64{
		&c.MinIOUploader.Timeout, &c.MinIORemover.Timeout, &c.Mailer.Timeout,
		&c.DBConfig.ConnectionTimeout, &c.DBConfig.QueryTimeout,
	} {
		if *timeout <= 0 {
			*timeout = defaultTimeout
		}
	}
	if c.PublisherConfig.Timeout <= 0 {
		c.PublisherConfig.Timeout = defaultTimeout
	}

	return nil
}
