package filestore

type Config struct {
	Dir string `yaml:"dir"`
}
