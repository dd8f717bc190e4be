package broker

type Config struct {
	URI        string
	StreamName string `yaml:"stream_name"`
	GroupName  string `yaml:"group_name"`
	ClaimIdle  int    `yaml:"claim_idle_in_ms"`
}

type PublisherConfig struct {
	Timeout int `yaml:"timeout_in_ms"`
}
