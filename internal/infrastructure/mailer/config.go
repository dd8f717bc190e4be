package mailer

type Config struct {
	APIKey string
	// Host overrides the SendGrid API base URL.
	Host        string `yaml:"host"`
	FromAddress string `yaml:"from_address"`
	FromName    string `yaml:"from_name"`
	Timeout     int64  `yaml:"timeout_in_ms"`
}
