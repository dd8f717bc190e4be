package usecase

const (
	NotifyDirect = "direct"
	NotifyQueue  = "queue"
)

type NotifierConfig struct {
	// Mode is NotifyDirect or NotifyQueue.
	Mode             string `yaml:"mode"`
	MaxAttempts      int    `yaml:"max_attempts"`
	Consumer         string `yaml:"consumer"`
	DefaultRecipient string `yaml:"default_recipient"`
	Subject          string `yaml:"subject"`

	// RetryDelay is the wait before the second attempt. It doubles for each
	// attempt after that.
	RetryDelay int `yaml:"retry_delay_in_ms"`
}
