package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// DefaultMode is the combination mode used when a preview request does
	// not specify one (random, cartesian).
	DefaultMode string `mapstructure:"default_mode" default:"random"`
	// DefaultInnovationCount is how many combinations a random-mode preview
	// produces when the caller omits the count parameter.
	DefaultInnovationCount int `mapstructure:"default_innovation_count" default:"4"`
}

const (
	ModeRandom    = "random"
	ModeCartesian = "cartesian"
)

// IsValidMode checks if the given combination mode is supported.
func IsValidMode(mode string) bool {
	switch mode {
	case ModeRandom, ModeCartesian:
		return true
	default:
		return false
	}
}
