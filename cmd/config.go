package cmd

// Storage backend names accepted by the BACKEND configuration key.
const (
	BackendNostr    = "nostr"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	HTTPPort            string
	Backend             string
	RelayURLs           []string
	NostrSecretKey      string
	QueryTimeoutSeconds int
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
}
