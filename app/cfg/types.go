package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port           string
	ProvidersFile  string
	RedisAddr      string
	CacheDisabled  bool
	WorkerCount    int
	IngestInterval int
	APIAccessKey   string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
