package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string  // connection string for the database
	WaitForServices    string  // duration to wait for other services to be ready
	LogLevel           string  // sets the log level (zap log level values)
	SQLLogLevel        string  // sets the log level for sql subsystem
	LogFormat          string  // text vs json
	LogFilter          string  // zapfilter rules applied to the log output
	CacheDir           string  // directory of the telemetry response cache (empty: no cache)
	CacheTTL           string  // lifetime of cached responses (0: forever)
	ProviderURL        string  // base url of the telemetry provider
	ProviderRate       float64 // max requests per second sent to the provider
	MigrationSourceURL string  // location of migration files
)

// Config holds the configuration values which are used by the application
type Config struct {
	Year         int      // season to process
	Limit        int      // max number of sectors to collect
	Count        int      // number of sectors to compose
	Seed         uint64   // seed for random sector selection (0: time based)
	Picks        []string // explicit event:sector picks
	FastestLaps  int      // number of fastest laps used for boundary estimation
	Output       string   // output file
	Format       string   // output format
	IncludeJoint bool     // include duplicate junction points
	Precomputed  bool     // use precomputed entry/exit vectors
}
