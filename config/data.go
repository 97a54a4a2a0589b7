package config

// Algorithm parameters for the dynamic K-shortest-path planner.
const (
	KShortestPaths     = 25   // K value for the alternative path generator
	SoftmaxTemperature = 0.08 // low temperature sharply favors the lowest-cost path
	WeightAlpha        = 0.1  // distance share of the composite cost
	WeightBeta         = 0.9  // congestion share of the composite cost

	TimeProximityWeight    = 0.15 // reward for candidates close to the fastest duration
	CongestionReliefWeight = 0.2  // extra smoothness bias under a congested scenario
	CongestedScenarioMean  = 0.5  // mean load factor above which relief kicks in
)

// Config maps routing_config.toml.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Executor ExecutorConfig `toml:"executor"`
	Planner  PlannerConfig  `toml:"planner"`
}

// ServerConfig holds the HTTP listener parameters.
type ServerConfig struct {
	Port string `toml:"port"`
}

// DatabaseConfig holds MySQL connection parameters for topology bootstrap.
type DatabaseConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	DBName   string `toml:"dbname"`
	Enabled  bool   `toml:"enabled"`
}

// RedisConfig holds the task-archive connection parameters.
type RedisConfig struct {
	Address        string `toml:"address"`
	Enabled        bool   `toml:"enabled"`
	ArchiveSeconds int    `toml:"archive_seconds"`
}

// ExecutorConfig sizes the planning worker pool.
type ExecutorConfig struct {
	MaxWorkers     int `toml:"max_workers"`
	QueueSize      int `toml:"queue_size"`
	RequestTimeout int `toml:"request_timeout_seconds"`
}

// PlannerConfig carries per-deployment planning knobs.
type PlannerConfig struct {
	TruckMinCapacity float64 `toml:"truck_min_capacity"`
}
