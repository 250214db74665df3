package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyConfigFile string = "DASHBOARD_CONFIG_FILE"

	EnvKeyBackend     string = "DASHBOARD_BACKEND"
	EnvKeyDbPath      string = "DASHBOARD_DB_PATH"
	EnvKeyDatabaseURL string = "DASHBOARD_DATABASE_URL"

	EnvKeyHttpHostPort string = "DASHBOARD_HTTP_HOST_PORT"
	EnvKeyGrpcHostPort string = "DASHBOARD_GRPC_HOST_PORT"

	EnvKeyDefaultRate  string = "DASHBOARD_DEFAULT_RATE"
	EnvKeyDefaultBurst string = "DASHBOARD_DEFAULT_BURST"

	EnvKeySupabaseURL     string = "SUPABASE_URL"
	EnvKeySupabaseAnonKey string = "SUPABASE_ANON_KEY"

	EnvKeyGeminiAPIKey string = "GEMINI_API_KEY"
	EnvKeyGeminiModel  string = "GEMINI_MODEL"

	LoggerNameDashboard     string = "dashboard"
	LoggerNameGateway       string = "gateway"
	LoggerNameAuth          string = "auth"
	LoggerNameSummary       string = "summary"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"

	LoggerFieldCategory          string = "category"
	LoggerCategoryReconcile      string = "reconcile"
	LoggerCategoryTimeLog        string = "time_log"
	LoggerCategorySession        string = "session"
	LoggerCategoryCollectionRead string = "collection_read"
)
