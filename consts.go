package scopedlog

const emptyString = ""

// Field names written by category loggers.
const (
	CategoryFieldName  = "category"
	ScopeFieldName     = "scope"
	EventIDFieldName   = "event_id"
	EventNameFieldName = "event_name"
)

// Identity scope keys.
const (
	UsernameFieldName = "username"
	UserIDFieldName   = "aspNetId"

	identityScopeTemplate = "User:{" + UsernameFieldName + "}, {" + UserIDFieldName + "}"
	identityFlightKey     = "identity"
)

const (
	defaultLogFileName       = "app"
	defaultShutdownTimeoutMS = 5000
	envPrefix                = "SCOPEDLOG_"
)

const (
	errMsgNilConfig           = "Logging config is nil."
	errMsgNilService          = "Logger service is nil."
	errMsgAppCfgNotSet        = "Logging config is not set."
	errMsgConfigInvalid       = "Logging configuration is invalid."
	errMsgUnsafeLogDir        = "Log file directory must be relative and stay inside the working directory."
	errMsgNoChannels          = "No logging channels enabled."
	errMsgNilLoggerFactory    = "Logger factory is nil."
	errMsgNilResolver         = "Principal resolver is nil."
	errMsgIdentityUnavailable = "identity unavailable"
)
