package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Scanner-specific error codes
const (
	// Chain RPC errors
	CodeRPCConnectionFailed Code = "RPC_CONNECTION_FAILED"
	CodeRPCCallFailed       Code = "RPC_CALL_FAILED"
	CodeGasEstimationFailed Code = "GAS_ESTIMATION_FAILED"

	// Reserve fetching errors
	CodePoolUnavailable   Code = "POOL_UNAVAILABLE"
	CodePoolFetchTimeout  Code = "POOL_FETCH_TIMEOUT"
	CodeMalformedReserves Code = "MALFORMED_RESERVES"
	CodeAllPoolsFailed    Code = "ALL_POOLS_FAILED"

	// Opportunity scanning errors
	CodeNumericOverflow      Code = "NUMERIC_OVERFLOW"
	CodeDuplicateFingerprint Code = "DUPLICATE_FINGERPRINT"
	CodeInvalidTradeSize     Code = "INVALID_TRADE_SIZE"

	// Intelligence errors
	CodeSignalUnavailable Code = "SIGNAL_UNAVAILABLE"
	CodeSignalStale       Code = "SIGNAL_STALE"
	CodeFeedFetchFailed   Code = "FEED_FETCH_FAILED"

	// WebSocket errors
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"

	// Execution errors
	CodeExecutionRejected Code = "EXECUTION_REJECTED"
	CodeExecutionFailed   Code = "EXECUTION_FAILED"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
