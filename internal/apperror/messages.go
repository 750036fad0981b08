package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeInvalidInput:       "Invalid input provided",
	CodeInvalidState:       "Invalid state for this operation",
	CodeNotFound:           "Resource not found",
	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeRPCConnectionFailed: "Failed to connect to chain RPC node",
	CodeRPCCallFailed:       "Chain RPC call failed",
	CodeGasEstimationFailed: "Gas estimation failed",

	CodePoolUnavailable:   "Pool reserves unavailable",
	CodePoolFetchTimeout:  "Pool reserve fetch timed out",
	CodeMalformedReserves: "Pool returned zero or malformed reserves",
	CodeAllPoolsFailed:    "All pool reserve fetches failed",

	CodeNumericOverflow:      "Arithmetic exceeded representable range",
	CodeDuplicateFingerprint: "Duplicate opportunity fingerprint within scan",
	CodeInvalidTradeSize:     "Invalid trade size",

	CodeSignalUnavailable: "Intelligence signal unavailable",
	CodeSignalStale:       "Intelligence signal is stale",
	CodeFeedFetchFailed:   "Failed to fetch intelligence feed",

	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketClosed:          "WebSocket connection closed",

	CodeExecutionRejected: "Execution sink rejected opportunity",
	CodeExecutionFailed:   "Execution failed",

	CodeCircuitOpen: "Circuit breaker is open",
}
