package connectors

import "fmt"

// BinanceErrorCodes maps the remote error codes we see most to clearer
// messages. Unknown codes pass through with the raw exchange message.
var BinanceErrorCodes = map[int]string{
	-1000: "UNKNOWN: internal exchange error",
	-1003: "TOO_MANY_REQUESTS: request weight limit exceeded",
	-1021: "INVALID_TIMESTAMP: request timestamp outside recvWindow, check clock drift",
	-1022: "INVALID_SIGNATURE: request signature rejected, check the API secret",
	-1102: "MANDATORY_PARAM_EMPTY_OR_MALFORMED: a required parameter was missing or malformed",
	-1121: "INVALID_SYMBOL: the symbol is not listed on this exchange",
	-2008: "INVALID_ACCOUNT: account unavailable for this operation",
	-2014: "BAD_API_KEY_FMT: API key format invalid",
	-2015: "INVALID_API_KEY: key, IP, or permissions rejected for this action",
}

// ExchangeError preserves the remote code alongside the translated
// message so callers can branch on the original code.
type ExchangeError struct {
	Code    int
	Message string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("exchange error code=%d: %s", e.Code, e.Message)
}

// NewExchangeError translates a known remote code, falling back to the
// raw exchange message for everything else.
func NewExchangeError(code int, rawMsg string) *ExchangeError {
	if msg, ok := BinanceErrorCodes[code]; ok {
		return &ExchangeError{Code: code, Message: msg}
	}
	return &ExchangeError{Code: code, Message: rawMsg}
}
