package ddapi

import (
	"encoding/json"
	"fmt"
)

// Kind classifies an API call failure.
type Kind string

const (
	// KindTransport covers DNS, connection, and timeout failures.
	KindTransport Kind = "transport"
	// KindHTTP covers non-2xx responses.
	KindHTTP Kind = "http"
	// KindDecode covers malformed JSON in a 2xx response.
	KindDecode Kind = "decode"
)

// maxBodyExcerpt bounds the response body carried on an Error.
const maxBodyExcerpt = 4096

// Error is the typed failure returned for every unsuccessful Datadog API
// call. It is never retried or swallowed by this layer; callers decide how to
// present it.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, set when Kind is KindHTTP
	Message string
	Body    string // response body excerpt, set when Kind is KindHTTP
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("datadog api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("datadog api: %s: %s", e.Kind, e.Message)
}

// Hint returns actionable guidance for the failure, suitable for showing to
// the agent verbatim.
func (e *Error) Hint() string {
	switch e.Kind {
	case KindTransport:
		return "Could not reach the Datadog API. Check DD_SITE and network connectivity."
	case KindDecode:
		return "The Datadog API returned a response that could not be decoded."
	}
	switch e.Status {
	case 400:
		return "Bad request. Check your parameters."
	case 401:
		return "Unauthorized. Check that DD_API_KEY and DD_APP_KEY are valid."
	case 403:
		return "Forbidden. Your API key lacks permission for this operation."
	case 404:
		return "Resource not found. Check the ID is correct."
	case 429:
		return "Rate limit exceeded. Wait before retrying."
	default:
		return fmt.Sprintf("Datadog API returned status %d.", e.Status)
	}
}

// Readable renders the error as text for the agent: hint first, then the body
// excerpt (pretty-printed when it is JSON).
func (e *Error) Readable() string {
	out := "Error: " + e.Hint()
	if e.Body == "" {
		return out
	}
	var parsed any
	if err := json.Unmarshal([]byte(e.Body), &parsed); err == nil {
		if pretty, err := json.MarshalIndent(parsed, "", "  "); err == nil {
			return out + "\n" + string(pretty)
		}
	}
	return out + "\n" + e.Body
}

func excerpt(b []byte) string {
	if len(b) > maxBodyExcerpt {
		return string(b[:maxBodyExcerpt])
	}
	return string(b)
}
