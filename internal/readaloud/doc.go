// Package readaloud provides an HTTP client for the ReadAloud TTS backend.
//
// # Endpoints
//
//	GET  /api/config          full configuration record
//	POST /api/config          replace-all write, answers {status, message?}
//	GET  /api/status          {status, higgs_audio, higgs_service?: {running, ready}}
//	POST /api/tts             {action, text?}, answers {status, message}
//	POST /api/service/start   answers {status, message?}
//	POST /api/service/stop    answers {status, message?}
//
// # Error Handling
//
// Write calls return the decoded {status, message} envelope even when the
// backend answers with a 4xx/5xx code, so callers can show the server message.
// Transport failures, non-JSON bodies and error codes without an envelope are
// returned as wrapped errors. Status returns ErrNotSuccess when the reply does
// not carry the success discriminator.
//
// Every request carries an X-Request-ID header that is also written to the
// debug log.
package readaloud
