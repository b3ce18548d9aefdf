// Package sheets reads ranges from the Google Sheets v4 values API.
//
// Fetcher is the interface the poll coordinator depends on; Client is the
// HTTP implementation. A response is a ValueRange whose first row is the
// header; Rows() strips it. An absent values array means "no data yet" and
// is not an error. Non-200 responses, transport failures and undecodable
// bodies are returned as errors for the caller to log.
//
// Authentication (API key as the "key" query parameter, or an OAuth bearer
// token) is injected by authRoundTripper so individual requests stay clean.
package sheets
