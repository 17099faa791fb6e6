package dto

// RequestIDHeader carries the request id between client, server and logs.
const RequestIDHeader = "X-Request-ID"
