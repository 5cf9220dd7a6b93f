package utils

const (
	// AuthCachePrefix namespaces verified-token entries in the auth cache DB.
	AuthCachePrefix = "auth:token:"

	// FlowSessionPrefix namespaces booking flow sessions in the flow cache DB.
	FlowSessionPrefix = "flow:session:"

	// FlowLockPrefix namespaces single-flight locks for mutating flow operations.
	FlowLockPrefix = "flow:inflight:"
)
