package constants

// Redis key formats
const (
	KeyRates           = "gateway:rates"        // cached processor rates
	KeyTransactionLock = "gateway:lock:txn:%s" // Format: gateway:lock:txn:{external_id}
)

// Lock backends
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)
