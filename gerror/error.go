package gerror

import "errors"

var (
	// ErrStorageNotFound is used when the object is not found in the storage
	ErrStorageNotFound = errors.New("not found in the storage")

	// ErrStorageNotRegister is used when the configured storage driver is unknown
	ErrStorageNotRegister = errors.New("not registered storage")

	// ErrNilDBTransaction is used when a db transaction is expected but none is given
	ErrNilDBTransaction = errors.New("nil db transaction")

	// ErrAlreadyStored is used when a record with the same key is already persisted
	ErrAlreadyStored = errors.New("already stored")

	// ErrGenesisMismatch is used when the stored state was not deployed by the configured genesis
	ErrGenesisMismatch = errors.New("stored state does not match the genesis deployer")

	// ErrCacheMiss is used when the requested key is not present in the cache
	ErrCacheMiss = errors.New("cache miss")
)
