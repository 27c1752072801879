package port

import "context"

type ReleaseLedger interface {
	// ClaimRelease atomically reserves a release key, returns false if already claimed
	ClaimRelease(ctx context.Context, key string) (bool, error)

	// ReleaseClaim drops a claim (rollback when a release fails)
	ReleaseClaim(ctx context.Context, key string) error
}
