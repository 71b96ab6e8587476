package domain

import "time"

const (
	// DefaultPollInterval is the delay between polls when no trigger fires.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultStopTimeout bounds how long Stop waits for the worker to finish.
	DefaultStopTimeout = time.Second

	// DefaultLockTTL is how long a distributed run lock outlives its last refresh.
	DefaultLockTTL = 5 * time.Second

	// DefaultChangeCutoff is the per-pixel intensity difference above which a pixel counts as changed.
	DefaultChangeCutoff = 20

	// DefaultChangeThreshold is the number of changed pixels above which a region observer triggers.
	DefaultChangeThreshold = 10
)
