// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sweeper deletes polls older than the retention age.

# Usage

	sw := sweeper.New(st, sweeper.Config{
		MaxAge:      30 * 24 * time.Hour,
		Interval:    time.Hour,
		Concurrency: 3,
	})
	go sw.Run(ctx) // sweeps now, then every Interval until ctx is done

# Cycle

Each Sweep:

 1. removes directories left by interrupted deletes
 2. lists every poll directory
 3. checks up to Concurrency directories at a time
 4. deletes a poll when now - createdAt exceeds MaxAge

A directory whose definition is missing or corrupt is skipped, so a poll is
only deleted once it is known to be expired. With OrphanGrace set, such a
directory is removed once its modification time is older than the grace
period. Errors are logged per directory and never stop the cycle.

With an Archiver configured, an expired poll is written to the archive
first and kept if archiving fails.

# Races

A vote arriving while its poll is deleted either fails with
store.ErrNotFound or is deleted along with the poll. Neither is prevented.
*/
package sweeper
