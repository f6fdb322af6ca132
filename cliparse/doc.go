// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Each setting is taken from the first source that provides it:

 1. CLI flag
 2. environment variable (a .env file in the working directory is loaded
    first, without overriding variables that are already set)
 3. YAML config file (-c or CONFIG_FILE)
 4. default

# Settings

	-p                  PORT               8080
	-d                  DIRECTORY          approval-data
	-u                  USERNAME           approval
	--password          PASSWORD           approval
	--host              HOSTNAME           os.Hostname()
	--retention         RETENTION          720h
	--sweep-interval    SWEEP_INTERVAL     1h
	--sweep-concurrency SWEEP_CONCURRENCY  3
	--orphan-grace      ORPHAN_GRACE       0 (off)
	--archive           ARCHIVE_DIRECTORY  "" (off)
	-c                  CONFIG_FILE        ""

Mail notification is configured only through the environment or the file
(MAILGUN_FROM, EMAIL_TO, MAILGUN_DOMAIN, MAILGUN_KEY) and stays off unless
all four are set.

# Config File

	port: 8080
	directory: /var/lib/approval
	retention: 720h
	sweep_interval: 1h
	sweep_concurrency: 3
	mail:
	  from: polls@example.com
	  to: me@example.com
	  domain: example.com
	  key: key-...
*/
package cliparse
