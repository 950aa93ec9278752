// Package env holds shared environment settings for the CLI
package env

// Prefix is the prefix for ethdeals environment variables
const Prefix = "ETHDEALS"
