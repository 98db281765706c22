// Package config loads dispatcher settings from defaults, an optional
// YAML file and the environment, in increasing order of priority.
package config
