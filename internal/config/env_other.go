//go:build !windows

package config

func mapEnvKey(key string) string { return key }
