// Package confloader provides the configuration loading mechanism.
//
// It uses koanf to merge configuration from several sources into a typed
// struct. Priority (highest to lowest):
//
//  1. Maps loaded with LoadMap (command-line flags)
//  2. Environment variables (NETKEEP_ prefix)
//  3. The YAML configuration file
//  4. Default values already present in the target struct
//
// Watcher reports changes to watched files using fsnotify, so the daemon
// can apply settings such as log.level without a restart.
package confloader
