// Package config holds the settings of the codecore host.
//
// Settings are layered, later layers overriding earlier ones:
//
//	defaults
//	user file     ~/.config/codecore/config.toml
//	project file  ./.codecore.toml
//	environment   CODECORE_*
//
// Each layer is read into a generic map by the loader package, the maps are
// merged, and the result is decoded into a Config and validated. The
// watcher package reports edits to the files so the host can reload.
package config
