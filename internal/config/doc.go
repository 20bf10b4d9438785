// SPDX-License-Identifier: EPL-2.0

// Package config loads speechprep settings from TOML.
//
// Load looks at an explicit path first, then ~/.config/speechprep/config.toml,
// then speechprep.toml in the working directory. Missing files are not an
// error. SPEECHPREP_FFMPEG, SPEECHPREP_LOG_LEVEL and SPEECHPREP_MODEL override
// the corresponding file values.
package config
