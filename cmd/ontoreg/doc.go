// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the ontoreg CLI commands.
//
// The root command loads configuration, installs the process logger and
// hands every subcommand an App through which registries are built. Query
// commands (term, children, parents, roots, valid, names) each build a fresh
// registry from the manifest; watch keeps one alive and rebuilds it on change.
package cmd
