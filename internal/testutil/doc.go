// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Filesystem helpers (MustWriteFile, MustMkdirAll, MustGzipFile) fail the test
// immediately. OBO builds small OBO documents for dictionary fixtures, and
// MustSetenv scopes environment overrides to a test.
package testutil
