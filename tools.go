//go:build tools
// +build tools

// Package tools tracks the code generators used by go generate,
// so that mockgen is pinned in go.mod.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
