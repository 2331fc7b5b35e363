// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/petar-djukic/pysplit/pkg/types"
)

var (
	// ErrUnknownSymbol is returned when a requested name is not in the symbol table.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrUnsupportedDefinition is returned when the dependency graph reaches
	// a statement kind it has no policy for.
	ErrUnsupportedDefinition = errors.New("unsupported definition kind")
)

// UnknownSymbolError names the missing symbol and every symbol that exists.
type UnknownSymbolError struct {
	Name      string
	Available []string // Sorted
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("%v: %q not in [%s]", ErrUnknownSymbol, e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownSymbolError) Unwrap() error { return ErrUnknownSymbol }

// UnsupportedDefinitionError names the symbol whose defining statement has
// no dependency policy.
type UnsupportedDefinitionError struct {
	Name string
	Kind types.StatementKind
}

func (e *UnsupportedDefinitionError) Error() string {
	return fmt.Sprintf("%v: can't get dependencies for %q (%s statement)", ErrUnsupportedDefinition, e.Name, e.Kind)
}

func (e *UnsupportedDefinitionError) Unwrap() error { return ErrUnsupportedDefinition }
