// SPDX-License-Identifier: Apache-2.0
package atomstore

import (
	"repairengine/internal/ast"
	rerrors "repairengine/internal/errors"
)

const (
	errEmptyManifest = rerrors.ErrEmptyManifest
	errParse         = rerrors.ErrParse
	errScopeKey      = rerrors.ErrMissingScopeKey
)

func newLoadError(code, message string) error {
	return rerrors.New(code, message, ast.Position{})
}
