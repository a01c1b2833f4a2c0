package vm

import (
	"github.com/cloudcmds/framevm/errz"
)

func checkCallArgs(fn *Function, argc int) error {
	paramsCount := fn.code.ArgCount()
	required := fn.RequiredArgs()
	if argc > paramsCount || argc < required {
		switch {
		case required == paramsCount && paramsCount == 1:
			return errz.Errorf(errz.ErrArgs, "function %q takes 1 argument (%d given)",
				fn.QualifiedName(), argc)
		case required == paramsCount:
			return errz.Errorf(errz.ErrArgs, "function %q takes %d arguments (%d given)",
				fn.QualifiedName(), paramsCount, argc)
		case argc < required:
			return errz.Errorf(errz.ErrArgs, "function %q takes at least %d arguments (%d given)",
				fn.QualifiedName(), required, argc)
		default:
			return errz.Errorf(errz.ErrArgs, "function %q takes at most %d arguments (%d given)",
				fn.QualifiedName(), paramsCount, argc)
		}
	}
	return nil
}
