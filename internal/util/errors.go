package util

import "errors"

var (
	ErrNoActiveModule      = errors.New("没有活动的学习模块")
	ErrNoToken             = errors.New("missing bearer token")
	ErrQuizNotReady        = errors.New("quiz not ready")
	ErrQuizAlreadyScored   = errors.New("quiz already scored")
	ErrQuizIncomplete      = errors.New("quiz answers incomplete")
	ErrUnknownQuestion     = errors.New("unknown question id")
	ErrStaleFetch          = errors.New("stale fetch discarded")
	ErrModuleIdentityMatch = errors.New("module identity mismatch")
)
