package usecase

import "errors"

var errAllQuickSourcesFailed = errors.New("quick data: all sources failed")
