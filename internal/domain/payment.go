package domain

import "errors"

var ErrMissingParameters = errors.New("missing payment verification parameters")
var ErrInvalidSignature = errors.New("invalid payment signature")
var ErrGatewayNotConfigured = errors.New("payment gateway not configured")
var ErrGatewayUnavailable = errors.New("payment gateway request failed")
var ErrPersistenceFailure = errors.New("payment state update failed to apply")
