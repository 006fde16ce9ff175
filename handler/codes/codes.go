package codes

import (
	"net/http"
	"strconv"

	"loanbook/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"
)

// With wraps a ledger error as a twirp error carrying the numeric code
func With(err error) error {
	code, ok := err.(core.ErrorCode)
	if !ok {
		return twirp.InternalErrorWith(err)
	}

	return twirp.NewError(twirpCode(code), code.Error()).WithMeta(CustomCodeKey, strconv.Itoa(int(code)))
}

// Code numeric ledger code of an error, -1 when it carries none
func Code(err error) int {
	if code, ok := err.(core.ErrorCode); ok {
		return int(code)
	}

	return -1
}

// Status HTTP status for an error
func Status(err error) int {
	if code, ok := err.(core.ErrorCode); ok {
		return twirp.ServerHTTPStatusFromErrorCode(twirpCode(code))
	}

	if twerr, ok := err.(twirp.Error); ok {
		return twirp.ServerHTTPStatusFromErrorCode(twerr.Code())
	}

	return http.StatusInternalServerError
}

func twirpCode(code core.ErrorCode) twirp.ErrorCode {
	switch code {
	case core.ErrUnknownAsset:
		return twirp.NotFound
	case core.ErrUnauthorized:
		return twirp.PermissionDenied
	case core.ErrDuplicateAsset:
		return twirp.AlreadyExists
	case core.ErrInvalidAmount, core.ErrInvalidRiskParameters, core.ErrInvalidSymbol:
		return twirp.InvalidArgument
	case core.ErrPriceUnavailable, core.ErrTransferFailed:
		return twirp.Unavailable
	case core.ErrReentrantCall:
		return twirp.Aborted
	case core.ErrUnknown:
		return twirp.Internal
	default:
		return twirp.FailedPrecondition
	}
}
