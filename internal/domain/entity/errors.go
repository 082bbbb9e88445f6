package entity

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies why a rate fetch failed
type FetchErrorKind string

const (
	// KindMissingCredential means the provider needs a key the user has not supplied
	KindMissingCredential FetchErrorKind = "missing_credential"
	// KindAuthentication means the provider rejected the key
	KindAuthentication FetchErrorKind = "authentication_failed"
	// KindMalformedResponse means required data was absent or not numeric
	KindMalformedResponse FetchErrorKind = "malformed_response"
	// KindNetwork means the provider could not be reached
	KindNetwork FetchErrorKind = "network_failure"
	// KindProvider means the provider reported an application-level error
	KindProvider FetchErrorKind = "provider_error"
	// KindUnexpected covers everything else
	KindUnexpected FetchErrorKind = "unexpected"
)

// FetchError is the uniform failure returned by every rate provider
type FetchError struct {
	Kind     FetchErrorKind
	Provider Provider
	// Pair is set when a single currency-pair lookup failed, e.g. "GBP->MYR"
	Pair    string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a fetch error without an underlying cause
func NewFetchError(kind FetchErrorKind, provider Provider, msg string) *FetchError {
	return &FetchError{Kind: kind, Provider: provider, Message: msg}
}

// MissingCredentialError is returned before any request is made to a credentialed provider
func MissingCredentialError(provider Provider) *FetchError {
	return NewFetchError(KindMissingCredential, provider,
		fmt.Sprintf("A %s API key is required. Please enter your key to fetch rates from %s.", provider, provider))
}

// NetworkError normalizes a transport failure
func NetworkError(provider Provider, cause error) *FetchError {
	return &FetchError{
		Kind:     KindNetwork,
		Provider: provider,
		Message:  fmt.Sprintf("Network error while fetching from %s. Please check your connection.", provider),
		Err:      cause,
	}
}

// UnexpectedError wraps an error that no provider classified
func UnexpectedError(provider Provider, cause error) *FetchError {
	return &FetchError{
		Kind:     KindUnexpected,
		Provider: provider,
		Message:  fmt.Sprintf("An unknown error occurred while fetching from %s.", provider),
		Err:      cause,
	}
}

// AsFetchError extracts a *FetchError from err's chain
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsKind reports whether err is a FetchError of the given kind
func IsKind(err error, kind FetchErrorKind) bool {
	fe, ok := AsFetchError(err)
	return ok && fe.Kind == kind
}

// KindOf returns the error's kind, treating unclassified errors as unexpected
func KindOf(err error) FetchErrorKind {
	if fe, ok := AsFetchError(err); ok {
		return fe.Kind
	}
	return KindUnexpected
}

// UserMessage returns the text suitable for showing to the user
func UserMessage(err error) string {
	if fe, ok := AsFetchError(err); ok {
		return fe.Message
	}
	return err.Error()
}
