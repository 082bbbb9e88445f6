package entity

// Provider identifies a rate-data source
type Provider string

const (
	// ExchangeRateAPI is the public, unauthenticated provider
	ExchangeRateAPI Provider = "ExchangeRate-API"
	// Wise requires an API key and returns direct cross rates
	Wise Provider = "Wise"
)

// DefaultProvider is selected when nothing else is configured
const DefaultProvider = ExchangeRateAPI

// Providers lists every supported provider in display order
func Providers() []Provider {
	return []Provider{ExchangeRateAPI, Wise}
}

// ParseProvider validates a provider name
func ParseProvider(name string) (Provider, bool) {
	for _, p := range Providers() {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

// RequiresCredential reports whether the provider needs an API key
func (p Provider) RequiresCredential() bool {
	return p == Wise
}

// ProviderSelection is a read-only snapshot of the active provider and credential
type ProviderSelection struct {
	Provider   Provider
	Credential string
}

// AwaitingCredential reports whether a fetch must wait for the user to supply a key
func (s ProviderSelection) AwaitingCredential() bool {
	return s.Provider.RequiresCredential() && s.Credential == ""
}
