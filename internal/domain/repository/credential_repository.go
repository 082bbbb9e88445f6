// Package repository internal/domain/repository/credential_repository.go
package repository

import "context"

// CredentialRepository persists the API key of the credentialed provider
type CredentialRepository interface {
	// Load returns the stored credential, or an empty string when none was saved
	Load(ctx context.Context) (string, error)

	// Save replaces the stored credential
	Save(ctx context.Context, credential string) error
}
