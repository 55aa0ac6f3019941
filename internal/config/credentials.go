package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// CredentialKind tags which encoding a service-account credential came from.
type CredentialKind string

const (
	CredentialBase64 CredentialKind = "base64"
	CredentialJSON   CredentialKind = "json"
	CredentialFields CredentialKind = "fields"
	CredentialFile   CredentialKind = "file"
)

// ServiceAccountSource holds the raw, unresolved credential settings.
type ServiceAccountSource struct {
	Base64       string
	JSON         string
	ClientEmail  string
	PrivateKey   string
	PrivateKeyID string
	ProjectID    string
	File         string
}

// ServiceAccount is a resolved credential: always a service-account key
// document, whichever way it was supplied.
type ServiceAccount struct {
	Kind        CredentialKind
	ClientEmail string
	JSON        []byte
}

var ErrNoServiceAccount = errors.New("no google service account credential configured")

type serviceAccountKey struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id,omitempty"`
	PrivateKeyID string `json:"private_key_id,omitempty"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	TokenURI     string `json:"token_uri"`
}

const googleTokenURI = "https://oauth2.googleapis.com/token"

// ResolveServiceAccount picks the first configured encoding
// (base64, raw JSON, discrete fields, key file) and validates it.
func ResolveServiceAccount(src ServiceAccountSource) (ServiceAccount, error) {
	switch {
	case strings.TrimSpace(src.Base64) != "":
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(src.Base64))
		if err != nil {
			return ServiceAccount{}, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_BASE64 is not valid base64: %w", err)
		}
		return parseServiceAccount(CredentialBase64, raw)
	case strings.TrimSpace(src.JSON) != "":
		return parseServiceAccount(CredentialJSON, []byte(src.JSON))
	case src.ClientEmail != "" || src.PrivateKey != "":
		if src.ClientEmail == "" || src.PrivateKey == "" {
			return ServiceAccount{}, errors.New("GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY must both be set")
		}
		key := serviceAccountKey{
			Type:         "service_account",
			ProjectID:    src.ProjectID,
			PrivateKeyID: src.PrivateKeyID,
			// keys pasted into env files usually carry literal \n
			PrivateKey:  strings.ReplaceAll(src.PrivateKey, `\n`, "\n"),
			ClientEmail: src.ClientEmail,
			TokenURI:    googleTokenURI,
		}
		raw, err := json.Marshal(key)
		if err != nil {
			return ServiceAccount{}, err
		}
		return parseServiceAccount(CredentialFields, raw)
	case strings.TrimSpace(src.File) != "":
		raw, err := os.ReadFile(strings.TrimSpace(src.File))
		if err != nil {
			return ServiceAccount{}, fmt.Errorf("read service account file: %w", err)
		}
		return parseServiceAccount(CredentialFile, raw)
	default:
		return ServiceAccount{}, ErrNoServiceAccount
	}
}

func parseServiceAccount(kind CredentialKind, raw []byte) (ServiceAccount, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return ServiceAccount{}, fmt.Errorf("%s service account credential is not valid JSON: %w", kind, err)
	}
	if key.ClientEmail == "" {
		return ServiceAccount{}, fmt.Errorf("%s service account credential has no client_email", kind)
	}
	if !strings.Contains(key.PrivateKey, "PRIVATE KEY") {
		return ServiceAccount{}, fmt.Errorf("%s service account credential has no PEM private_key", kind)
	}
	return ServiceAccount{Kind: kind, ClientEmail: key.ClientEmail, JSON: raw}, nil
}
