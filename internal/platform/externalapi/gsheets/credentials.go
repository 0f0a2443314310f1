package gsheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// ErrInvalidCredentials はサービスアカウントJSONが不正であることを示します。
var ErrInvalidCredentials = errors.New("invalid google credentials")

// requiredCredentialFields はサービスアカウントキーに必須のフィールドです。
var requiredCredentialFields = []string{
	"type",
	"project_id",
	"private_key_id",
	"private_key",
	"client_email",
	"client_id",
	"token_uri",
}

// ParseCredentials はサービスアカウントキーJSONを Sheets スコープ付きの認証情報に変換します。
func ParseCredentials(ctx context.Context, raw []byte) (*google.Credentials, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidCredentials)
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return creds, nil
}

// ValidateCredentials はサービスアカウントキーJSONを検証します。
// oauth2 で解釈できない場合、必須フィールドが欠けている場合、
// type が service_account でない場合にエラーを返します。
func ValidateCredentials(raw []byte) error {
	if _, err := ParseCredentials(context.Background(), raw); err != nil {
		return err
	}

	// oauth2 は鍵の中身を使うまで検証しないため、必須フィールドはここで確認する
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	var missing []string
	for _, f := range requiredCredentialFields {
		if s, ok := m[f].(string); !ok || s == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields %s", ErrInvalidCredentials, strings.Join(missing, ", "))
	}
	if m["type"] != "service_account" {
		return fmt.Errorf("%w: type %q is not service_account", ErrInvalidCredentials, m["type"])
	}
	if !strings.Contains(m["private_key"].(string), "BEGIN PRIVATE KEY") {
		return fmt.Errorf("%w: private_key is not a PEM key", ErrInvalidCredentials)
	}
	return nil
}
