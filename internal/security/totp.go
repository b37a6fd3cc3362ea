package security

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp/totp"
)

// totpIssuer is shown in authenticator apps.
const totpIssuer = "Petgas Portal"

// GenerateTOTPSecret creates a new TOTP secret for an admin account and
// returns the secret plus a base64-encoded QR code PNG for enrollment.
func GenerateTOTPSecret(accountName string) (secret string, qrPNGBase64 string, err error) {
	key, errGenerate := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
	})
	if errGenerate != nil {
		return "", "", errGenerate
	}

	img, errImage := key.Image(200, 200)
	if errImage != nil {
		return "", "", errImage
	}
	var buf bytes.Buffer
	if errEncode := png.Encode(&buf, img); errEncode != nil {
		return "", "", errEncode
	}

	return key.Secret(), base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ValidateTOTPCode checks a 6-digit code against a secret.
func ValidateTOTPCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
