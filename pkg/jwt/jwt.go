package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el rol del portador.
// El API administrativo solo emite tokens con rol "admin".
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Generate emite un token HS256 firmado con secret, con vigencia expMinutes.
func Generate(secret, subject, role string, expMinutes int) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("firmar token: %w", err)
	}
	return signed, nil
}

// Parse valida el token y devuelve subject y rol. Error si está expirado,
// mal firmado o usa un método de firma distinto de HS256.
func Parse(secret, tokenString string) (subject, role string, err error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parsear token: %w", err)
	}
	if !token.Valid {
		return "", "", fmt.Errorf("token inválido")
	}
	return claims.Subject, claims.Role, nil
}
